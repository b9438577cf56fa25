package session

import "github.com/golang-jwt/jwt/v5"

// Claims is the payload of an admin session token.
type Claims struct {
	jwt.RegisteredClaims
	AdminID  int64  `json:"admin_id"`
	Username string `json:"username"`
}
