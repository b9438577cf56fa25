package entity

import (
	"strings"
	"time"
)

// Message is an inbound contact form submission. Append-only.
type Message struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Message   string    `db:"message" json:"message"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type MessageInput struct {
	Name    string `json:"name" validate:"min=2,max=255"`
	Email   string `json:"email" validate:"contains=@,max=255"`
	Message string `json:"message" validate:"min=5,max=10000"`
}

func (in *MessageInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Message = strings.TrimSpace(in.Message)
}
