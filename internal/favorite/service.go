package favorite

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-region-directory/internal/apperr"
	"github.com/ovaphlow/pitchfork/service-region-directory/internal/favorite/entity"
	"github.com/ovaphlow/pitchfork/service-region-directory/internal/favorite/repo"
	"github.com/ovaphlow/pitchfork/service-region-directory/pkg/database"
)

// Service keeps a set of city names per client id. Add and Remove are
// idempotent.
type Service struct {
	repo *repo.FavoriteRepo
	Now  func() time.Time
}

func NewService(db *sqlx.DB) *Service {
	return &Service{repo: repo.NewFavoriteRepo(db), Now: time.Now}
}

// maxFieldLen mirrors the client_id and city column widths.
const maxFieldLen = 128

func normalizeClient(clientID string) (string, error) {
	clientID = strings.TrimSpace(clientID)
	switch {
	case clientID == "":
		return "", apperr.Validation("Missing x-client-id")
	case utf8.RuneCountInString(clientID) > maxFieldLen:
		return "", apperr.Validation(fmt.Sprintf("x-client-id must be at most %d characters", maxFieldLen))
	}
	return clientID, nil
}

func normalize(clientID, city string) (string, string, error) {
	clientID, err := normalizeClient(clientID)
	if err != nil {
		return "", "", err
	}
	city = strings.TrimSpace(city)
	switch {
	case city == "":
		return "", "", apperr.Validation("city is required")
	case utf8.RuneCountInString(city) > maxFieldLen:
		return "", "", apperr.Validation(fmt.Sprintf("city must be at most %d characters", maxFieldLen))
	}
	return clientID, city, nil
}

func (s *Service) Add(ctx context.Context, clientID, city string) error {
	clientID, city, err := normalize(clientID, city)
	if err != nil {
		return err
	}
	if err := s.repo.Insert(ctx, clientID, city, s.Now().UTC()); err != nil {
		if database.IsUniqueViolation(err) {
			return nil
		}
		return apperr.Internal("Failed to save favorite", err)
	}
	return nil
}

func (s *Service) Remove(ctx context.Context, clientID, city string) error {
	clientID, city, err := normalize(clientID, city)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, clientID, city); err != nil {
		return apperr.Internal("Failed to remove favorite", err)
	}
	return nil
}

func (s *Service) List(ctx context.Context, clientID string) ([]entity.Favorite, error) {
	clientID, err := normalizeClient(clientID)
	if err != nil {
		return nil, err
	}
	favs, err := s.repo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, apperr.Internal("Failed to fetch favorites", err)
	}
	return favs, nil
}
