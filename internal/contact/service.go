package contact

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-region-directory/internal/apperr"
	"github.com/ovaphlow/pitchfork/service-region-directory/internal/contact/entity"
	"github.com/ovaphlow/pitchfork/service-region-directory/internal/contact/repo"
	"github.com/ovaphlow/pitchfork/service-region-directory/internal/validation"
)

// Service accepts contact messages and lists them for the admin.
type Service struct {
	repo *repo.MessageRepo
	Now  func() time.Time
}

func NewService(db *sqlx.DB) *Service {
	return &Service{repo: repo.NewMessageRepo(db), Now: time.Now}
}

// Submit validates the trimmed input and stores it. Returns the new id.
func (s *Service) Submit(ctx context.Context, in entity.MessageInput) (int64, error) {
	in.Normalize()
	if err := validation.Struct(in); err != nil {
		return 0, err
	}
	id, err := s.repo.Create(ctx, in, s.Now().UTC())
	if err != nil {
		return 0, apperr.Internal("Failed to send message", err)
	}
	return id, nil
}

func (s *Service) List(ctx context.Context) ([]entity.Message, error) {
	msgs, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperr.Internal("Failed to fetch messages", err)
	}
	return msgs, nil
}
