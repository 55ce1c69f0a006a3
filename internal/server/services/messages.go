package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/studiosite/internal/common"
	"github.com/dmitrijs2005/studiosite/internal/logging"
	"github.com/dmitrijs2005/studiosite/internal/server/models"
	"github.com/dmitrijs2005/studiosite/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/studiosite/internal/timex"
)

// ContactForm is a submission from the public contact form.
type ContactForm struct {
	Name        string `json:"name" validate:"required,max=255"`
	Email       string `json:"email" validate:"required,max=255"`
	ProjectType string `json:"projectType" validate:"required,max=255"`
	Body        string `json:"body"`
}

// MessageService is the contact inbox.
type MessageService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	log         logging.Logger
	now         timex.Clock
}

func NewMessageService(db *sql.DB, m repomanager.RepositoryManager, log logging.Logger) *MessageService {
	return &MessageService{db: db, repomanager: m, log: log, now: timex.UTC}
}

// Submit validates the form and appends it with status new.
func (s *MessageService) Submit(ctx context.Context, form ContactForm) (int64, error) {
	form.Name = strings.TrimSpace(form.Name)
	form.Email = strings.TrimSpace(form.Email)
	form.ProjectType = strings.TrimSpace(form.ProjectType)

	if err := validateStruct(form); err != nil {
		return 0, err
	}

	id, err := s.repomanager.Messages(s.db).Create(ctx, &models.Message{
		Name:        form.Name,
		Email:       form.Email,
		ProjectType: form.ProjectType,
		Body:        form.Body,
		Status:      models.MessageStatusNew,
		CreatedAt:   s.now(),
	})
	if err != nil {
		return 0, err
	}

	s.log.Info(ctx, "contact message received", "id", id, "projectType", form.ProjectType)
	return id, nil
}

// List returns every message, newest first.
func (s *MessageService) List(ctx context.Context) ([]*models.Message, error) {
	return s.repomanager.Messages(s.db).List(ctx)
}

// UpdateStatus sets the status of one message. An unknown status is a
// validation error even when id does not exist.
func (s *MessageService) UpdateStatus(ctx context.Context, id int64, status string) error {
	st := models.MessageStatus(status)
	if !st.Valid() {
		return fmt.Errorf("%w: status must be one of new, read, replied", common.ErrValidation)
	}
	if err := s.repomanager.Messages(s.db).UpdateStatus(ctx, id, st); err != nil {
		return fmt.Errorf("message %d: %w", id, err)
	}
	return nil
}

// Delete removes one message.
func (s *MessageService) Delete(ctx context.Context, id int64) error {
	if err := s.repomanager.Messages(s.db).Delete(ctx, id); err != nil {
		return fmt.Errorf("message %d: %w", id, err)
	}
	s.log.Info(ctx, "message deleted", "id", id)
	return nil
}

