package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/studiosite/internal/common"
	"github.com/dmitrijs2005/studiosite/internal/dbx"
	"github.com/dmitrijs2005/studiosite/internal/logging"
	"github.com/dmitrijs2005/studiosite/internal/server/models"
	"github.com/dmitrijs2005/studiosite/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/studiosite/internal/timex"
)

type sectionKeyInput struct {
	Key string `json:"sectionKey" validate:"required,max=255,sectionkey"`
}

// DefaultSections are written on first start and never overwrite edits.
var DefaultSections = []models.ContentEntry{
	{SectionKey: "hero_title", RawValue: "We craft premium logos, posters, social content, promo videos & 3D visuals."},
	{SectionKey: "hero_subtitle", RawValue: "Fast delivery, polished aesthetics, and conversion-driven visuals. Get a free sample for your first project — no strings attached."},
	{SectionKey: SectionServices, RawValue: "[]"},
	{SectionKey: SectionPortfolio, RawValue: "[]"},
	{SectionKey: SectionContactInfo, RawValue: `{"email":"hello@personaldesign.com","phone":"+353 1 234 5678","address":"Dublin, Ireland"}`},
}

// ContentService reads and writes the editable site sections.
type ContentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	log         logging.Logger
	now         timex.Clock
}

func NewContentService(db *sql.DB, m repomanager.RepositoryManager, log logging.Logger) *ContentService {
	return &ContentService{db: db, repomanager: m, log: log, now: timex.UTC}
}

// Get returns the section. A key that was never written yields an empty
// placeholder with zero UpdatedAt.
func (s *ContentService) Get(ctx context.Context, key string) (*models.ContentEntry, error) {
	if err := validateStruct(sectionKeyInput{Key: key}); err != nil {
		return nil, err
	}

	entry, err := s.repomanager.Content(s.db).Get(ctx, key)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return &models.ContentEntry{SectionKey: key}, nil
		}
		return nil, err
	}
	return entry, nil
}

// PublicGet returns only the raw value, for the public site.
func (s *ContentService) PublicGet(ctx context.Context, key string) (string, error) {
	entry, err := s.Get(ctx, key)
	if err != nil {
		return "", err
	}
	return entry.RawValue, nil
}

// Put replaces the section value. Structured sections are checked against
// their schema first; a rejected payload is never stored.
func (s *ContentService) Put(ctx context.Context, key, raw string) error {
	if err := validateStruct(sectionKeyInput{Key: key}); err != nil {
		return err
	}
	if err := ValidateSection(key, raw); err != nil {
		return err
	}

	if err := s.repomanager.Content(s.db).Upsert(ctx, key, raw, s.now()); err != nil {
		return err
	}
	s.log.Info(ctx, "content updated", "section", key, "bytes", len(raw))
	return nil
}

// ListAll returns every stored section ordered by key.
func (s *ContentService) ListAll(ctx context.Context) ([]*models.ContentEntry, error) {
	return s.repomanager.Content(s.db).List(ctx)
}

// SeedDefaults inserts DefaultSections that are missing and returns how many
// were created.
func (s *ContentService) SeedDefaults(ctx context.Context, db dbx.DBTX) (int, error) {
	repo := s.repomanager.Content(db)
	now := s.now()

	created := 0
	for _, d := range DefaultSections {
		ok, err := repo.InsertIfAbsent(ctx, d.SectionKey, d.RawValue, now)
		if err != nil {
			return created, err
		}
		if ok {
			created++
		}
	}
	return created, nil
}
