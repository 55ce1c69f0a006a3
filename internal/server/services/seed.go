package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/studiosite/internal/dbx"
	"github.com/dmitrijs2005/studiosite/internal/logging"
)

// Seeder fills an empty database with the first admin and default content.
type Seeder struct {
	db          *sql.DB
	credentials *CredentialService
	content     *ContentService
	log         logging.Logger
}

func NewSeeder(db *sql.DB, credentials *CredentialService, content *ContentService, log logging.Logger) *Seeder {
	return &Seeder{db: db, credentials: credentials, content: content, log: log}
}

// Run inserts whatever is missing in one transaction. The admin is only
// seeded when password is set.
func (s *Seeder) Run(ctx context.Context, username, password string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if password != "" {
			created, err := s.credentials.EnsureAdmin(ctx, tx, username, password)
			if err != nil {
				return err
			}
			if created {
				s.log.Info(ctx, "seeded admin account", "username", username)
			}
		}

		n, err := s.content.SeedDefaults(ctx, tx)
		if err != nil {
			return err
		}
		if n > 0 {
			s.log.Info(ctx, "seeded default content", "sections", n)
		}
		return nil
	})
}
