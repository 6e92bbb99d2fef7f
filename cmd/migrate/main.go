// Command migrate applies the embedded SQL migrations in filename
// order, tracking applied files in a schema_migrations table.
package main

import (
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/config"
	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/pkg/database"
	"github.com/jitenkr2030/Campus-Exchange-sub000/migrations"
)

func main() {
	cfg := config.Load()

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			filename TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create schema_migrations table")
	}

	entries, err := migrations.Files.ReadDir(".")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read embedded migrations")
	}

	var names []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".sql") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	applied := 0
	for _, name := range names {
		var exists bool
		if err := db.Get(&exists, `SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE filename = $1)`, name); err != nil {
			log.Fatal().Err(err).Str("migration", name).Msg("Failed to check migration state")
		}
		if exists {
			continue
		}

		sqlBytes, err := migrations.Files.ReadFile(name)
		if err != nil {
			log.Fatal().Err(err).Str("migration", name).Msg("Failed to read migration")
		}

		tx, err := db.Beginx()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to begin transaction")
		}
		if _, err := tx.Exec(string(sqlBytes)); err != nil {
			tx.Rollback()
			log.Fatal().Err(err).Str("migration", name).Msg("Migration failed")
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations (filename) VALUES ($1)`, name); err != nil {
			tx.Rollback()
			log.Fatal().Err(err).Str("migration", name).Msg("Failed to record migration")
		}
		if err := tx.Commit(); err != nil {
			log.Fatal().Err(err).Str("migration", name).Msg("Failed to commit migration")
		}

		log.Info().Str("migration", name).Msg("Applied")
		applied++
	}

	log.Info().Int("applied", applied).Int("total", len(names)).Msg("Migrations up to date")
}
