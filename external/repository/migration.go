package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

var migrationStatements = []string{
	`DO $$ BEGIN CREATE TYPE transcription_resolution AS ENUM ('completed', 'canceled', 'timeout'); EXCEPTION WHEN duplicate_object THEN NULL; END $$`,
	`CREATE TABLE IF NOT EXISTS transcriptions (
		session_id UUID PRIMARY KEY,
		language TEXT NOT NULL,
		resolution transcription_resolution NOT NULL,
		transcript TEXT NOT NULL,
		canceled BOOLEAN NOT NULL DEFAULT FALSE,
		reason TEXT NOT NULL DEFAULT '',
		error_code TEXT NOT NULL DEFAULT '',
		error_details TEXT NOT NULL DEFAULT '',
		started_at TIMESTAMPTZ NOT NULL,
		ended_at TIMESTAMPTZ NOT NULL,
		segment_count INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_transcriptions_started_at ON transcriptions (started_at DESC)`,
	`CREATE TABLE IF NOT EXISTS transcript_segments (
		session_id UUID NOT NULL REFERENCES transcriptions(session_id) ON DELETE CASCADE,
		content TEXT NOT NULL,
		segment_index INTEGER NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (session_id, segment_index)
	)`,
}

func RunMigration(ctx context.Context, pool *pgxpool.Pool) error {
	for _, s := range migrationStatements {
		stmt := strings.TrimSpace(s)
		if stmt == "" {
			continue
		}
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
