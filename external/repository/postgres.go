package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/foxseedlab/speechrelay/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) SaveTranscription(ctx context.Context, input repository.SaveTranscriptionInput) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`INSERT INTO transcriptions (session_id, language, resolution, transcript, canceled, reason, error_code, error_details, started_at, ended_at, segment_count)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			input.SessionID, input.Language, input.Resolution, input.Transcript, input.Canceled,
			input.Reason, input.ErrorCode, input.ErrorDetails, input.StartedAt, input.EndedAt, len(input.Segments)); err != nil {
			return fmt.Errorf("insert transcription: %w", err)
		}
		if len(input.Segments) == 0 {
			return nil
		}

		batch := &pgx.Batch{}
		for i, content := range input.Segments {
			batch.Queue(
				`INSERT INTO transcript_segments (session_id, content, segment_index) VALUES ($1, $2, $3)`,
				input.SessionID, content, i)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert transcript segments: %w", err)
		}
		return nil
	})
}

func (r *PostgresRepository) GetTranscription(ctx context.Context, sessionID string) (*repository.Transcription, error) {
	// session_id is a UUID column; anything else cannot exist.
	if _, err := uuid.Parse(sessionID); err != nil {
		return nil, repository.ErrNotFound
	}
	row := r.pool.QueryRow(ctx,
		`SELECT session_id::text, language, resolution::text, transcript, canceled, reason, error_code, error_details,
		        started_at, ended_at, segment_count, created_at
		 FROM transcriptions WHERE session_id = $1`,
		sessionID)
	var t repository.Transcription
	err := row.Scan(&t.SessionID, &t.Language, &t.Resolution, &t.Transcript, &t.Canceled, &t.Reason,
		&t.ErrorCode, &t.ErrorDetails, &t.StartedAt, &t.EndedAt, &t.SegmentCount, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *PostgresRepository) ListSegmentsBySessionID(ctx context.Context, sessionID string) ([]repository.TranscriptSegment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT session_id::text, content, segment_index, created_at
		 FROM transcript_segments WHERE session_id = $1 ORDER BY segment_index ASC`,
		sessionID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (repository.TranscriptSegment, error) {
		var seg repository.TranscriptSegment
		err := row.Scan(&seg.SessionID, &seg.Content, &seg.SegmentIndex, &seg.CreatedAt)
		return seg, err
	})
}

// Shutdown is called by the DI container.
func (r *PostgresRepository) Shutdown() {
	slog.Info("closing database pool")
	r.pool.Close()
}
