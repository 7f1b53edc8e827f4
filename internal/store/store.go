package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Skufu/HeartRisk/internal/risk"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS assessments (
	id          uuid PRIMARY KEY,
	label       smallint NOT NULL,
	probability double precision NOT NULL,
	risk        text NOT NULL,
	message     text NOT NULL,
	input       jsonb NOT NULL,
	created_at  timestamptz NOT NULL
);
CREATE INDEX IF NOT EXISTS assessments_created_at_idx ON assessments (created_at DESC);
`

// Store is the Postgres audit log of assessments.
type Store struct {
	pool *pgxpool.Pool
}

// Connect opens a pool and pings it.
func Connect(ctx context.Context, url string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse db url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	return &Store{pool: pool}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Close() {
	s.pool.Close()
}

// Migrate creates the assessments table if needed.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func (s *Store) Save(ctx context.Context, a risk.Assessment) error {
	input, err := json.Marshal(a.Input)
	if err != nil {
		return fmt.Errorf("encode input: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO assessments (id, label, probability, risk, message, input, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		pgtype.UUID{Bytes: a.ID, Valid: true},
		a.Label,
		a.Probability,
		a.Risk,
		a.Message,
		input,
		a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert assessment: %w", err)
	}
	return nil
}

// Recent returns the newest assessments first.
func (s *Store) Recent(ctx context.Context, limit int) ([]risk.Assessment, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, label, probability, risk, message, input, created_at
		FROM assessments
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query assessments: %w", err)
	}
	defer rows.Close()

	out := []risk.Assessment{}
	for rows.Next() {
		var (
			id    pgtype.UUID
			input []byte
			a     risk.Assessment
		)
		if err := rows.Scan(&id, &a.Label, &a.Probability, &a.Risk, &a.Message, &input, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan assessment: %w", err)
		}
		if err := json.Unmarshal(input, &a.Input); err != nil {
			return nil, fmt.Errorf("decode input: %w", err)
		}
		a.ID = uuid.UUID(id.Bytes)
		a.Disclaimer = risk.Disclaimer
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assessments: %w", err)
	}
	return out, nil
}
