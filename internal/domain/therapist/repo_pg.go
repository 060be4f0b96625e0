package therapist

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quantum5d/quantum5d/internal/platform/db"
	"github.com/quantum5d/quantum5d/internal/platform/fault"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

func (r *repoPG) Create(ctx context.Context, t *Therapist) error {
	t.ID = uuid.New()
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO therapists (id, user_id, name)
		VALUES ($1, $2, $3)
		RETURNING created_at`,
		t.ID, t.UserID, t.Name).Scan(&t.CreatedAt)
	if err != nil {
		return fault.FromStore("terapeuta", err)
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, userID uuid.UUID) ([]*Therapist, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, user_id, name, created_at
		FROM therapists
		WHERE user_id = $1
		ORDER BY name`, userID)
	if err != nil {
		return nil, fault.FromStore("terapeuta", err)
	}
	defer rows.Close()

	var result []*Therapist
	for rows.Next() {
		var t Therapist
		if err := rows.Scan(&t.ID, &t.UserID, &t.Name, &t.CreatedAt); err != nil {
			return nil, fault.FromStore("terapeuta", err)
		}
		result = append(result, &t)
	}
	return result, rows.Err()
}

func (r *repoPG) Delete(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		DELETE FROM therapists WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fault.FromStore("terapeuta", err)
	}
	if tag.RowsAffected() == 0 {
		return fault.NotFound("terapeuta")
	}
	return nil
}
