package analysis

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

const analysisCols = `id, patient_id, user_id, answers, results, created_at`

func scanAnalysis(row pgx.Row) (*Analysis, error) {
	var a Analysis
	err := row.Scan(&a.ID, &a.PatientID, &a.UserID, &a.Answers, &a.Results, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repoPG) Create(ctx context.Context, a *Analysis) error {
	a.ID = uuid.New()
	row := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO quantum_analyses (id, patient_id, user_id, answers, results)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`,
		a.ID, a.PatientID, a.UserID, a.Answers, a.Results)
	if err := row.Scan(&a.CreatedAt); err != nil {
		return fault.FromStore("análise", err)
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, userID, id uuid.UUID) (*Analysis, error) {
	row := r.conn(ctx).QueryRow(ctx, `
		SELECT `+analysisCols+`
		FROM quantum_analyses
		WHERE id = $1 AND user_id = $2`, id, userID)
	a, err := scanAnalysis(row)
	if err != nil {
		return nil, fault.FromStore("análise", err)
	}
	return a, nil
}

func (r *repoPG) ListByPatient(ctx context.Context, userID, patientID uuid.UUID) ([]*Analysis, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+analysisCols+`
		FROM quantum_analyses
		WHERE patient_id = $1 AND user_id = $2
		ORDER BY created_at DESC`, patientID, userID)
	if err != nil {
		return nil, fault.FromStore("análises", err)
	}
	defer rows.Close()

	analyses := []*Analysis{}
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, fault.FromStore("análises", err)
		}
		analyses = append(analyses, a)
	}
	return analyses, rows.Err()
}

func (r *repoPG) DeleteByPatient(ctx context.Context, userID, patientID uuid.UUID) (int, error) {
	tag, err := r.conn(ctx).Exec(ctx, `
		DELETE FROM quantum_analyses
		WHERE patient_id = $1 AND user_id = $2`, patientID, userID)
	if err != nil {
		return 0, fault.FromStore("análises", err)
	}
	return int(tag.RowsAffected()), nil
}
