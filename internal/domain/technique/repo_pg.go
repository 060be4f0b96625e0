package technique

import (
	"context"
	"errors"
	"time"

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

const techniqueCols = `id, user_id, id_key, title, category, type, description,
	core_principles, techniques_practices, target_conditions, contraindications,
	evaluation_schema, report_template, created_at, updated_at`

func scanTechnique(row pgx.Row) (*Technique, error) {
	var t Technique
	err := row.Scan(&t.ID, &t.UserID, &t.IDKey, &t.Title, &t.Category, &t.Type, &t.Description,
		&t.CorePrinciples, &t.TechniquesPractices, &t.TargetConditions, &t.Contraindications,
		&t.EvaluationSchema, &t.ReportTemplate, &t.CreatedAt, &t.UpdatedAt)
	return &t, err
}

func (r *repoPG) Create(ctx context.Context, t *Technique) error {
	t.ID = uuid.New()
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO knowledge_base (
			id, user_id, id_key, title, category, type, description,
			core_principles, techniques_practices, target_conditions, contraindications,
			evaluation_schema, report_template
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		RETURNING created_at, updated_at`,
		t.ID, t.UserID, t.IDKey, t.Title, t.Category, t.Type, t.Description,
		t.CorePrinciples, t.TechniquesPractices, t.TargetConditions, t.Contraindications,
		t.EvaluationSchema, t.ReportTemplate,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fault.Conflict("já existe uma técnica com este id_key")
		}
		return fault.FromStore("técnica", err)
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, userID, id uuid.UUID) (*Technique, error) {
	t, err := scanTechnique(r.conn(ctx).QueryRow(ctx, `
		SELECT `+techniqueCols+` FROM knowledge_base
		WHERE id = $1 AND user_id = $2`, id, userID))
	if err != nil {
		return nil, fault.FromStore("técnica", err)
	}
	return t, nil
}

func (r *repoPG) GetByIDKey(ctx context.Context, userID uuid.UUID, idKey string) (*Technique, error) {
	t, err := scanTechnique(r.conn(ctx).QueryRow(ctx, `
		SELECT `+techniqueCols+` FROM knowledge_base
		WHERE id_key = $1 AND user_id = $2`, idKey, userID))
	if err != nil {
		return nil, fault.FromStore("técnica", err)
	}
	return t, nil
}

func (r *repoPG) List(ctx context.Context, userID uuid.UUID) ([]*Technique, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+techniqueCols+` FROM knowledge_base
		WHERE user_id = $1
		ORDER BY title`, userID)
	if err != nil {
		return nil, fault.FromStore("técnica", err)
	}
	defer rows.Close()

	var result []*Technique
	for rows.Next() {
		t, err := scanTechnique(rows)
		if err != nil {
			return nil, fault.FromStore("técnica", err)
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

func (r *repoPG) Update(ctx context.Context, t *Technique) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE knowledge_base SET
			title=$3, category=$4, type=$5, description=$6,
			core_principles=$7, techniques_practices=$8, target_conditions=$9,
			contraindications=$10, evaluation_schema=$11, report_template=$12,
			updated_at=NOW()
		WHERE id = $1 AND user_id = $2`,
		t.ID, t.UserID, t.Title, t.Category, t.Type, t.Description,
		t.CorePrinciples, t.TechniquesPractices, t.TargetConditions,
		t.Contraindications, t.EvaluationSchema, t.ReportTemplate)
	if err != nil {
		return fault.FromStore("técnica", err)
	}
	if tag.RowsAffected() == 0 {
		return fault.NotFound("técnica")
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		DELETE FROM knowledge_base WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fault.FromStore("técnica", err)
	}
	if tag.RowsAffected() == 0 {
		return fault.NotFound("técnica")
	}
	return nil
}

// -- Evaluations --

func (r *repoPG) CreateEvaluation(ctx context.Context, e *Evaluation) error {
	e.ID = uuid.New()
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO technique_evaluations (
			id, patient_id, knowledge_base_id, therapist_id,
			evaluation_data, evaluation_results, notes, evaluation_date
		) VALUES ($1,$2,$3,$4,$5,$6,$7,COALESCE($8, NOW()))
		RETURNING evaluation_date`,
		e.ID, e.PatientID, e.KnowledgeBaseID, e.TherapistID,
		e.EvaluationData, e.EvaluationResults, e.Notes, nullTime(e.EvaluationDate),
	).Scan(&e.EvaluationDate)
	if err != nil {
		return fault.FromStore("avaliação", err)
	}
	return nil
}

func nullTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

const evaluationCols = `e.id, e.patient_id, e.knowledge_base_id, e.therapist_id,
	e.evaluation_data, e.evaluation_results, e.notes, e.evaluation_date`

func scanEvaluation(row pgx.Row) (*Evaluation, error) {
	var e Evaluation
	err := row.Scan(&e.ID, &e.PatientID, &e.KnowledgeBaseID, &e.TherapistID,
		&e.EvaluationData, &e.EvaluationResults, &e.Notes, &e.EvaluationDate,
		&e.TechniqueTitle)
	return &e, err
}

func (r *repoPG) ListEvaluationsByPatient(ctx context.Context, userID, patientID uuid.UUID) ([]*Evaluation, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+evaluationCols+`, COALESCE(kb.title, '')
		FROM technique_evaluations e
		LEFT JOIN knowledge_base kb ON kb.id = e.knowledge_base_id
		WHERE e.patient_id = $1 AND e.therapist_id = $2
		ORDER BY e.evaluation_date DESC`, patientID, userID)
	if err != nil {
		return nil, fault.FromStore("avaliação", err)
	}
	defer rows.Close()

	var result []*Evaluation
	for rows.Next() {
		e, err := scanEvaluation(rows)
		if err != nil {
			return nil, fault.FromStore("avaliação", err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

func (r *repoPG) ListEvaluationsByPatientAndTechnique(ctx context.Context, userID, patientID, techniqueID uuid.UUID) ([]*Evaluation, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+evaluationCols+`, COALESCE(kb.title, '')
		FROM technique_evaluations e
		LEFT JOIN knowledge_base kb ON kb.id = e.knowledge_base_id
		WHERE e.patient_id = $1 AND e.therapist_id = $2 AND e.knowledge_base_id = $3
		ORDER BY e.evaluation_date DESC`, patientID, userID, techniqueID)
	if err != nil {
		return nil, fault.FromStore("avaliação", err)
	}
	defer rows.Close()

	var result []*Evaluation
	for rows.Next() {
		e, err := scanEvaluation(rows)
		if err != nil {
			return nil, fault.FromStore("avaliação", err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

func (r *repoPG) DeleteEvaluationsByPatient(ctx context.Context, userID, patientID uuid.UUID) (int, error) {
	tag, err := r.conn(ctx).Exec(ctx, `
		DELETE FROM technique_evaluations
		WHERE patient_id = $1 AND therapist_id = $2`, patientID, userID)
	if err != nil {
		return 0, fault.FromStore("avaliação", err)
	}
	return int(tag.RowsAffected()), nil
}
