package journey

import (
	"context"
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

const eventCols = `id, patient_id, user_id, event_type, event_data,
	related_analysis_id, related_knowledge_id, related_technique_evaluation_id,
	notes, timestamp, phase_end_date`

func scanEvent(row pgx.Row) (*Event, error) {
	var e Event
	err := row.Scan(&e.ID, &e.PatientID, &e.UserID, &e.EventType, &e.EventData,
		&e.RelatedAnalysisID, &e.RelatedKnowledgeID, &e.RelatedEvaluationID,
		&e.Notes, &e.Timestamp, &e.PhaseEndDate)
	return &e, err
}

func (r *repoPG) Create(ctx context.Context, e *Event) error {
	e.ID = uuid.New()
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO journey_events (
			id, patient_id, user_id, event_type, event_data,
			related_analysis_id, related_knowledge_id, related_technique_evaluation_id,
			notes, timestamp
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,COALESCE($10, NOW()))
		RETURNING timestamp`,
		e.ID, e.PatientID, e.UserID, e.EventType, e.EventData,
		e.RelatedAnalysisID, e.RelatedKnowledgeID, e.RelatedEvaluationID,
		e.Notes, nullTime(e.Timestamp),
	).Scan(&e.Timestamp)
	if err != nil {
		return fault.FromStore("evento", err)
	}
	return nil
}

func nullTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func (r *repoPG) ListByPatient(ctx context.Context, userID, patientID uuid.UUID) ([]*Event, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+eventCols+` FROM journey_events
		WHERE patient_id = $1 AND user_id = $2
		ORDER BY timestamp DESC`, patientID, userID)
	if err != nil {
		return nil, fault.FromStore("evento", err)
	}
	defer rows.Close()

	var result []*Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fault.FromStore("evento", err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

func (r *repoPG) StampPhaseEnd(ctx context.Context, userID, eventID uuid.UUID, endedAt time.Time) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE journey_events SET phase_end_date = $3
		WHERE id = $1 AND user_id = $2`, eventID, userID, endedAt)
	if err != nil {
		return fault.FromStore("evento", err)
	}
	if tag.RowsAffected() == 0 {
		return fault.NotFound("evento")
	}
	return nil
}

func (r *repoPG) DeleteByPatient(ctx context.Context, userID, patientID uuid.UUID) (int, error) {
	tag, err := r.conn(ctx).Exec(ctx, `
		DELETE FROM journey_events
		WHERE patient_id = $1 AND user_id = $2`, patientID, userID)
	if err != nil {
		return 0, fault.FromStore("evento", err)
	}
	return int(tag.RowsAffected()), nil
}
