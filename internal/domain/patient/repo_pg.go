package patient

import (
	"context"
	"fmt"
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

const patientCols = `p.id, p.user_id, p.full_name, p.email, p.phone, p.birth_date, p.gender,
	p.profession, p.marital_status, p.address, p.city, p.state,
	p.emergency_contact_name, p.emergency_contact_phone,
	p.main_complaint, p.health_history, p.medications,
	p.therapist_id, p.has_analysis, p.current_phase_number, p.phase_start_date,
	p.current_phase_id_pk, p.created_at, p.updated_at`

func scanPatient(row pgx.Row, withTherapist bool) (*Patient, error) {
	var p Patient
	dest := []interface{}{
		&p.ID, &p.UserID, &p.FullName, &p.Email, &p.Phone, &p.BirthDate, &p.Gender,
		&p.Profession, &p.MaritalStatus, &p.Address, &p.City, &p.State,
		&p.EmergencyContactName, &p.EmergencyContactPhone,
		&p.MainComplaint, &p.HealthHistory, &p.Medications,
		&p.TherapistID, &p.HasAnalysis, &p.CurrentPhaseNumber, &p.PhaseStartDate,
		&p.CurrentPhaseID, &p.CreatedAt, &p.UpdatedAt,
	}
	if withTherapist {
		dest = append(dest, &p.TherapistName)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	p.ID = uuid.New()
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO patients (
			id, user_id, full_name, email, phone, birth_date, gender,
			profession, marital_status, address, city, state,
			emergency_contact_name, emergency_contact_phone,
			main_complaint, health_history, medications, therapist_id
		) VALUES (
			$1,$2,$3,$4,$5,$6,$7,
			$8,$9,$10,$11,$12,
			$13,$14,
			$15,$16,$17,$18
		)
		RETURNING has_analysis, current_phase_number, created_at, updated_at`,
		p.ID, p.UserID, p.FullName, p.Email, p.Phone, p.BirthDate, p.Gender,
		p.Profession, p.MaritalStatus, p.Address, p.City, p.State,
		p.EmergencyContactName, p.EmergencyContactPhone,
		p.MainComplaint, p.HealthHistory, p.Medications, p.TherapistID,
	).Scan(&p.HasAnalysis, &p.CurrentPhaseNumber, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fault.FromStore("paciente", err)
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, userID, id uuid.UUID) (*Patient, error) {
	p, err := scanPatient(r.conn(ctx).QueryRow(ctx, `
		SELECT `+patientCols+`, t.name
		FROM patients p
		LEFT JOIN therapists t ON t.id = p.therapist_id
		WHERE p.id = $1 AND p.user_id = $2`, id, userID), true)
	if err != nil {
		return nil, fault.FromStore("paciente", err)
	}
	return p, nil
}

func (r *repoPG) List(ctx context.Context, userID uuid.UUID, filter SearchFilter, limit, offset int) ([]*Patient, int, error) {
	where := `p.user_id = $1`
	args := []interface{}{userID}

	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		n := len(args)
		where += fmt.Sprintf(` AND (p.full_name ILIKE $%d OR p.email ILIKE $%d OR t.name ILIKE $%d)`, n, n, n)
	}
	if filter.TherapistID != nil {
		args = append(args, *filter.TherapistID)
		where += fmt.Sprintf(` AND p.therapist_id = $%d`, len(args))
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM patients p LEFT JOIN therapists t ON t.id = p.therapist_id WHERE ` + where
	if err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fault.FromStore("paciente", err)
	}

	args = append(args, limit, offset)
	query := `
		SELECT ` + patientCols + `, t.name
		FROM patients p
		LEFT JOIN therapists t ON t.id = p.therapist_id
		WHERE ` + where + `
		ORDER BY p.created_at DESC` +
		fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fault.FromStore("paciente", err)
	}
	defer rows.Close()

	var result []*Patient
	for rows.Next() {
		p, err := scanPatient(rows, true)
		if err != nil {
			return nil, 0, fault.FromStore("paciente", err)
		}
		result = append(result, p)
	}
	return result, total, rows.Err()
}

func (r *repoPG) Update(ctx context.Context, p *Patient) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE patients SET
			full_name=$3, email=$4, phone=$5, birth_date=$6, gender=$7,
			profession=$8, marital_status=$9, address=$10, city=$11, state=$12,
			emergency_contact_name=$13, emergency_contact_phone=$14,
			main_complaint=$15, health_history=$16, medications=$17,
			therapist_id=$18, updated_at=NOW()
		WHERE id = $1 AND user_id = $2`,
		p.ID, p.UserID, p.FullName, p.Email, p.Phone, p.BirthDate, p.Gender,
		p.Profession, p.MaritalStatus, p.Address, p.City, p.State,
		p.EmergencyContactName, p.EmergencyContactPhone,
		p.MainComplaint, p.HealthHistory, p.Medications, p.TherapistID)
	if err != nil {
		return fault.FromStore("paciente", err)
	}
	if tag.RowsAffected() == 0 {
		return fault.NotFound("paciente")
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		DELETE FROM patients WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fault.FromStore("paciente", err)
	}
	if tag.RowsAffected() == 0 {
		return fault.NotFound("paciente")
	}
	return nil
}

func (r *repoPG) SetHasAnalysis(ctx context.Context, userID, id uuid.UUID, has bool) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE patients SET has_analysis=$3, updated_at=NOW()
		WHERE id = $1 AND user_id = $2`, id, userID, has)
	if err != nil {
		return fault.FromStore("paciente", err)
	}
	if tag.RowsAffected() == 0 {
		return fault.NotFound("paciente")
	}
	return nil
}

func (r *repoPG) UpdatePhase(ctx context.Context, userID, id uuid.UUID, phaseNumber int, startedAt time.Time) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE patients SET current_phase_number=$3, phase_start_date=$4, updated_at=NOW()
		WHERE id = $1 AND user_id = $2`, id, userID, phaseNumber, startedAt)
	if err != nil {
		return fault.FromStore("paciente", err)
	}
	if tag.RowsAffected() == 0 {
		return fault.NotFound("paciente")
	}
	return nil
}

func (r *repoPG) LinkPhaseEvent(ctx context.Context, userID, id, eventID uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE patients SET current_phase_id_pk=$3, updated_at=NOW()
		WHERE id = $1 AND user_id = $2`, id, userID, eventID)
	if err != nil {
		return fault.FromStore("paciente", err)
	}
	if tag.RowsAffected() == 0 {
		return fault.NotFound("paciente")
	}
	return nil
}

func (r *repoPG) Stats(ctx context.Context, userID uuid.UUID) (*Stats, error) {
	var s Stats
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE created_at >= NOW() - INTERVAL '7 days'),
			COUNT(*) FILTER (WHERE has_analysis)
		FROM patients
		WHERE user_id = $1`, userID).Scan(&s.Total, &s.AddedLastWeek, &s.WithAnalysis)
	if err != nil {
		return nil, fault.FromStore("paciente", err)
	}
	return &s, nil
}
