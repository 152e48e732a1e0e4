package repository

import (
	"context"
	"fmt"

	"counsel_hub/internal/common/query"
	"counsel_hub/internal/domain/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// slotConstraint is the unique constraint on (counselor_id, date, time).
const slotConstraint = "appointments_slot_unique"

var AppointmentQuerySchema = query.Schema{
	Fields: map[string]query.Field{
		"id":        {Column: "a.id", Kind: query.KindUUID},
		"user":      {Column: "a.user_id", Kind: query.KindUUID},
		"counselor": {Column: "a.counselor_id", Kind: query.KindUUID},
		"type":      {Column: "a.type", Kind: query.KindString},
		"date":      {Column: "a.date", Kind: query.KindDate},
		"time":      {Column: "a.time", Kind: query.KindString},
		"status":    {Column: "a.status", Kind: query.KindString},
		"notes":     {Column: "a.notes", Kind: query.KindString},
		"createdAt": {Column: "a.created_at", Kind: query.KindTimestamp},
		"updatedAt": {Column: "a.updated_at", Kind: query.KindTimestamp},
	},
	DefaultSort: "-createdAt",
}

type AppointmentRepository interface {
	Create(ctx context.Context, appt *model.Appointment) error
	FindByID(ctx context.Context, id string) (*model.Appointment, error)
	SlotTaken(ctx context.Context, slot model.Slot, excludeID string) (bool, error)
	List(ctx context.Context, opts *query.Options) ([]model.Appointment, int, error)
	ListByCounselor(ctx context.Context, counselorID string) ([]model.Appointment, error)
	Update(ctx context.Context, appt *model.Appointment) error
	Delete(ctx context.Context, id string) error
}

type pgAppointmentRepository struct {
	db *pgxpool.Pool
}

func NewPgAppointmentRepository(db *pgxpool.Pool) AppointmentRepository {
	return &pgAppointmentRepository{db: db}
}

const appointmentSelect = `SELECT a.id, a.user_id, u.name, u.email, a.counselor_id, c.name, c.email,
	a.type, a.date, a.time, a.status, a.notes, a.created_at, a.updated_at
	FROM appointments a
	JOIN admins u ON u.id = a.user_id
	JOIN admins c ON c.id = a.counselor_id`

func scanAppointment(row pgx.Row) (*model.Appointment, error) {
	a := &model.Appointment{User: &model.AccountSummary{}, Counselor: &model.AccountSummary{}}
	err := row.Scan(&a.ID, &a.UserID, &a.User.Name, &a.User.Email, &a.CounselorID, &a.Counselor.Name, &a.Counselor.Email,
		&a.Type, &a.Date, &a.Time, &a.Status, &a.Notes, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	a.User.ID = a.UserID
	a.Counselor.ID = a.CounselorID
	return a, nil
}

func collectAppointments(rows pgx.Rows, op string) ([]model.Appointment, error) {
	defer rows.Close()
	out := []model.Appointment{}
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, translate(op+" scan", err)
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(op+" rows", err)
	}
	return out, nil
}

func (r *pgAppointmentRepository) Create(ctx context.Context, a *model.Appointment) error {
	stmt := `INSERT INTO appointments (id, user_id, counselor_id, type, date, time, status, notes)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          RETURNING created_at, updated_at`
	err := r.db.QueryRow(ctx, stmt, a.ID, a.UserID, a.CounselorID, a.Type, a.Date, a.Time, a.Status, a.Notes).
		Scan(&a.CreatedAt, &a.UpdatedAt)
	return translate("pgAppointmentRepository.Create", err)
}

func (r *pgAppointmentRepository) FindByID(ctx context.Context, id string) (*model.Appointment, error) {
	a, err := scanAppointment(r.db.QueryRow(ctx, appointmentSelect+` WHERE a.id = $1`, id))
	if err != nil {
		return nil, translate("pgAppointmentRepository.FindByID", err)
	}
	return a, nil
}

func (r *pgAppointmentRepository) SlotTaken(ctx context.Context, slot model.Slot, excludeID string) (bool, error) {
	q := `SELECT EXISTS(
		SELECT 1 FROM appointments
		WHERE counselor_id = $1 AND date = $2 AND time = $3`
	args := []interface{}{slot.CounselorID, slot.Date, slot.Time}
	if excludeID != "" {
		q += ` AND id <> $4`
		args = append(args, excludeID)
	}
	q += `)`

	var exists bool
	if err := r.db.QueryRow(ctx, q, args...).Scan(&exists); err != nil {
		return false, translate("pgAppointmentRepository.SlotTaken", err)
	}
	return exists, nil
}

func (r *pgAppointmentRepository) List(ctx context.Context, opts *query.Options) ([]model.Appointment, int, error) {
	where, args := opts.Where(1)
	if where != "" {
		where = " WHERE " + where
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM appointments a`+where, args...).Scan(&total); err != nil {
		return nil, 0, translate("pgAppointmentRepository.List count", err)
	}

	sql := fmt.Sprintf(`%s%s ORDER BY %s LIMIT $%d OFFSET $%d`,
		appointmentSelect, where, opts.OrderBy("a.id"), len(args)+1, len(args)+2)
	rows, err := r.db.Query(ctx, sql, append(args, opts.Limit, opts.Offset())...)
	if err != nil {
		return nil, 0, translate("pgAppointmentRepository.List", err)
	}
	appts, err := collectAppointments(rows, "pgAppointmentRepository.List")
	if err != nil {
		return nil, 0, err
	}
	return appts, total, nil
}

func (r *pgAppointmentRepository) ListByCounselor(ctx context.Context, counselorID string) ([]model.Appointment, error) {
	rows, err := r.db.Query(ctx, appointmentSelect+` WHERE a.counselor_id = $1 ORDER BY a.date, a.time`, counselorID)
	if err != nil {
		return nil, translate("pgAppointmentRepository.ListByCounselor", err)
	}
	return collectAppointments(rows, "pgAppointmentRepository.ListByCounselor")
}

func (r *pgAppointmentRepository) Update(ctx context.Context, a *model.Appointment) error {
	stmt := `UPDATE appointments SET
	            counselor_id = $1, type = $2, date = $3, time = $4, status = $5, notes = $6, updated_at = NOW()
	          WHERE id = $7
	          RETURNING updated_at`
	err := r.db.QueryRow(ctx, stmt, a.CounselorID, a.Type, a.Date, a.Time, a.Status, a.Notes, a.ID).
		Scan(&a.UpdatedAt)
	return translate("pgAppointmentRepository.Update", err)
}

func (r *pgAppointmentRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return translate("pgAppointmentRepository.Delete", err)
	}
	if tag.RowsAffected() == 0 {
		return translate("pgAppointmentRepository.Delete", pgx.ErrNoRows)
	}
	return nil
}
