package repository

import (
	"context"

	"counsel_hub/internal/domain/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AdminRepository interface {
	Create(ctx context.Context, admin *model.Admin) error
	FindByEmail(ctx context.Context, email string) (*model.Admin, error)
	FindByID(ctx context.Context, id string) (*model.Admin, error)
	UpdateDetails(ctx context.Context, id, name, email string) (*model.Admin, error)
	UpdatePassword(ctx context.Context, id, hashedPassword string) error
}

type pgAdminRepository struct {
	db *pgxpool.Pool
}

func NewPgAdminRepository(db *pgxpool.Pool) AdminRepository {
	return &pgAdminRepository{db: db}
}

const adminColumns = `id, name, email, password, role, created_at, updated_at`

func (r *pgAdminRepository) Create(ctx context.Context, admin *model.Admin) error {
	query := `INSERT INTO admins (id, name, email, password, role)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING created_at, updated_at`
	err := r.db.QueryRow(ctx, query, admin.ID, admin.Name, admin.Email, admin.HashedPassword, admin.Role).
		Scan(&admin.CreatedAt, &admin.UpdatedAt)
	return translate("pgAdminRepository.Create", err)
}

func (r *pgAdminRepository) FindByEmail(ctx context.Context, email string) (*model.Admin, error) {
	admin := &model.Admin{}
	err := r.db.QueryRow(ctx, `SELECT `+adminColumns+` FROM admins WHERE email = $1`, email).Scan(
		&admin.ID, &admin.Name, &admin.Email, &admin.HashedPassword, &admin.Role, &admin.CreatedAt, &admin.UpdatedAt,
	)
	if err != nil {
		return nil, translate("pgAdminRepository.FindByEmail", err)
	}
	return admin, nil
}

func (r *pgAdminRepository) FindByID(ctx context.Context, id string) (*model.Admin, error) {
	admin := &model.Admin{}
	err := r.db.QueryRow(ctx, `SELECT `+adminColumns+` FROM admins WHERE id = $1`, id).Scan(
		&admin.ID, &admin.Name, &admin.Email, &admin.HashedPassword, &admin.Role, &admin.CreatedAt, &admin.UpdatedAt,
	)
	if err != nil {
		return nil, translate("pgAdminRepository.FindByID", err)
	}
	return admin, nil
}

func (r *pgAdminRepository) UpdateDetails(ctx context.Context, id, name, email string) (*model.Admin, error) {
	query := `UPDATE admins SET name = $1, email = $2, updated_at = NOW()
	          WHERE id = $3
	          RETURNING ` + adminColumns
	admin := &model.Admin{}
	err := r.db.QueryRow(ctx, query, name, email, id).Scan(
		&admin.ID, &admin.Name, &admin.Email, &admin.HashedPassword, &admin.Role, &admin.CreatedAt, &admin.UpdatedAt,
	)
	if err != nil {
		return nil, translate("pgAdminRepository.UpdateDetails", err)
	}
	return admin, nil
}

func (r *pgAdminRepository) UpdatePassword(ctx context.Context, id, hashedPassword string) error {
	tag, err := r.db.Exec(ctx, `UPDATE admins SET password = $1, updated_at = NOW() WHERE id = $2`, hashedPassword, id)
	if err != nil {
		return translate("pgAdminRepository.UpdatePassword", err)
	}
	if tag.RowsAffected() == 0 {
		return translate("pgAdminRepository.UpdatePassword", pgx.ErrNoRows)
	}
	return nil
}
