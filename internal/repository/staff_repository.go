package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agrisupport/complaint-service/internal/domain"
)

// StaffRepository manages staff persistence.
type StaffRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.StaffMember, error)
	GetByEmail(ctx context.Context, email string) (*domain.StaffMember, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}

type staffRepository struct {
	pool *pgxpool.Pool
}

// NewStaffRepository builds the repository.
func NewStaffRepository(pool *pgxpool.Pool) StaffRepository {
	return &staffRepository{pool: pool}
}

const staffColumns = `id, name, email, password_hash, role, zone_id, branch_id, active, created_at, updated_at`

func (r *staffRepository) GetByID(ctx context.Context, id int64) (*domain.StaffMember, error) {
	const query = `SELECT ` + staffColumns + ` FROM staff WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *staffRepository) GetByEmail(ctx context.Context, email string) (*domain.StaffMember, error) {
	const query = `SELECT ` + staffColumns + ` FROM staff WHERE LOWER(email)=LOWER($1)`
	return r.fetchSingle(ctx, query, email)
}

func (r *staffRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	const query = `UPDATE staff SET password_hash=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, passwordHash, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *staffRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.StaffMember, error) {
	var staff domain.StaffMember
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&staff.ID,
		&staff.Name,
		&staff.Email,
		&staff.PasswordHash,
		&staff.Role,
		&staff.ZoneID,
		&staff.BranchID,
		&staff.Active,
		&staff.CreatedAt,
		&staff.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &staff, nil
}
