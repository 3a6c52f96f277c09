package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agrisupport/complaint-service/internal/domain"
)

// OrgRepository exposes read-only lookups over the organizational
// hierarchy. The core only consumes ids, parent links, and active flags;
// CRUD on these records lives elsewhere.
type OrgRepository interface {
	GetZone(ctx context.Context, id int64) (*domain.Zone, error)
	GetBranch(ctx context.Context, id int64) (*domain.Branch, error)
	GetLine(ctx context.Context, id int64) (*domain.Line, error)
	GetFarmer(ctx context.Context, id int64) (*domain.Farmer, error)
	GetEquipment(ctx context.Context, id int64) (*domain.Equipment, error)
}

type orgRepository struct {
	pool *pgxpool.Pool
}

// NewOrgRepository builds the repository.
func NewOrgRepository(pool *pgxpool.Pool) OrgRepository {
	return &orgRepository{pool: pool}
}

func (r *orgRepository) GetZone(ctx context.Context, id int64) (*domain.Zone, error) {
	const query = `SELECT id, name, is_active, created_at FROM zones WHERE id=$1`
	var zone domain.Zone
	if err := r.pool.QueryRow(ctx, query, id).Scan(&zone.ID, &zone.Name, &zone.IsActive, &zone.CreatedAt); err != nil {
		return nil, err
	}
	return &zone, nil
}

func (r *orgRepository) GetBranch(ctx context.Context, id int64) (*domain.Branch, error) {
	const query = `SELECT id, zone_id, name, is_active, created_at FROM branches WHERE id=$1`
	var branch domain.Branch
	if err := r.pool.QueryRow(ctx, query, id).Scan(&branch.ID, &branch.ZoneID, &branch.Name, &branch.IsActive, &branch.CreatedAt); err != nil {
		return nil, err
	}
	return &branch, nil
}

func (r *orgRepository) GetLine(ctx context.Context, id int64) (*domain.Line, error) {
	const query = `SELECT id, branch_id, name, is_active, created_at FROM lines WHERE id=$1`
	var line domain.Line
	if err := r.pool.QueryRow(ctx, query, id).Scan(&line.ID, &line.BranchID, &line.Name, &line.IsActive, &line.CreatedAt); err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *orgRepository) GetFarmer(ctx context.Context, id int64) (*domain.Farmer, error) {
	const query = `SELECT id, line_id, branch_id, zone_id, name, phone, is_active, created_at FROM farmers WHERE id=$1`
	var farmer domain.Farmer
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&farmer.ID,
		&farmer.LineID,
		&farmer.BranchID,
		&farmer.ZoneID,
		&farmer.Name,
		&farmer.Phone,
		&farmer.IsActive,
		&farmer.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &farmer, nil
}

func (r *orgRepository) GetEquipment(ctx context.Context, id int64) (*domain.Equipment, error) {
	const query = `SELECT id, farmer_id, serial_no, model, is_active, installed_at, created_at FROM equipment WHERE id=$1`
	var eq domain.Equipment
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&eq.ID,
		&eq.FarmerID,
		&eq.SerialNo,
		&eq.Model,
		&eq.IsActive,
		&eq.InstalledAt,
		&eq.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &eq, nil
}
