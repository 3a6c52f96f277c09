package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/agrisupport/complaint-service/internal/auth"
	"github.com/agrisupport/complaint-service/internal/config"
	"github.com/agrisupport/complaint-service/internal/domain"
	"github.com/agrisupport/complaint-service/internal/repository"
	apperrors "github.com/agrisupport/complaint-service/pkg/util"
)

// AuthService coordinates staff login and password flows.
type AuthService struct {
	staff       repository.StaffRepository
	audit       repository.AuditLogRepository
	tokenMgr    *auth.TokenManager
	bcryptCost  int
	masterEmail string
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, staff repository.StaffRepository, audit repository.AuditLogRepository) *AuthService {
	return &AuthService{
		staff:       staff,
		audit:       audit,
		tokenMgr:    auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost:  cfg.Auth.BcryptCost,
		masterEmail: cfg.Auth.MasterAdminEmail,
	}
}

// Login authenticates a staff member and returns a token whose claims
// carry role, zone, and the superuser flag.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.StaffMember, string, time.Time, error) {
	staff, err := s.staff.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	if !staff.Active {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("staff inactive")
	}
	if err := auth.ComparePassword(staff.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}

	actor := domain.ActorFor(staff, s.masterEmail)
	token, exp, err := s.tokenMgr.GenerateToken(actor)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	if s.audit != nil {
		entry := &domain.AuditLog{
			UserID: staff.ID,
			Action: domain.AuditActionLogin,
			Entity: "staff",
		}
		_ = s.audit.Create(ctx, entry)
	}
	return staff, token, exp, nil
}

// ChangePassword verifies the current password before updating.
func (s *AuthService) ChangePassword(ctx context.Context, staffID int64, currentPassword, newPassword string) error {
	if len(newPassword) < 8 {
		return apperrors.NewValidationError("password must be at least 8 characters", nil)
	}
	staff, err := s.staff.GetByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("staff", map[string]any{"staff_id": staffID})
		}
		return apperrors.MapError(err)
	}
	if err := auth.ComparePassword(staff.PasswordHash, currentPassword); err != nil {
		return apperrors.NewUnauthorized("invalid credentials")
	}
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.MapError(err)
	}
	if err := s.staff.UpdatePassword(ctx, staff.ID, hash); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
