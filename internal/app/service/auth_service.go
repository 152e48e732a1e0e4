package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"counsel_hub/internal/common"
	"counsel_hub/internal/common/security"
	"counsel_hub/internal/domain/model"
	"counsel_hub/internal/domain/repository"

	"github.com/google/uuid"
)

const (
	minPasswordLen = 6
	maxNameLen     = 50
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]{2,}$`)

type AuthService struct {
	adminRepo repository.AdminRepository
	tokens    *security.TokenManager

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(adminRepo repository.AdminRepository, tokens *security.TokenManager) *AuthService {
	return &AuthService{adminRepo: adminRepo, tokens: tokens}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateDetailsRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type CreateAccountRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Session is a freshly issued token and the moment it stops being valid.
type Session struct {
	Token     string
	ExpiresAt time.Time
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*Session, error) {
	if req.Email == "" || req.Password == "" {
		return nil, common.NewError(common.ErrBadRequest, "Please provide an email and password")
	}

	admin, err := s.adminRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			// burn the same bcrypt time as a real comparison
			security.CheckPasswordHash(req.Password, s.dummy())
			return nil, common.NewError(common.ErrUnauthorized, "Invalid credentials")
		}
		return nil, fmt.Errorf("failed to find account: %w", err)
	}

	if !security.CheckPasswordHash(req.Password, admin.HashedPassword) {
		return nil, common.NewError(common.ErrUnauthorized, "Invalid credentials")
	}
	return s.issue(admin)
}

func (s *AuthService) Me(ctx context.Context, identity model.Identity) (*model.Admin, error) {
	admin, err := s.adminRepo.FindByID(ctx, identity.AccountID())
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NewError(common.ErrNotFound, "Account not found with id of %s", identity.AccountID())
		}
		return nil, err
	}
	return admin, nil
}

func (s *AuthService) UpdateDetails(ctx context.Context, identity model.Identity, req UpdateDetailsRequest) (*model.Admin, error) {
	current, err := s.Me(ctx, identity)
	if err != nil {
		return nil, err
	}

	name, email := current.Name, current.Email
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		email = strings.TrimSpace(*req.Email)
	}
	if err := validateAccount(name, email); err != nil {
		return nil, err
	}

	updated, err := s.adminRepo.UpdateDetails(ctx, current.ID, name, email)
	if err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, common.NewError(common.ErrConflict, "Email is already registered")
		}
		return nil, err
	}
	return updated, nil
}

func (s *AuthService) UpdatePassword(ctx context.Context, identity model.Identity, req UpdatePasswordRequest) (*Session, error) {
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return nil, common.NewError(common.ErrBadRequest, "Please provide the current and new password")
	}
	admin, err := s.Me(ctx, identity)
	if err != nil {
		return nil, err
	}
	if !security.CheckPasswordHash(req.CurrentPassword, admin.HashedPassword) {
		return nil, common.NewError(common.ErrUnauthorized, "Password is incorrect")
	}
	if len(req.NewPassword) < minPasswordLen {
		return nil, common.NewError(common.ErrValidation, "Password must be at least %d characters", minPasswordLen)
	}

	hashed, err := security.HashPassword(req.NewPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.adminRepo.UpdatePassword(ctx, admin.ID, hashed); err != nil {
		return nil, err
	}
	return s.issue(admin)
}

// CreateAccount registers an account out-of-band (CLI seeding or an admin
// acting on behalf of a client).
func (s *AuthService) CreateAccount(ctx context.Context, req CreateAccountRequest) (*model.Admin, error) {
	req.Email = strings.TrimSpace(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if req.Role == "" {
		req.Role = model.RoleUser
	}
	if !model.ValidRole(req.Role) {
		return nil, common.NewError(common.ErrValidation, "Role must be one of admin, user")
	}
	if err := validateAccount(req.Name, req.Email); err != nil {
		return nil, err
	}
	if len(req.Password) < minPasswordLen {
		return nil, common.NewError(common.ErrValidation, "Password must be at least %d characters", minPasswordLen)
	}

	hashed, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	admin := &model.Admin{
		ID:             uuid.NewString(),
		Name:           req.Name,
		Email:          req.Email,
		HashedPassword: hashed,
		Role:           req.Role,
	}
	if err := s.adminRepo.Create(ctx, admin); err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, common.NewError(common.ErrConflict, "Email is already registered")
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	return admin, nil
}

func (s *AuthService) issue(admin *model.Admin) (*Session, error) {
	token, expires, err := s.tokens.GenerateToken(admin.ID, admin.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &Session{Token: token, ExpiresAt: expires}, nil
}

func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = security.HashPassword(uuid.NewString())
	})
	return s.dummyHash
}

func validateAccount(name, email string) error {
	if email == "" {
		return common.NewError(common.ErrValidation, "Please add an email")
	}
	if !emailPattern.MatchString(email) {
		return common.NewError(common.ErrValidation, "Please add a valid email")
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return common.NewError(common.ErrValidation, "Name can not be more than %d characters", maxNameLen)
	}
	return nil
}
