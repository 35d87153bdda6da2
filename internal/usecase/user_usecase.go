package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/lexpractice/lexledger/internal/domain"
)

// UserUseCase handles user management operations
type UserUseCase struct {
	userRepo  UserRepository
	auditRepo AuditRepository
	idGen     IDGenerator
	now       Clock
}

// NewUserUseCase creates a new user use case
func NewUserUseCase(userRepo UserRepository, auditRepo AuditRepository, idGen IDGenerator) *UserUseCase {
	return &UserUseCase{
		userRepo:  userRepo,
		auditRepo: auditRepo,
		idGen:     idGen,
		now:       systemClock,
	}
}

// RegisterInput represents input for registering a user
type RegisterInput struct {
	Email        string
	Name         string
	Password     string
	Role         domain.Role
	HourlyRate   decimal.Decimal
	AnnualSalary decimal.Decimal
	ActorID      string
}

// Register creates a new user with a hashed password
func (uc *UserUseCase) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	verr := &domain.ValidationError{}
	verr.AddErr("email", domain.ValidateEmail(input.Email))
	verr.AddErr("password", domain.ValidatePassword(input.Password))
	if strings.TrimSpace(input.Name) == "" {
		verr.Add("name", "is required")
	}
	if !input.Role.IsValid() {
		verr.Add("role", "must be Admin, Partner, Associate or Staff")
	}
	verr.AddErr("hourlyRate", domain.ValidateNonNegative(input.HourlyRate))
	verr.AddErr("annualSalary", domain.ValidateNonNegative(input.AnnualSalary))
	if err := verr.Err(); err != nil {
		return nil, err
	}

	email := domain.NormalizeEmail(input.Email)

	// Check if user already exists
	existing, err := uc.userRepo.GetByEmail(ctx, email)
	switch {
	case err == nil && existing != nil:
		return nil, domain.ErrEmailTaken
	case err != nil && !errors.Is(err, domain.ErrUserNotFound):
		return nil, err
	}

	hashedPassword, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	now := uc.now().UTC()
	user := &domain.User{
		ID:             uc.idGen.Generate(),
		Email:          email,
		Name:           strings.TrimSpace(input.Name),
		HashedPassword: hashedPassword,
		Role:           input.Role,
		HourlyRate:     input.HourlyRate,
		AnnualSalary:   input.AnnualSalary,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	// Don't return hashed password
	user.HashedPassword = ""

	if uc.auditRepo != nil {
		log := newAuditLog(ctx, input.ActorID, domain.AuditActionUserRegister, domain.ResourceUser, user.ID, nil, user, now)
		if err := uc.auditRepo.Create(ctx, log); err != nil {
			return nil, err
		}
	}

	return user, nil
}

// Authenticate verifies user credentials
func (uc *UserUseCase) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := uc.userRepo.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}

	if !user.Active {
		return nil, domain.ErrUserInactive
	}

	if err := verifyPassword(user.HashedPassword, password); err != nil {
		return nil, domain.ErrUnauthorized
	}

	user.HashedPassword = ""
	return user, nil
}

// GetUser retrieves a user by ID
func (uc *UserUseCase) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.HashedPassword = ""
	return user, nil
}

// ChangePassword replaces the user's password after checking the current one
func (uc *UserUseCase) ChangePassword(ctx context.Context, id, currentPassword, newPassword string) error {
	if err := domain.ValidatePassword(newPassword); err != nil {
		verr := &domain.ValidationError{}
		verr.AddErr("newPassword", err)
		return verr
	}

	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := verifyPassword(user.HashedPassword, currentPassword); err != nil {
		return domain.ErrUnauthorized
	}

	hashedPassword, err := hashPassword(newPassword)
	if err != nil {
		return err
	}

	return uc.userRepo.UpdatePassword(ctx, id, hashedPassword, uc.now().UTC())
}

// ListUsers lists users with pagination
func (uc *UserUseCase) ListUsers(ctx context.Context, limit, offset int) ([]*domain.User, error) {
	limit, offset, _ = domain.ValidatePagination(limit, offset)

	users, err := uc.userRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	// Remove hashed passwords
	for _, user := range users {
		user.HashedPassword = ""
	}

	return users, nil
}

// hashPassword hashes a password using bcrypt
func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// verifyPassword verifies a password against a hash
func verifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// HashPassword is exposed for seeding the first administrator.
func HashPassword(password string) (string, error) {
	return hashPassword(password)
}
