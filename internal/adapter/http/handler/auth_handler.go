package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/lexpractice/lexledger/internal/adapter/http/dto"
	"github.com/lexpractice/lexledger/internal/domain"
	"github.com/lexpractice/lexledger/internal/usecase"
)

// UserService defines the behavior needed by AuthHandler.
type UserService interface {
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
	Register(ctx context.Context, input usecase.RegisterInput) (*domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	ChangePassword(ctx context.Context, id, currentPassword, newPassword string) error
	ListUsers(ctx context.Context, limit, offset int) ([]*domain.User, error)
}

// TokenIssuer signs access tokens.
type TokenIssuer interface {
	Generate(user *domain.User) (string, error)
	TokenDuration() time.Duration
}

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	userUC UserService
	tokens TokenIssuer
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(userUC UserService, tokens TokenIssuer) *AuthHandler {
	return &AuthHandler{
		userUC: userUC,
		tokens: tokens,
	}
}

// Login checks credentials and issues a token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required", nil)
		return
	}

	user, err := h.userUC.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	token, err := h.tokens.Generate(user)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, dto.LoginResponse{
		Token:     token,
		ExpiresIn: int64(h.tokens.TokenDuration().Seconds()),
		User:      dto.UserFromDomain(user),
	})
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.userUC.GetUser(r.Context(), actorFrom(r).ID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, dto.UserFromDomain(user))
}

// Register adds a user.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.userUC.Register(r.Context(), req.ToUseCaseInput(actorFrom(r).ID))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeData(w, http.StatusCreated, dto.UserFromDomain(user))
}

// ChangePassword replaces the caller's password.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ChangePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.userUC.ChangePassword(r.Context(), actorFrom(r).ID, req.CurrentPassword, req.NewPassword); err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.Envelope{Success: true, Message: "Password updated successfully"})
}

// Users lists users.
func (h *AuthHandler) Users(w http.ResponseWriter, r *http.Request) {
	users, err := h.userUC.ListUsers(r.Context(), parseIntQuery(r, "limit", 50), parseIntQuery(r, "offset", 0))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, dto.UsersFromDomain(users))
}
