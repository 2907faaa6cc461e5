package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/tasknest/tasknest-api/internal/api/shared"
	"github.com/tasknest/tasknest-api/internal/domain"
	"github.com/tasknest/tasknest-api/internal/platform/logger"
	"github.com/tasknest/tasknest-api/internal/redact"
	"github.com/tasknest/tasknest-api/internal/service/auth"
	"github.com/tasknest/tasknest-api/internal/store"
)

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	userStore        store.UserStore
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	logger           *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	userStore store.UserStore,
	jwtService auth.JWTService,
	passwordVerifier auth.PasswordVerifier,
	logger *slog.Logger,
) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &AuthHandler{
		userStore:        userStore,
		jwtService:       jwtService,
		passwordVerifier: passwordVerifier,
		logger:           logger.With(slog.String("component", "auth_handler")),
	}
}

// Register handles POST /auth/register requests.
// It creates the user with a hashed password and returns a token pair, so
// a fresh registration can call the API immediately.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req RegisterRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	user, err := domain.NewUser(req.Email, req.Password)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, GetSafeErrorMessage(err))
		return
	}

	hashed, err := auth.HashPassword(user.Password)
	if err != nil {
		log.Error("failed to hash password", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to create user")
		return
	}
	user.HashedPassword = hashed
	user.Password = ""

	if err := h.userStore.Create(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			shared.RespondWithError(w, r, http.StatusConflict, "Email already exists")
			return
		}
		log.Error("failed to create user",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", user.ID.String()))
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to create user")
		return
	}

	accessToken, refreshToken, ok := h.generateTokenPair(w, r, user.ID)
	if !ok {
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, AuthResponse{
		UserID:       user.ID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}

// Login handles POST /auth/login requests.
// An unknown email and a wrong password produce the same 401, so neither
// confirms whether an account exists.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req LoginRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	user, err := h.userStore.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if store.IsNotFoundError(err) {
			// Same response as a wrong password so the endpoint never
			// confirms whether an account exists.
			shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized,
				"Invalid credentials", err, shared.WithElevatedLogLevel())
			return
		}
		log.Error("failed to get user by email", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to authenticate user")
		return
	}

	if err := h.passwordVerifier.Compare(user.HashedPassword, req.Password); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized,
			"Invalid credentials", err, shared.WithElevatedLogLevel())
		return
	}

	accessToken, refreshToken, ok := h.generateTokenPair(w, r, user.ID)
	if !ok {
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		UserID:       user.ID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}

// RefreshToken handles POST /auth/refresh requests.
// A valid refresh token is exchanged for a fresh token pair.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req RefreshTokenRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	claims, err := h.jwtService.ValidateRefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		HandleAPIError(w, r, err, "Invalid refresh token")
		return
	}

	accessToken, refreshToken, ok := h.generateTokenPair(w, r, claims.UserID)
	if !ok {
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, RefreshTokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}

// generateTokenPair issues an access and refresh token for the subject,
// writing a 500 response on failure. The boolean reports success.
func (h *AuthHandler) generateTokenPair(
	w http.ResponseWriter,
	r *http.Request,
	userID uuid.UUID,
) (string, string, bool) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	accessToken, err := h.jwtService.GenerateToken(r.Context(), userID)
	if err != nil {
		log.Error("failed to generate token",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", userID.String()))
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to generate authentication token")
		return "", "", false
	}

	refreshToken, err := h.jwtService.GenerateRefreshToken(r.Context(), userID)
	if err != nil {
		log.Error("failed to generate refresh token",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", userID.String()))
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to generate authentication token")
		return "", "", false
	}

	return accessToken, refreshToken, true
}
