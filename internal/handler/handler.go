// Package handler exposes the accounts service over HTTP.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/tripmate/accounts-api/internal/repository"
	"github.com/tripmate/accounts-api/internal/usecase"
	"github.com/tripmate/accounts-api/internal/validation"
)

// Handler holds the HTTP handlers of the accounts API.
type Handler struct {
	accounts  usecase.AccountUsecase
	resets    usecase.PasswordResetUsecase
	validator *validation.Validator
	logger    *zerolog.Logger
}

// New creates a new Handler.
func New(
	accounts usecase.AccountUsecase,
	resets usecase.PasswordResetUsecase,
	validator *validation.Validator,
	logger *zerolog.Logger,
) *Handler {
	return &Handler{
		accounts:  accounts,
		resets:    resets,
		validator: validator,
		logger:    logger,
	}
}

// Routes builds the API router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	r.Post("/reset-password-request", h.RequestPasswordReset)
	r.Post("/reset-password/{uid}/{token}", h.ConfirmPasswordReset)

	r.Group(func(r chi.Router) {
		r.Use(h.requireAuth)
		r.Post("/logout", h.Logout)
		r.Put("/change-password", h.ChangePassword)
		r.Get("/profile", h.GetProfile)
		r.Put("/profile", h.UpdateProfile)
	})

	return r
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode response")
	}
}

// respondError maps domain errors to their HTTP representations. Anything
// unmapped is an infrastructure failure and becomes a logged 500.
func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrDuplicateUsername):
		h.respondJSON(w, http.StatusBadRequest, map[string][]string{
			"username": {"A user with that username already exists."},
		})
	case errors.Is(err, repository.ErrDuplicateEmail):
		h.respondJSON(w, http.StatusBadRequest, map[string][]string{
			"email": {"A user with that email already exists."},
		})
	case errors.Is(err, usecase.ErrMissingCredentials):
		h.respondJSON(w, http.StatusBadRequest, map[string]string{
			"error": "Please provide both username and password",
		})
	case errors.Is(err, usecase.ErrInvalidCredentials):
		h.respondJSON(w, http.StatusUnauthorized, map[string]string{
			"error": "Invalid Credentials",
		})
	case errors.Is(err, usecase.ErrWrongPassword):
		h.respondJSON(w, http.StatusBadRequest, map[string][]string{
			"old_password": {"Wrong password."},
		})
	case errors.Is(err, usecase.ErrInvalidResetToken):
		h.respondJSON(w, http.StatusBadRequest, map[string]string{
			"error": "Invalid or expired reset token",
		})
	default:
		h.logger.Error().Err(err).Msg("internal error")
		h.respondJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "something went wrong",
		})
	}
}

func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{
			"error": "invalid request body",
		})
		return false
	}
	return true
}

// validate runs payload validation and writes the field-error response
// itself. It reports whether the payload passed.
func (h *Handler) validate(w http.ResponseWriter, v any) bool {
	if fieldErrors := h.validator.Validate(v); fieldErrors != nil {
		h.respondJSON(w, http.StatusBadRequest, fieldErrors)
		return false
	}
	return true
}
