package handler

import (
	"net/http"

	"github.com/tripmate/accounts-api/internal/payload"
	"github.com/tripmate/accounts-api/internal/usecase"
)

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req payload.RegisterRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	if !h.validate(w, req) {
		return
	}

	user, token, err := h.accounts.Register(r.Context(), usecase.RegisterParams{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, payload.AuthResponse{
		User:  payload.NewUserResponse(user),
		Token: token,
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req payload.LoginRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	user, token, err := h.accounts.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, payload.AuthResponse{
		User:  payload.NewUserResponse(user),
		Token: token,
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	if err := h.accounts.Logout(r.Context(), user); err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, payload.MessageResponse{
		Message: "Successfully logged out",
	})
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var req payload.ChangePasswordRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	if !h.validate(w, req) {
		return
	}

	if err := h.accounts.ChangePassword(r.Context(), user, req.OldPassword, req.NewPassword); err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, payload.MessageResponse{
		Message: "Password updated successfully",
	})
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	h.respondJSON(w, http.StatusOK, payload.NewUserResponse(user))
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var req payload.UpdateProfileRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	if !h.validate(w, req) {
		return
	}

	updated, err := h.accounts.UpdateProfile(r.Context(), user, usecase.UpdateProfileParams{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, payload.NewUserResponse(updated))
}
