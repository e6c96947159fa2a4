package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tripmate/accounts-api/internal/payload"
)

func (h *Handler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req payload.ResetPasswordRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	if !h.validate(w, req) {
		return
	}

	if err := h.resets.RequestPasswordReset(r.Context(), req.Email); err != nil {
		h.respondError(w, err)
		return
	}

	// The response is the same whether or not the email matched a user.
	h.respondJSON(w, http.StatusOK, payload.MessageResponse{
		Message: "Password reset email has been sent.",
	})
}

func (h *Handler) ConfirmPasswordReset(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "uid")
	token := chi.URLParam(r, "token")

	var req payload.ConfirmResetPasswordRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	if !h.validate(w, req) {
		return
	}

	if err := h.resets.ConfirmPasswordReset(r.Context(), uid, token, req.NewPassword); err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, payload.MessageResponse{
		Message: "Password has been reset successfully",
	})
}
