package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/muhammadegaa/easyhome/internal/adapter/httpapi/middleware"
	"github.com/muhammadegaa/easyhome/internal/domain"
	"github.com/muhammadegaa/easyhome/internal/usecase"
)

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, fmt.Errorf("%w: malformed JSON body", domain.ErrInvalidInput))
		return
	}

	user, token, err := h.auth.Register(r.Context(), usecase.RegisterInput{
		Email:       req.Email,
		Password:    req.Password,
		Name:        req.Name,
		Phone:       req.Phone,
		Role:        req.Role,
		CompanyName: req.CompanyName,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.metrics.UsersRegisteredTotal.Inc()
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Registration successful. Please check your email to verify your account.",
		"user":    toUserResponse(user),
		"token":   token,
	})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, fmt.Errorf("%w: malformed JSON body", domain.ErrInvalidInput))
		return
	}

	user, token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user":  toUserResponse(user),
		"token": token,
	})
}

func (h *Handler) handleVerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if err := h.auth.VerifyEmail(r.Context(), token); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Email verified successfully"})
}

func (h *Handler) handleResendVerification(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.ActorFromContext(r.Context())
	if err := h.auth.ResendVerification(r.Context(), userID); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Verification email sent"})
}

func (h *Handler) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.ActorFromContext(r.Context())
	user, err := h.auth.GetProfile(r.Context(), userID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"user": toUserResponse(user)})
}

func (h *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.ActorFromContext(r.Context())

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, fmt.Errorf("%w: malformed JSON body", domain.ErrInvalidInput))
		return
	}

	user, err := h.auth.UpdateProfile(r.Context(), userID, usecase.UpdateProfileInput{
		Name:        req.Name,
		Phone:       req.Phone,
		Address:     req.Address,
		City:        req.City,
		Province:    req.Province,
		ZipCode:     req.ZipCode,
		CompanyName: req.CompanyName,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"user": toUserResponse(user)})
}
