package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/rskdev/pettycash-be/internal/auth"
	"github.com/rskdev/pettycash-be/internal/services"
)

// UserHandler handles HTTP requests for account lifecycle and profile flows.
type UserHandler struct {
	service services.UserServiceProvider
	tokens  *auth.TokenManager
	secure  bool // set the Secure flag on the session cookie
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider, tokens *auth.TokenManager, secure bool) *UserHandler {
	return &UserHandler{service: service, tokens: tokens, secure: secure}
}

// SignupPayload defines the structure for registration requests.
type SignupPayload struct {
	Name     string `json:"name" validate:"required"`
	Mobile   string `json:"mobile" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Avatar   string `json:"avatar"`
}

// Signup handles new user registration. The verification OTP is emailed and
// never echoed in the response.
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var payload SignupPayload
	if !decodeAndValidate(w, r, &payload) {
		return
	}

	user, err := h.service.Signup(payload.Name, payload.Mobile, payload.Email, payload.Password, payload.Avatar)
	if err != nil {
		if errors.Is(err, services.ErrConflict) {
			http.Error(w, "User with this email already exists", http.StatusConflict)
			return
		}
		log.Error().Err(err).Str("email", payload.Email).Msg("Failed to register user")
		http.Error(w, "Failed to register user", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"message": "User registered successfully. Please verify your email.",
		"userId":  user.ID,
	})
}

// VerifyEmailPayload defines the structure for email verification requests.
type VerifyEmailPayload struct {
	Token string `json:"token" validate:"required"`
}

// VerifyEmail handles email verification with the signup OTP.
func (h *UserHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var payload VerifyEmailPayload
	if !decodeAndValidate(w, r, &payload) {
		return
	}

	if err := h.service.VerifyEmail(payload.Token); err != nil {
		if errors.Is(err, services.ErrInvalidToken) {
			http.Error(w, "Invalid or expired verification token", http.StatusBadRequest)
			return
		}
		log.Error().Err(err).Msg("Failed to verify email")
		http.Error(w, "Failed to verify email", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Email verification successful"})
}

// AuthPayload defines the structure for login requests.
type AuthPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login handles user authentication and session token generation.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload AuthPayload
	if !decodeAndValidate(w, r, &payload) {
		return
	}

	user, err := h.service.Authenticate(payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, services.ErrUnauthorized) {
			log.Warn().Err(err).Str("email", payload.Email).Msg("Failed authentication attempt")
			http.Error(w, "Authentication failed", http.StatusUnauthorized)
			return
		}
		log.Error().Err(err).Str("email", payload.Email).Msg("Login lookup failed")
		http.Error(w, "Authentication failed", http.StatusInternalServerError)
		return
	}

	token, err := h.tokens.Generate(user)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to generate session token")
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	if err := h.service.StoreSessionToken(user.ID, token); err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to store session token")
		http.Error(w, "Failed to store token", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    token,
		Expires:  time.Now().Add(24 * time.Hour),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	})

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token":  token,
		"userId": user.ID,
		"name":   user.Name,
		"avatar": user.AvatarID,
	})
}

// PasswordResetPayload defines the structure for reset-link requests.
type PasswordResetPayload struct {
	Email string `json:"email" validate:"required,email"`
}

// SendPasswordReset handles the request for a password-reset OTP. The OTP is
// emailed and never echoed in the response.
func (h *UserHandler) SendPasswordReset(w http.ResponseWriter, r *http.Request) {
	var payload PasswordResetPayload
	if !decodeAndValidate(w, r, &payload) {
		return
	}

	if err := h.service.SendPasswordReset(payload.Email); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		log.Error().Err(err).Str("email", payload.Email).Msg("Failed to send password reset")
		http.Error(w, "Failed to send password reset", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Password reset OTP sent to your email"})
}

// SetPasswordPayload defines the structure for reset-confirmation requests.
type SetPasswordPayload struct {
	OTP         string `json:"otp" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

// SetNewPassword handles the password-reset confirmation.
func (h *UserHandler) SetNewPassword(w http.ResponseWriter, r *http.Request) {
	var payload SetPasswordPayload
	if !decodeAndValidate(w, r, &payload) {
		return
	}

	if err := h.service.SetNewPassword(payload.OTP, payload.NewPassword); err != nil {
		if errors.Is(err, services.ErrInvalidToken) {
			http.Error(w, "Invalid or expired reset token", http.StatusBadRequest)
			return
		}
		log.Error().Err(err).Msg("Failed to set new password")
		http.Error(w, "Failed to set new password", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Password reset successful"})
}

// GetMe retrieves the currently authenticated user from the token.
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		log.Error().Msg("Could not retrieve user claims from context")
		http.Error(w, "Could not retrieve user from token", http.StatusInternalServerError)
		return
	}

	user, err := h.service.GetUserByID(claims.UserID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		log.Error().Err(err).Str("user_id", claims.UserID).Msg("Failed to get user")
		http.Error(w, "Failed to get user", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// ProfileUpdatePayload defines the proposed profile changes. The same shape
// is used to request the OTP and, with the OTP attached, to apply the edit.
type ProfileUpdatePayload struct {
	Name   string `json:"name" validate:"required"`
	Mobile string `json:"mobile" validate:"required"`
	Avatar string `json:"avatar"`
	Email  string `json:"email" validate:"required,email"`
	OTP    string `json:"otp"`
}

func (p ProfileUpdatePayload) toUpdate() services.ProfileUpdate {
	return services.ProfileUpdate{
		Name:     p.Name,
		Mobile:   p.Mobile,
		AvatarID: p.Avatar,
		Email:    p.Email,
	}
}

// SendProfileOTP handles the request for a profile-edit confirmation OTP.
func (h *UserHandler) SendProfileOTP(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Could not retrieve user from token", http.StatusInternalServerError)
		return
	}

	var payload ProfileUpdatePayload
	if !decodeAndValidate(w, r, &payload) {
		return
	}

	if err := h.service.SendProfileUpdateOTP(claims.UserID, payload.toUpdate()); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			http.Error(w, "Invalid user", http.StatusBadRequest)
			return
		}
		log.Error().Err(err).Str("user_id", claims.UserID).Msg("Failed to send profile update OTP")
		http.Error(w, "Failed to send profile update OTP", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Profile update OTP sent"})
}

// EditMe applies a profile edit after validating the OTP.
func (h *UserHandler) EditMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Could not retrieve user from token", http.StatusInternalServerError)
		return
	}

	var payload ProfileUpdatePayload
	if !decodeAndValidate(w, r, &payload) {
		return
	}
	if payload.OTP == "" {
		http.Error(w, "OTP is required", http.StatusBadRequest)
		return
	}

	user, err := h.service.EditUser(claims.UserID, payload.toUpdate(), payload.OTP)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			http.Error(w, "Invalid user", http.StatusBadRequest)
		case errors.Is(err, services.ErrInvalidToken):
			http.Error(w, "Invalid OTP", http.StatusBadRequest)
		default:
			log.Error().Err(err).Str("user_id", claims.UserID).Msg("Failed to edit user")
			http.Error(w, "Failed to edit user", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, user)
}
