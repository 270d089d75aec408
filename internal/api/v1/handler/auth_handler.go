package handler

import (
	"encoding/json"
	"net/http"

	"app/internal/api/v1/dto"
	"app/internal/middleware"
	"app/internal/service"

	"github.com/go-playground/validator/v10"
)

// AuthHandler handles registration, login and account endpoints
type AuthHandler struct {
	authService service.AuthService
	userService service.UserService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService service.AuthService, userService service.UserService, validate *validator.Validate) *AuthHandler {
	return &AuthHandler{authService: authService, userService: userService, validate: validate}
}

// RegisterRoutes mounts public auth routes and the authenticated /me routes
func (h *AuthHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.HandleFunc("/auth/register", h.register)
	mux.HandleFunc("/auth/login", h.login)
	mux.HandleFunc("/auth/forgot-password", h.forgotPassword)
	mux.HandleFunc("/auth/reset-password", h.resetPassword)
	mux.Handle("/me", authMw(http.HandlerFunc(h.handleMe)))
	mux.Handle("/me/password", authMw(http.HandlerFunc(h.changePassword)))
}

// register godoc
// @Summary Register a new student account
// @Description Creates a free-plan student account and returns a signed token.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterDTO true "Registration request"
// @Success 201 {object} dto.AuthResponseDTO
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 409 {string} string "Email already registered"
// @Failure 500 {string} string "Failed to register"
// @Router /auth/register [post]
func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req dto.RegisterDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	p, tok, err := h.authService.Register(r.Context(), req.Name, req.Email, req.Password, req.Grade)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.AuthResponseDTO{Token: tok, User: toProfileDTO(p)})
}

// login godoc
// @Summary Log in
// @Description Verifies the credentials and returns a signed token.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginDTO true "Login request"
// @Success 200 {object} dto.AuthResponseDTO
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 401 {string} string "Invalid email or password"
// @Failure 500 {string} string "Failed to log in"
// @Router /auth/login [post]
func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req dto.LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	p, tok, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.AuthResponseDTO{Token: tok, User: toProfileDTO(p)})
}

// forgotPassword godoc
// @Summary Start the password reset flow
// @Description Issues a reset token for the account. Responds 204 whether or not the email exists.
// @Tags auth
// @Accept json
// @Param request body dto.ForgotPasswordDTO true "Forgot password request"
// @Success 204 {string} string "No Content"
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 500 {string} string "Failed to start reset"
// @Router /auth/forgot-password [post]
func (h *AuthHandler) forgotPassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req dto.ForgotPasswordDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	// The token is delivered out of band; the response never reveals
	// whether the account exists.
	if _, _, err := h.authService.RequestPasswordReset(r.Context(), req.Email); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// resetPassword godoc
// @Summary Complete the password reset flow
// @Description Verifies the reset token and stores the new password.
// @Tags auth
// @Accept json
// @Param request body dto.ResetPasswordDTO true "Reset password request"
// @Success 204 {string} string "No Content"
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 401 {string} string "Invalid or expired reset token"
// @Router /auth/reset-password [post]
func (h *AuthHandler) resetPassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req dto.ResetPasswordDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.authService.ResetPassword(r.Context(), req.UID, req.Token, req.NewPassword); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) handleMe(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.getMe(w, r)
	case http.MethodPut:
		h.updateMe(w, r)
	default:
		http.NotFound(w, r)
	}
}

// getMe godoc
// @Summary Get the current profile
// @Tags auth
// @Produce json
// @Success 200 {object} dto.ProfileDTO
// @Failure 401 {string} string "Unauthorized"
// @Router /me [get]
// @Security BearerAuth
func (h *AuthHandler) getMe(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	profile, err := h.authService.GetProfile(r.Context(), p.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProfileDTO(profile))
}

// updateMe godoc
// @Summary Update the current profile
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.ProfileUpdateDTO true "Profile update request"
// @Success 200 {object} dto.ProfileDTO
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 401 {string} string "Unauthorized"
// @Router /me [put]
// @Security BearerAuth
func (h *AuthHandler) updateMe(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	var req dto.ProfileUpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	name := p.Name
	if req.Name != nil {
		name = *req.Name
	}
	grade := p.Grade
	if req.Grade != nil {
		grade = req.Grade
	}
	updated, err := h.userService.UpdateProfile(r.Context(), p.ID, name, grade)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProfileDTO(updated))
}

// changePassword godoc
// @Summary Change the current password
// @Tags auth
// @Accept json
// @Param request body dto.ChangePasswordDTO true "Change password request"
// @Success 204 {string} string "No Content"
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 401 {string} string "Current password is wrong"
// @Router /me/password [post]
// @Security BearerAuth
func (h *AuthHandler) changePassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	var req dto.ChangePasswordDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.authService.ChangePassword(r.Context(), p.ID, req.CurrentPassword, req.NewPassword); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
