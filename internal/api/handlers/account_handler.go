package handlers

import (
	"net/http"
	"time"

	"github.com/isdelr/habit-tracker-be/internal/auth"
	"github.com/isdelr/habit-tracker-be/internal/models"
	"github.com/isdelr/habit-tracker-be/internal/services"
	"github.com/rs/zerolog/log"
)

// TokenIssuer issues session tokens on login.
type TokenIssuer interface {
	GenerateToken(user models.User) (string, error)
}

// AccountHandler handles sign-up, login and email checks.
type AccountHandler struct {
	service services.UserServiceProvider
	tokens  TokenIssuer
	secure  bool
}

// NewAccountHandler creates a new AccountHandler. tokens may be nil, in which
// case login only returns the account.
func NewAccountHandler(service services.UserServiceProvider, tokens TokenIssuer, secureCookies bool) *AccountHandler {
	return &AccountHandler{service: service, tokens: tokens, secure: secureCookies}
}

// AuthPayload defines the structure for sign-up and login requests.
type AuthPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	Message string      `json:"message"`
	User    AccountView `json:"user"`
	Token   string      `json:"token,omitempty"`
}

// AccountView is the public part of an account.
type AccountView struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// CheckEmail handles GET /api/check-email?email=.
func (h *AccountHandler) CheckEmail(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		writeError(w, http.StatusBadRequest, "Email is required")
		return
	}

	exists, err := h.service.EmailExists(r.Context(), email)
	if err != nil {
		writeServiceError(w, r, err, errorMessages{})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"exists": exists})
}

// Signup handles new account registration.
func (h *AccountHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var payload AuthPayload
	if err := decodeJSON(r, &payload); err != nil || payload.Email == "" || payload.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	id, err := h.service.CreateAccount(r.Context(), payload.Email, payload.Password)
	if err != nil {
		writeServiceError(w, r, err, errorMessages{
			invalidInput: "Email and password are required",
			conflict:     "An account with this email already exists",
			storage:      "Error creating account",
		})
		return
	}

	log.Info().Int64("user_id", id).Msg("Account created")
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Account created successfully",
		"userId":  id,
	})
}

// Login verifies credentials and, when a token issuer is configured, returns
// a session token and sets it as a cookie.
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload AuthPayload
	if err := decodeJSON(r, &payload); err != nil || payload.Email == "" || payload.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := h.service.VerifyCredentials(r.Context(), payload.Email, payload.Password)
	if err != nil {
		log.Warn().Err(err).Str("email", payload.Email).Msg("Failed authentication attempt")
		writeServiceError(w, r, err, errorMessages{
			notFound:          "No account found with this email. Please sign up.",
			invalidCredential: "Invalid password",
			storage:           "Error verifying password",
		})
		return
	}

	resp := LoginResponse{
		Message: "Login successful",
		User:    AccountView{ID: user.ID, Email: user.Email},
	}

	if h.tokens != nil {
		token, err := h.tokens.GenerateToken(user)
		if err != nil {
			log.Error().Err(err).Int64("user_id", user.ID).Msg("Failed to generate JWT")
			writeError(w, http.StatusInternalServerError, "Failed to generate token")
			return
		}
		http.SetCookie(w, &http.Cookie{
			Name:     auth.TokenCookieName,
			Value:    token,
			Expires:  time.Now().Add(24 * time.Hour),
			HttpOnly: true,
			Secure:   h.secure,
			SameSite: http.SameSiteStrictMode,
			Path:     "/",
		})
		resp.Token = token
	}

	writeJSON(w, http.StatusOK, resp)
}
