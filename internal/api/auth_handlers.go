package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/example/order-catalog/internal/api/middleware"
	"github.com/example/order-catalog/internal/auth"
	"github.com/example/order-catalog/internal/domain/customer"
)

// AuthHandlers handles registration and login for customer accounts.
type AuthHandlers struct {
	customers  *customer.Service
	jwtService *auth.JWTService
}

func NewAuthHandlers(customers *customer.Service, jwtService *auth.JWTService) *AuthHandlers {
	return &AuthHandlers{customers: customers, jwtService: jwtService}
}

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse represents the authentication response
type AuthResponse struct {
	Customer    CustomerResponse `json:"customer"`
	AccessToken string           `json:"access_token"`
	Message     string           `json:"message,omitempty"`
}

// CustomerResponse represents customer data in responses
type CustomerResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Register handles customer registration
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	c, err := h.customers.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		switch err {
		case auth.ErrPasswordTooShort, customer.ErrInvalidEmail, customer.ErrInvalidName:
			respondJSONError(w, err.Error(), http.StatusBadRequest)
		case customer.ErrEmailTaken:
			respondJSONError(w, err.Error(), http.StatusConflict)
		default:
			respondJSONError(w, "registration failed", http.StatusInternalServerError)
		}
		return
	}

	token := h.issueTokens(w, c)
	respondJSON(w, http.StatusCreated, AuthResponse{
		Customer:    toCustomerResponse(c),
		AccessToken: token,
		Message:     "registration successful",
	})
}

// Login handles customer login
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	c, err := h.customers.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if err == customer.ErrInvalidCredentials {
			respondJSONError(w, err.Error(), http.StatusUnauthorized)
			return
		}
		respondJSONError(w, "login failed", http.StatusInternalServerError)
		return
	}

	token := h.issueTokens(w, c)
	respondJSON(w, http.StatusOK, AuthResponse{
		Customer:    toCustomerResponse(c),
		AccessToken: token,
	})
}

// Me returns the authenticated customer's profile
func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetCustomerFromContext(r.Context())
	if !ok {
		respondJSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	c, err := h.customers.Get(r.Context(), claims.CustomerID)
	if err != nil {
		respondJSONError(w, "failed to load profile", http.StatusInternalServerError)
		return
	}
	if c == nil {
		respondJSONError(w, "customer not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, toCustomerResponse(c))
}

// issueTokens generates access and refresh tokens and sets them as
// cookies; the access token is also returned for API clients.
func (h *AuthHandlers) issueTokens(w http.ResponseWriter, c *customer.Customer) string {
	accessToken, accessExpiry, err := h.jwtService.GenerateAccessToken(c.ID, c.Email, c.Role)
	if err != nil {
		return ""
	}
	refreshToken, refreshExpiry, err := h.jwtService.GenerateRefreshToken(c.ID)
	if err != nil {
		return accessToken
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    accessToken,
		Path:     "/",
		Expires:  accessExpiry,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     "refresh_token",
		Value:    refreshToken,
		Path:     "/auth",
		Expires:  refreshExpiry,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return accessToken
}

func toCustomerResponse(c *customer.Customer) CustomerResponse {
	return CustomerResponse{
		ID:        c.ID,
		Email:     c.Email,
		Name:      c.Name,
		Role:      c.Role,
		CreatedAt: c.CreatedAt,
	}
}
