package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/NeGaTiVe369/DocLearn-sub000/pkg/models"
	"github.com/NeGaTiVe369/DocLearn-sub000/pkg/repository"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type AuthHandler struct {
	accountRepo   repository.AccountRepo
	profileRepo   repository.ProfileRepo
	jwtSecret     string
	tokenDuration time.Duration
}

// NewAuthHandler creates a new AuthHandler with required dependencies.
func NewAuthHandler(ar repository.AccountRepo, pr repository.ProfileRepo, jwtSecret string, tokenDuration time.Duration) *AuthHandler {
	return &AuthHandler{accountRepo: ar, profileRepo: pr, jwtSecret: jwtSecret, tokenDuration: tokenDuration}
}

type signupRequest struct {
	Email     string      `json:"email"`
	Password  string      `json:"password"`
	FirstName string      `json:"firstName"`
	LastName  string      `json:"lastName"`
	Role      models.Role `json:"role"`
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string `json:"token"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, "missing fields", http.StatusBadRequest)
		return
	}
	if req.Role == "" {
		req.Role = models.RoleStudent
	}
	if !req.Role.Known() {
		writeError(w, "unknown role", http.StatusBadRequest)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, "error hashing password", http.StatusInternalServerError)
		return
	}

	ctx := r.Context()

	account := models.Account{
		Email:        req.Email,
		PasswordHash: string(hash),
	}

	accountID, err := h.accountRepo.CreateAccount(ctx, &account)
	if err != nil {
		writeError(w, "error creating account", http.StatusInternalServerError)
		return
	}

	// Create the initial profile row linked to the new account id
	profile := models.SpecialistUser{
		ID:        accountID,
		Email:     req.Email,
		Role:      req.Role,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}
	if err := h.profileRepo.CreateProfile(ctx, &profile); err != nil {
		writeError(w, "error creating profile", http.StatusInternalServerError)
		return
	}

	tokenStr, err := h.issueToken(accountID, false)
	if err != nil {
		writeError(w, "error signing token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, authResponse{Token: tokenStr}, http.StatusOK)
}

func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, "missing fields", http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	account, err := h.accountRepo.GetByEmail(ctx, req.Email)
	if err != nil || account == nil {
		writeError(w, "credentials not found", http.StatusUnauthorized)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)) != nil {
		writeError(w, "credentials not found", http.StatusUnauthorized)
		return
	}

	tokenStr, err := h.issueToken(account.ID, account.IsAdmin)
	if err != nil {
		writeError(w, "error signing token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, authResponse{Token: tokenStr}, http.StatusOK)
}

func (h *AuthHandler) Signout(w http.ResponseWriter, r *http.Request) {
	// For stateless JWT, signout is client-side (just delete token)
	writeJSON(w, map[string]string{"message": "signed out"}, http.StatusOK)
}

func (h *AuthHandler) issueToken(accountID int64, isAdmin bool) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"account_id": accountID,
		"is_admin":   isAdmin,
		"exp":        time.Now().Add(h.tokenDuration).Unix(),
	})
	return token.SignedString([]byte(h.jwtSecret))
}
