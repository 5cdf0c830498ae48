package sandbox

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/internal/models"
)

type authHandler struct {
	s *Sandbox
}

// Login checks the password hash and issues an HS256 token carrying the admin id.
func (h *authHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, rejectf(http.StatusBadRequest, "Invalid JSON body"))
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		writeError(w, r, invalidFields(map[string]string{"email": "field required", "password": "field required"}))
		return
	}

	cred, err := h.s.creds.GetByEmail(r.Context(), req.Email)
	if err != nil {
		writeError(w, r, rejectf(http.StatusUnauthorized, "Invalid email or password"))
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(req.Password)); err != nil {
		writeError(w, r, rejectf(http.StatusUnauthorized, "Invalid email or password"))
		return
	}
	rec, err := h.s.records.Get(r.Context(), "admins", cred.AdminID)
	if err != nil {
		writeError(w, r, rejectf(http.StatusUnauthorized, "Invalid email or password"))
		return
	}
	if !rec.Active {
		writeError(w, r, rejectf(http.StatusForbidden, "Admin account is inactive"))
		return
	}
	var admin models.Admin
	if err := json.Unmarshal(rec.Body, &admin); err != nil {
		writeError(w, r, err)
		return
	}

	now := h.s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   admin.ID,
		"email": admin.Email,
		"role":  string(admin.Role),
		"iat":   now.Unix(),
		"exp":   now.Add(h.s.opts.TokenTTL).Unix(),
	})
	tokenString, err := token.SignedString(h.s.opts.JWTSecret)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.s.log.Info("admin logged in", zap.String("admin_id", admin.ID))
	writeJSON(w, http.StatusOK, models.LoginResult{AccessToken: tokenString, TokenType: "bearer", Admin: &admin})
}
