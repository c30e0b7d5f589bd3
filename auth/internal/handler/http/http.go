package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// SecretProvider supplies the HMAC signing secret.
type SecretProvider func() []byte

// Handler defines the auth service HTTP handler.
type Handler struct {
	secretProvider SecretProvider
	logger         *zap.Logger
}

// New creates a new auth service HTTP handler.
func New(secretProvider SecretProvider, logger *zap.Logger) *Handler {
	return &Handler{secretProvider: secretProvider, logger: logger}
}

type tokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// HandleToken serves POST /api/token, exchanging credentials for a signed
// bearer token.
func (h *Handler) HandleToken(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var body tokenRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if !validCredentials(body.Username, body.Password) {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": body.Username,
		"iat": time.Now().Unix(),
	})
	tokenString, err := token.SignedString(h.secretProvider())
	if err != nil {
		h.logger.Error("Failed to sign token", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"token": tokenString})
}

func validCredentials(username string, password string) bool {
	if username == "" || password == "" {
		return false
	}

	return true
}

// HandleIdentity serves GET /api/identity, resolving a bearer token to the
// stable subject id it was issued for.
func (h *Handler) HandleIdentity(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	tokenString := strings.TrimPrefix(req.Header.Get("Authorization"), "Bearer ")
	token, err := jwt.Parse(
		tokenString,
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return h.secretProvider(), nil
		},
	)
	if err != nil || !token.Valid {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	var subject string
	if v, ok := claims["sub"]; ok {
		if s, ok := v.(string); ok {
			subject = s
		}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"userId": subject})
}
