package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"campus-complaints-api/internal/auth"
)

type loginRequest struct {
	ComputerNumber string `json:"computer_number"`
	Password       string `json:"password"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var body loginRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if body.ComputerNumber == "" || body.Password == "" {
		respondError(w, http.StatusBadRequest, "Computer number and password are required")
		return
	}

	u, err := h.store.UserByComputerNumber(r.Context(), body.ComputerNumber)
	if err != nil || !auth.CheckPassword(u.PasswordHash, body.Password) {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	tok, err := auth.MakeToken(u.ComputerNumber, u.Role, h.authCfg.JWTSecret, h.authCfg.AccessTokenTTL)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	rawRefresh, tokenHash, err := auth.GenerateRefreshToken()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	expiry := time.Now().Add(h.authCfg.RefreshTokenTTL)
	if _, err := h.store.CreateRefreshToken(r.Context(), u.ComputerNumber, tokenHash, expiry); err != nil {
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.setAuthCookies(w, tok, rawRefresh, expiry)
	respondData(w, http.StatusOK, map[string]any{
		"token": tok,
		"user": map[string]any{
			"computer_number": u.ComputerNumber,
			"first_name":      u.FirstName,
			"last_name":       u.LastName,
			"email":           u.Email,
			"role":            u.Role,
		},
	})
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie("refresh_token")
	if err != nil || c.Value == "" {
		respondError(w, http.StatusUnauthorized, "No refresh token")
		return
	}

	rt, err := h.store.GetRefreshTokenByHash(r.Context(), auth.HashRefreshToken(c.Value))
	if err != nil || rt.Revoked || time.Now().After(rt.ExpiresAt) {
		respondError(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	}

	u, err := h.store.UserByComputerNumber(r.Context(), rt.ComputerNumber)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	}

	newRaw, newHash, err := auth.GenerateRefreshToken()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	newID := uuid.New().String()
	expiry := time.Now().Add(h.authCfg.RefreshTokenTTL)
	if err := h.store.RotateRefreshToken(r.Context(), rt.ID, newID, u.ComputerNumber, newHash, expiry); err != nil {
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	tok, err := auth.MakeToken(u.ComputerNumber, u.Role, h.authCfg.JWTSecret, h.authCfg.AccessTokenTTL)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.setAuthCookies(w, tok, newRaw, expiry)
	respondData(w, http.StatusOK, map[string]any{"token": tok})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie("refresh_token"); err == nil && c.Value != "" {
		if rt, err := h.store.GetRefreshTokenByHash(r.Context(), auth.HashRefreshToken(c.Value)); err == nil {
			_ = h.store.RevokeAllRefreshTokens(r.Context(), rt.ComputerNumber)
		}
	}
	h.clearAuthCookies(w)
	respondMessage(w, http.StatusOK, "Logged out")
}

func (h *Handler) setAuthCookies(w http.ResponseWriter, accessToken, refreshToken string, refreshExpiry time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name: "access_token", Value: accessToken,
		HttpOnly: true, Path: "/", SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name: "refresh_token", Value: refreshToken,
		HttpOnly: true, Path: "/auth/", Expires: refreshExpiry, SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearAuthCookies(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: "access_token", Value: "", Path: "/", MaxAge: -1})
	http.SetCookie(w, &http.Cookie{Name: "refresh_token", Value: "", Path: "/auth/", MaxAge: -1})
}
