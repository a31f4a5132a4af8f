package handlers

import (
	"encoding/base64"
	"log/slog"
	"net/http"
	"time"

	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"devfolio/internal/middleware"
	"devfolio/internal/session"
	"devfolio/internal/store"
)

// Auth handles admin login, logout, session introspection, and TOTP
// two-factor enrollment.
type Auth struct {
	sessions *session.Store
	users    *store.UserStore
}

// NewAuth creates the auth handler group.
func NewAuth(sessions *session.Store, users *store.UserStore) *Auth {
	return &Auth{sessions: sessions, users: users}
}

// sessionInfo is the session payload the admin SPA consumes.
type sessionInfo struct {
	UserID           string    `json:"userId"`
	Email            string    `json:"email"`
	DisplayName      string    `json:"displayName"`
	TwoFactorPending bool      `json:"twoFactorPending"`
	CreatedAt        time.Time `json:"createdAt"`
}

func infoFromData(data *session.Data) sessionInfo {
	return sessionInfo{
		UserID:           data.UserID.String(),
		Email:            data.Email,
		DisplayName:      data.DisplayName,
		TwoFactorPending: data.TwoFAPending,
		CreatedAt:        data.CreatedAt,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login validates credentials and opens a session. When the account has
// 2FA enabled, the session starts pending and the admin API stays
// closed until a valid TOTP code arrives at Verify2FA.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, w, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := a.users.FindByEmail(req.Email)
	if err != nil {
		slog.Error("login lookup", "error", err)
		respondError(w, http.StatusInternalServerError, "login failed")
		return
	}
	// Same response for unknown email and wrong password.
	if user == nil || !a.users.CheckPassword(user, req.Password) {
		respondError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	data := &session.Data{
		UserID:       user.ID,
		Email:        user.Email,
		DisplayName:  user.DisplayName,
		TwoFAPending: user.Needs2FA(),
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := a.sessions.Create(r.Context(), w, data); err != nil {
		slog.Error("create session", "error", err)
		respondError(w, http.StatusInternalServerError, "login failed")
		return
	}

	slog.Info("admin login", "email", user.Email, "two_factor", data.TwoFAPending)
	respondJSON(w, http.StatusOK, infoFromData(data))
}

// Logout destroys the current session. Safe to call unauthenticated.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	a.sessions.Destroy(r.Context(), w, r)
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Session reports the current session state. The SPA polls this on load
// to decide between the admin console and the login screen; 401 carries
// a reason of "idle" when the previous session ended for inactivity,
// and a session-store outage answers 503 so the SPA can retry instead
// of dropping to the login screen.
func (a *Auth) Session(w http.ResponseWriter, r *http.Request) {
	data := middleware.SessionFromCtx(r.Context())
	if data == nil {
		if middleware.SessionUnavailable(r.Context()) {
			respondError(w, http.StatusServiceUnavailable, "session store unavailable, try again shortly")
			return
		}
		reason := "unauthenticated"
		if a.sessions.EndedIdle(r.Context(), r) {
			reason = "idle"
		}
		respondJSON(w, http.StatusUnauthorized, map[string]string{
			"error":  "no active session",
			"reason": reason,
		})
		return
	}
	respondJSON(w, http.StatusOK, infoFromData(data))
}

// Setup2FA generates a fresh TOTP secret for the logged-in user and
// returns the provisioning URL plus a QR code as a base64 PNG. The
// secret only becomes binding once a code is verified.
func (a *Auth) Setup2FA(w http.ResponseWriter, r *http.Request) {
	data := middleware.SessionFromCtx(r.Context())

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "devfolio",
		AccountName: data.Email,
	})
	if err != nil {
		slog.Error("totp generate", "error", err)
		respondError(w, http.StatusInternalServerError, "could not generate secret")
		return
	}

	if err := a.users.SetTOTPSecret(data.UserID, key.Secret()); err != nil {
		slog.Error("save totp secret", "error", err)
		respondError(w, http.StatusInternalServerError, "could not save secret")
		return
	}

	qrPNG, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		slog.Error("totp qr encode", "error", err)
		respondError(w, http.StatusInternalServerError, "could not render QR code")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"secret": key.Secret(),
		"url":    key.URL(),
		"qr":     "data:image/png;base64," + base64.StdEncoding.EncodeToString(qrPNG),
	})
}

type verifyRequest struct {
	Code string `json:"code"`
}

// Verify2FA checks a TOTP code. On the first successful verification it
// turns 2FA on for the account; for a pending session it settles the
// session so the admin API opens up.
func (a *Auth) Verify2FA(w http.ResponseWriter, r *http.Request) {
	data := middleware.SessionFromCtx(r.Context())

	var req verifyRequest
	if err := decodeJSON(r, w, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := a.users.FindByID(data.UserID)
	if err != nil || user == nil {
		slog.Error("2fa user lookup", "error", err)
		respondError(w, http.StatusInternalServerError, "verification failed")
		return
	}
	if user.TOTPSecret == nil {
		respondError(w, http.StatusBadRequest, "two-factor authentication is not set up")
		return
	}

	if !totp.Validate(req.Code, *user.TOTPSecret) {
		respondError(w, http.StatusUnauthorized, "invalid code")
		return
	}

	if !user.TOTPEnabled {
		if err := a.users.EnableTOTP(user.ID); err != nil {
			slog.Error("enable totp", "error", err)
			respondError(w, http.StatusInternalServerError, "verification failed")
			return
		}
		slog.Info("two-factor enabled", "email", user.Email)
	}

	if data.TwoFAPending {
		data.TwoFAPending = false
		if err := a.sessions.Update(r.Context(), r, data); err != nil {
			slog.Error("settle session", "error", err)
			respondError(w, http.StatusInternalServerError, "verification failed")
			return
		}
	}

	respondJSON(w, http.StatusOK, infoFromData(data))
}
