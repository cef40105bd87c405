package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"pantry-pilot/internal/config"
	"pantry-pilot/pkg/logger"
)

// SessionAuth resolves the caller's session token (Authorization bearer or
// session cookie) against the auth platform's user endpoint.
type SessionAuth struct {
	baseURL    string
	apiKey     string
	cookieName string
	client     *http.Client
	profiles   ProfileSaver
	skipAuth   bool
	devUser    User
	log        logger.Logger
}

type contextKey int

const userKey contextKey = iota

type User struct {
	ID        string
	Email     string
	Name      string
	AvatarURL string
}

// ProfileSaver mirrors resolved identities into local user profiles.
type ProfileSaver interface {
	UpsertProfile(ctx context.Context, userID, email, avatarURL string) error
}

type authUserResponse struct {
	ID           string                 `json:"id"`
	Sub          string                 `json:"sub"`
	Email        string                 `json:"email"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
}

func NewSessionAuth(cfg config.AuthConfig, profiles ProfileSaver, log logger.Logger) *SessionAuth {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	return &SessionAuth{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		apiKey:     cfg.PublishableKey,
		cookieName: cfg.SessionCookie,
		client:     &http.Client{Timeout: timeout},
		profiles:   profiles,
		skipAuth:   cfg.SkipAuth,
		devUser: User{
			ID:    strings.TrimSpace(cfg.DevUserID),
			Email: strings.TrimSpace(cfg.DevUserEmail),
		},
		log: log,
	}
}

func (a *SessionAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.skipAuth {
			if a.devUser.ID == "" {
				writeAuthError(w, http.StatusInternalServerError, "auth_not_configured", "auth dev user id not configured")
				return
			}
			a.saveProfile(r.Context(), a.devUser)
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), a.devUser)))
			return
		}

		if a.baseURL == "" || a.apiKey == "" {
			writeAuthError(w, http.StatusInternalServerError, "auth_not_configured", "auth not configured")
			return
		}

		token, ok := a.sessionToken(r)
		if !ok {
			unauthorized(w)
			return
		}

		user, ok := a.resolveUser(r.Context(), token)
		if !ok {
			unauthorized(w)
			return
		}

		a.saveProfile(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// sessionToken prefers the Authorization header and falls back to the
// session cookie the web client carries.
func (a *SessionAuth) sessionToken(r *http.Request) (string, bool) {
	if token, ok := bearerToken(r.Header.Get("Authorization")); ok {
		return token, true
	}
	if a.cookieName != "" {
		if cookie, err := r.Cookie(a.cookieName); err == nil && cookie.Value != "" {
			return cookie.Value, true
		}
	}
	return "", false
}

func (a *SessionAuth) resolveUser(ctx context.Context, token string) (User, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return User{}, false
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("apikey", a.apiKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return User{}, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return User{}, false
	}

	var payload authUserResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return User{}, false
	}

	userID := payload.ID
	if userID == "" {
		userID = payload.Sub
	}
	if userID == "" {
		return User{}, false
	}

	name := metadataString(payload.UserMetadata, "name")
	if name == "" {
		name = metadataString(payload.UserMetadata, "full_name")
	}

	return User{
		ID:        userID,
		Email:     payload.Email,
		Name:      name,
		AvatarURL: metadataString(payload.UserMetadata, "avatar_url"),
	}, true
}

func (a *SessionAuth) saveProfile(ctx context.Context, user User) {
	if a.profiles == nil {
		return
	}
	if err := a.profiles.UpsertProfile(ctx, user.ID, user.Email, user.AvatarURL); err != nil {
		a.log.InternalError("auth: upsert profile failed", err, "user_id", user.ID)
	}
}

func WithUser(ctx context.Context, user User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func UserFromContext(ctx context.Context) (User, bool) {
	user, ok := ctx.Value(userKey).(User)
	if !ok || user.ID == "" {
		return User{}, false
	}
	return user, true
}

func bearerToken(value string) (string, bool) {
	parts := strings.Fields(value)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func unauthorized(w http.ResponseWriter) {
	writeAuthError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
}

func writeAuthError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}

func metadataString(values map[string]interface{}, key string) string {
	if values == nil {
		return ""
	}
	parsed, _ := values[key].(string)
	return parsed
}
