package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"marketpress/internal/middleware"
	"marketpress/internal/session"
	"marketpress/internal/store"
)

// Auth groups all authentication-related HTTP handlers. Authentication is
// a collaborator of the content lifecycle: it resolves the requester
// identity that create, edit, and delete operate on.
type Auth struct {
	sessions  *session.Store
	userStore *store.UserStore
}

// NewAuth creates a new Auth handler group.
func NewAuth(sessions *session.Store, userStore *store.UserStore) *Auth {
	return &Auth{
		sessions:  sessions,
		userStore: userStore,
	}
}

// credentialsRequest is the JSON body for register and login.
type credentialsRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// Register creates a new account and opens a session for it.
func (a *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		respondError(w, r, http.StatusBadRequest, "a valid email is required")
		return
	}
	if len(req.Password) < 8 {
		respondError(w, r, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}
	if strings.TrimSpace(req.DisplayName) == "" {
		respondError(w, r, http.StatusBadRequest, "display name is required")
		return
	}

	existing, err := a.userStore.FindByEmail(r.Context(), req.Email)
	if err != nil {
		respondStoreError(w, r, err, "register lookup")
		return
	}
	if existing != nil {
		respondError(w, r, http.StatusConflict, "email already registered")
		return
	}

	user, err := a.userStore.Create(r.Context(), req.Email, req.Password, strings.TrimSpace(req.DisplayName))
	if err != nil {
		respondStoreError(w, r, err, "register create")
		return
	}

	if _, err := a.sessions.Create(r.Context(), w, &session.Data{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
	}); err != nil {
		respondStoreError(w, r, err, "register session")
		return
	}

	slog.Info("user registered", "email", user.Email)
	respond(w, r, http.StatusCreated, user)
}

// Login verifies credentials and opens a session.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := a.userStore.FindByEmail(r.Context(), strings.TrimSpace(strings.ToLower(req.Email)))
	if err != nil {
		respondStoreError(w, r, err, "login lookup")
		return
	}
	if user == nil || !a.userStore.CheckPassword(user, req.Password) {
		// Same answer for unknown email and wrong password.
		respondError(w, r, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if _, err := a.sessions.Create(r.Context(), w, &session.Data{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
	}); err != nil {
		respondStoreError(w, r, err, "login session")
		return
	}

	respond(w, r, http.StatusOK, user)
}

// Logout destroys the caller's session.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		respondStoreError(w, r, err, "logout")
		return
	}
	respond(w, r, http.StatusOK, map[string]bool{"success": true})
}

// Me returns the authenticated caller's identity and the paths of the
// content they own (derived from content.creator_id).
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	paths, err := a.userStore.OwnedContentPaths(r.Context(), sess.UserID)
	if err != nil {
		respondStoreError(w, r, err, "owned content")
		return
	}
	if paths == nil {
		paths = []string{}
	}

	respond(w, r, http.StatusOK, map[string]any{
		"user_id":      sess.UserID,
		"email":        sess.Email,
		"display_name": sess.DisplayName,
		"contents":     paths,
	})
}
