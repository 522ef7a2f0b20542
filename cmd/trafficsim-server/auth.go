package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"

	"github.com/trafficgrid/sim/internal/config"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

const sessionUserKey = "authenticated_user"

// newOAuthConfig builds the GitHub OAuth2 client config this server logs
// operators in with. An empty client id/secret disables login entirely:
// requireAuth then refuses every mutating route, which is the safe
// default for a server nobody configured yet.
func newOAuthConfig(cfg *config.Config) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.OAuthClientID,
		ClientSecret: cfg.OAuthClientSecret,
		RedirectURL:  cfg.OAuthRedirectURL,
		Endpoint:     github.Endpoint,
		Scopes:       []string{"read:user"},
	}
}

func randomState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if s.oauth.ClientID == "" {
		http.Error(w, "oauth is not configured on this server", http.StatusServiceUnavailable)
		return
	}
	state, err := randomState()
	if err != nil {
		http.Error(w, "failed to start login", http.StatusInternalServerError)
		return
	}
	s.session.Put(r.Context(), "oauth_state", state)
	http.Redirect(w, r, s.oauth.AuthCodeURL(state), http.StatusFound)
}

func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	wantState := s.session.PopString(r.Context(), "oauth_state")
	if wantState == "" || r.URL.Query().Get("state") != wantState {
		http.Error(w, "invalid oauth state", http.StatusBadRequest)
		return
	}

	code := r.URL.Query().Get("code")
	token, err := s.oauth.Exchange(context.Background(), code)
	if err != nil {
		http.Error(w, "oauth exchange failed", http.StatusUnauthorized)
		return
	}

	// The access token itself authenticates the session; no user profile
	// fetch is needed for this server's purposes (there's no per-user
	// state, only one shared world).
	s.session.Put(r.Context(), sessionUserKey, token.AccessToken)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.session.Remove(r.Context(), sessionUserKey)
	w.WriteHeader(http.StatusNoContent)
}

// requireAuth rejects any request whose session has no logged-in user.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.session.GetString(r.Context(), sessionUserKey) == "" {
			http.Error(w, "login required", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
