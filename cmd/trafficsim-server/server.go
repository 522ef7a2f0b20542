package main

import (
	"net/http"
	"sync"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/felixge/httpsnoop"
	"github.com/trafficgrid/sim/internal/config"
	"github.com/trafficgrid/sim/internal/obs"
	"github.com/trafficgrid/sim/pkg/trafficcore"
	"golang.org/x/oauth2"
)

const shutdownGrace = 5 * time.Second

// Server binds one running Core to an HTTP mux, guarding every mutating
// route behind a session-checked login.
type Server struct {
	cfg     *config.Config
	core    *trafficcore.Core
	session *scs.SessionManager
	oauth   *oauth2.Config
}

// NewServer builds a Server around a freshly loaded starter level.
func NewServer(cfg *config.Config, levelNum int, seed int64) *Server {
	session := scs.New()
	session.Lifetime = 24 * time.Hour

	return &Server{
		cfg:     cfg,
		core:    trafficcore.NewLevel(levelNum, seed),
		session: session,
		oauth:   newOAuthConfig(cfg),
	}
}

// Handler assembles the full route tree, wrapped in the session
// middleware the way this codebase's App.Handler wraps its own mux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /auth/login", s.handleLogin)
	mux.HandleFunc("GET /auth/callback", s.handleCallback)
	mux.HandleFunc("POST /auth/logout", s.handleLogout)

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /rating", s.handleRating)
	mux.HandleFunc("GET /tile", s.handleQueryTile)
	mux.Handle("POST /tick", s.requireAuth(http.HandlerFunc(s.handleTick)))
	mux.Handle("POST /build/road", s.requireAuth(http.HandlerFunc(s.handleBuildRoad)))
	mux.Handle("POST /spawn", s.requireAuth(http.HandlerFunc(s.handleSpawn)))
	mux.Handle("GET /save", s.requireAuth(http.HandlerFunc(s.handleSave)))
	mux.Handle("POST /load", s.requireAuth(http.HandlerFunc(s.handleLoad)))
	mux.Handle("POST /undo", s.requireAuth(http.HandlerFunc(s.handleUndo)))
	mux.Handle("POST /redo", s.requireAuth(http.HandlerFunc(s.handleRedo)))

	// net/http runs handlers concurrently; one mutex keeps every request
	// that reaches the shared Core strictly one at a time.
	var mu sync.Mutex
	serialized := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		mux.ServeHTTP(w, r)
	})
	return s.session.LoadAndSave(serialized)
}

// withLogger mirrors this codebase's httpsnoop-based access logging, one
// structured log line per request instead of the original's "only log
// non-200s" shortcut.
func withLogger(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(handler, w, r)
		obs.Logger.Info("http request",
			"method", r.Method, "path", r.URL.Path,
			"status", m.Code, "duration", m.Duration, "bytes", m.Written)
	})
}
