// Package server exposes reveal sessions over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/giftreveal/internal/config"
	"github.com/ivlev/giftreveal/internal/engine"
	"github.com/ivlev/giftreveal/internal/prefs"
	"github.com/ivlev/giftreveal/internal/share"
)

const shutdownTimeout = 5 * time.Second

type entry struct {
	session *engine.Session
	notes   *engine.NotificationLog
}

// Server holds the live sessions of the process.
type Server struct {
	factory *engine.Factory
	prefs   *prefs.Preferences
	metrics *Metrics
	log     logrus.FieldLogger
	version string

	mu       sync.Mutex
	sessions map[string]*entry
}

// New creates a server. metrics may be nil.
func New(f *engine.Factory, p *prefs.Preferences, m *Metrics, version string, log logrus.FieldLogger) *Server {
	return &Server{
		factory:  f,
		prefs:    p,
		metrics:  m,
		log:      log,
		version:  version,
		sessions: make(map[string]*entry),
	}
}

// Handler returns the HTTP API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /sessions", s.handleCreate)
	mux.HandleFunc("GET /sessions/{id}", s.handleGet)
	mux.HandleFunc("POST /sessions/{id}/reveal", s.handleReveal)
	mux.HandleFunc("POST /sessions/{id}/scroll", s.handleScroll)
	mux.HandleFunc("GET /sessions/{id}/countdown", s.handleCountdown)
	mux.HandleFunc("GET /sessions/{id}/voucher", s.handleVoucher)
	mux.HandleFunc("DELETE /sessions/{id}", s.handleDelete)
	mux.HandleFunc("GET /share", s.handleShare)
	mux.HandleFunc("GET /share/qr.png", s.handleShareQR)
	mux.HandleFunc("GET /preferences/music", s.handleGetMusic)
	mux.HandleFunc("POST /preferences/music", s.handleSetMusic)
	return logRequests(s.log, mux)
}

// Run serves the API on httpPort and metrics on ms until ctx is cancelled,
// then shuts both down and tears down every session.
func (s *Server) Run(ctx context.Context, httpPort int, ms *MetricsServer) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", httpPort),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Infof("http server listening on port %d", httpPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})
	if ms != nil {
		g.Go(ms.ListenAndServe)
	}
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if ms != nil {
			if err := ms.Shutdown(shutdownCtx); err != nil {
				s.log.WithError(err).Warn("metrics shutdown")
			}
		}
		err := srv.Shutdown(shutdownCtx)
		s.TeardownAll()
		return err
	})
	return g.Wait()
}

// TeardownAll tears down every live session.
func (s *Server) TeardownAll() {
	s.mu.Lock()
	all := s.sessions
	s.sessions = make(map[string]*entry)
	s.mu.Unlock()
	for _, e := range all {
		e.session.Teardown()
		s.sessionClosed()
	}
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*entry, bool) {
	id := r.PathValue("id")
	s.mu.Lock()
	e, ok := s.sessions[id]
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("session %q not found", id))
	}
	return e, ok
}

type sessionView struct {
	engine.Snapshot
	Notifications []engine.Notification `json:"notifications"`
}

func view(e *entry) sessionView {
	return sessionView{Snapshot: e.session.Snapshot(), Notifications: e.notes.All()}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	n := len(s.sessions)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "version": s.version, "sessions": n})
}

type createRequest struct {
	Variant       config.Variant `json:"variant"`
	ViewportWidth int            `json:"viewport_width"`
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	req := createRequest{Variant: s.factory.Config.Variant, ViewportWidth: 1440}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if _, ok := config.ProfileFor(req.Variant); !ok {
		writeError(w, http.StatusBadRequest, fmt.Errorf("unknown variant %q", req.Variant))
		return
	}

	notes := &engine.NotificationLog{}
	sess, err := s.factory.NewSession(req.Variant, req.ViewportWidth, notes, nil)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	e := &entry{session: sess, notes: notes}

	s.mu.Lock()
	s.sessions[sess.ID()] = e
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.SessionsCreated.WithLabelValues(string(req.Variant)).Inc()
		s.metrics.ActiveSessions.Inc()
	}
	s.log.WithFields(logrus.Fields{"session": sess.ID(), "variant": req.Variant}).Info("session created")
	writeJSON(w, http.StatusCreated, view(e))
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	e, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, view(e))
}

// handleReveal starts the timed and scroll variants and triggers the click
// variant.
func (s *Server) handleReveal(w http.ResponseWriter, r *http.Request) {
	e, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var (
		changed bool
		err     error
	)
	if e.session.Variant() == config.VariantClick {
		changed, err = e.session.Trigger()
	} else {
		changed, err = e.session.Start()
	}
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	if changed && s.metrics != nil {
		s.metrics.Reveals.WithLabelValues(string(e.session.Variant())).Inc()
	}
	writeJSON(w, http.StatusOK, map[string]any{"changed": changed, "session": view(e)})
}

type scrollRequest struct {
	Progress       *float64 `json:"progress,omitempty"`
	Offset         float64  `json:"offset,omitempty"`
	ViewportHeight float64  `json:"viewport_height,omitempty"`
}

func (s *Server) handleScroll(w http.ResponseWriter, r *http.Request) {
	e, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var req scrollRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var err error
	switch {
	case req.Progress != nil:
		err = e.session.Scroll(*req.Progress)
	case req.ViewportHeight > 0:
		err = e.session.ScrollTo(req.Offset, req.ViewportHeight)
	default:
		err = fmt.Errorf("progress or viewport_height is required")
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, e.session.Frame())
}

func (s *Server) handleCountdown(w http.ResponseWriter, r *http.Request) {
	e, ok := s.lookup(w, r)
	if !ok {
		return
	}
	st, running := e.session.Countdown()
	if !running {
		writeError(w, http.StatusNotFound, fmt.Errorf("countdown not running"))
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// handleVoucher returns the PNG. A failed render answers 204 with no body,
// mirroring the silent failure of the download.
func (s *Server) handleVoucher(w http.ResponseWriter, r *http.Request) {
	e, ok := s.lookup(w, r)
	if !ok {
		return
	}
	start := time.Now()
	asset, ok := e.session.Download(r.Context())
	if s.metrics != nil {
		s.metrics.RenderSeconds.Observe(time.Since(start).Seconds())
	}
	if !ok {
		if s.metrics != nil {
			s.metrics.Vouchers.WithLabelValues("failed").Inc()
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if s.metrics != nil {
		s.metrics.Vouchers.WithLabelValues("ok").Inc()
	}
	w.Header().Set("Content-Type", asset.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", asset.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(asset.Data)))
	w.WriteHeader(http.StatusOK)
	w.Write(asset.Data)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	e, ok := s.lookup(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	delete(s.sessions, e.session.ID())
	s.mu.Unlock()

	if err := e.session.Teardown(); err == nil {
		s.sessionClosed()
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) sessionClosed() {
	if s.metrics != nil {
		s.metrics.ActiveSessions.Dec()
	}
}

func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": share.Message,
		"link":    share.BuildShareLink(share.Message),
	})
}

func (s *Server) handleShareQR(w http.ResponseWriter, r *http.Request) {
	size := 256
	if v := r.URL.Query().Get("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 64 || n > 1024 {
			writeError(w, http.StatusBadRequest, fmt.Errorf("size must be between 64 and 1024"))
			return
		}
		size = n
	}
	png, err := share.QRCodePNG(share.BuildShareLink(share.Message), size)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

type musicBody struct {
	Enabled *bool `json:"enabled,omitempty"`
}

func (s *Server) handleGetMusic(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"enabled": s.prefs.MusicEnabled()})
}

// handleSetMusic sets the flag when a value is given and toggles it otherwise.
func (s *Server) handleSetMusic(w http.ResponseWriter, r *http.Request) {
	var body musicBody
	if err := readJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var err error
	if body.Enabled != nil {
		err = s.prefs.SetMusicEnabled(r.Context(), *body.Enabled)
	} else {
		_, err = s.prefs.ToggleMusic(r.Context())
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if s.metrics != nil {
		s.metrics.MusicToggles.Inc()
	}
	writeJSON(w, http.StatusOK, map[string]bool{"enabled": s.prefs.MusicEnabled()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, engine.ErrTornDown):
		return http.StatusGone
	case errors.Is(err, engine.ErrUnsupported):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
