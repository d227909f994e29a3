// Package web serves the admin HTTP API: settings, stats, health and the
// Prometheus endpoint.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/Sanjay-off/telegram-filebot/internal/domain"
	"github.com/Sanjay-off/telegram-filebot/internal/usecase"
)

// adminUserID marks audit-log entries written through the HTTP API rather
// than a chat command.
const adminUserID int64 = 0

type Server struct {
	settingsUC usecase.SettingsUseCase
	statsUC    usecase.StatsUseCase
	auth       *AuthManager
	log        *zerolog.Logger

	srv *http.Server
}

func NewServer(settingsUC usecase.SettingsUseCase, statsUC usecase.StatsUseCase, auth *AuthManager, port int, logger *zerolog.Logger) *Server {
	s := &Server{
		settingsUC: settingsUC,
		statsUC:    statsUC,
		auth:       auth,
		log:        logger,
	}

	r := chi.NewRouter()
	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.Middleware)
		r.Get("/settings", s.handleGetSettings)
		r.Put("/settings/{key}", s.handlePutSetting)
		r.Get("/stats", s.handleGetStats)
	})

	s.srv = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	return s
}

// Handler exposes the routed handler for tests.
func (s *Server) Handler() http.Handler { return s.srv.Handler }

func (s *Server) Start() error {
	s.log.Info().Str("addr", s.srv.Addr).Msg("admin API listening")
	err := s.srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "OK")
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.settingsUC.Get(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("get settings")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"verify_link":         settings.VerifyLink,
		"delete_time_minutes": settings.DeleteTimeMinutes,
		"verification_days":   settings.VerificationDays,
		"free_downloads":      settings.FreeDownloads,
		"zip_password":        settings.ZipPassword,
		"premium_minutes":     settings.PremiumMinutes,
	})
}

func (s *Server) handlePutSetting(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	var body struct {
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	err := s.settingsUC.Set(r.Context(), adminUserID, key, body.Value)
	switch {
	case errors.Is(err, domain.ErrUnsupportedKey):
		http.Error(w, "unsupported key", http.StatusBadRequest)
	case errors.Is(err, domain.ErrNotInteger):
		http.Error(w, "value must be an integer", http.StatusBadRequest)
	case errors.Is(err, domain.ErrInvalidArgument):
		http.Error(w, "value out of range", http.StatusBadRequest)
	case err != nil:
		s.log.Error().Err(err).Str("key", key).Msg("put setting")
		http.Error(w, "internal error", http.StatusInternalServerError)
	default:
		writeJSON(w, http.StatusOK, map[string]string{"key": key, "value": body.Value})
	}
}

func (s *Server) handleGetStats(w http.ResponseWriter, r *http.Request) {
	counts, err := s.statsUC.GetCounts(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("get stats")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{
		"total_users":    counts.Total,
		"verified_users": counts.Verified,
		"premium_users":  counts.Premium,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
