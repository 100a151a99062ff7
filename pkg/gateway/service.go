// Package gateway runs the HTTP surface of the bridge: the Telegram webhook
// route plus health and metrics endpoints.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tgbridge/pkg/adapter"
	"tgbridge/pkg/config"
)

const (
	defaultHost = "0.0.0.0"
	defaultPort = 18790
)

// Service owns the webhook HTTP server and the adapter lifecycle around it.
type Service struct {
	cfg    *config.Config
	bridge *adapter.Adapter
	logic  adapter.Logic
	log    *slog.Logger

	mu        sync.RWMutex
	startedAt time.Time
}

type statusResponse struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	WebhookPath   string `json:"webhook_path"`
}

// NewService wires the adapter and bot logic into a runnable HTTP service.
func NewService(cfg *config.Config, bridge *adapter.Adapter, logic adapter.Logic, log *slog.Logger) (*Service, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if bridge == nil {
		return nil, errors.New("adapter is required")
	}
	if logic == nil {
		return nil, errors.New("bot logic is required")
	}
	if log == nil {
		log = slog.Default()
	}

	return &Service{
		cfg:    cfg,
		bridge: bridge,
		logic:  logic,
		log:    log.With("component", "gateway.service"),
	}, nil
}

// Run registers the webhook with Telegram and serves it until the context is
// cancelled.
func (s *Service) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	s.mu.Lock()
	s.startedAt = time.Now().UTC()
	s.mu.Unlock()

	webhookPath := s.cfg.Telegram.Path()
	if err := s.bridge.Init(ctx, webhookPath); err != nil {
		return fmt.Errorf("register webhook: %w", err)
	}

	host := strings.TrimSpace(s.cfg.Gateway.Host)
	if host == "" {
		host = defaultHost
	}
	port := s.cfg.Gateway.Port
	if port <= 0 {
		port = defaultPort
	}
	addr := host + ":" + strconv.Itoa(port)

	server := &http.Server{
		Addr:              addr,
		Handler:           s.buildRouter(webhookPath),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	s.log.Info("Webhook server started", "address", addr, "path", webhookPath)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("start webhook server: %w", err)
	}

	return nil
}

// buildRouter constructs the chi mux with all routes wired.
func (s *Service) buildRouter(webhookPath string) http.Handler {
	r := chi.NewRouter()

	r.Post(webhookPath, func(w http.ResponseWriter, req *http.Request) {
		s.bridge.ProcessActivity(w, req, s.logic)
	})
	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	uptime := int64(0)
	if !s.startedAt.IsZero() {
		uptime = int64(time.Since(s.startedAt).Seconds())
	}
	s.mu.RUnlock()

	payload := statusResponse{
		Status:        "ok",
		UptimeSeconds: uptime,
		WebhookPath:   s.cfg.Telegram.Path(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.Error("Failed to write status response", "error", err)
	}
}
