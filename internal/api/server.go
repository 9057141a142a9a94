// SPDX-License-Identifier: MIT
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/endulce/veci/internal/log"
	"github.com/endulce/veci/internal/orders"
)

// Processor handles one inbound message and returns the reply text.
// An empty reply means "say nothing" (blocked sender, guard swallow).
type Processor interface {
	ProcessMessage(ctx context.Context, user, text string) string
}

// Options configures the HTTP surface.
type Options struct {
	Addr         string
	Processor    Processor
	Orders       orders.Store
	RateLimitRPM int
}

// Server is the HTTP front door: Twilio webhook, a JSON test webhook,
// health, metrics and a small admin read endpoint.
type Server struct {
	http   *http.Server
	logger zerolog.Logger
}

func New(opts Options) *Server {
	s := &Server{logger: log.WithComponent("api")}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(requestLogger(s.logger))
	r.Use(recoverer(s.logger))
	if opts.RateLimitRPM > 0 {
		r.Use(httprate.LimitByIP(opts.RateLimitRPM, time.Minute))
	}

	h := &handlers{bot: opts.Processor, orders: opts.Orders, logger: s.logger}
	r.Post("/webhook/twilio", h.twilioWebhook)
	r.Post("/webhook/test", h.testWebhook)
	r.Get("/admin/orders", h.recentOrders)
	r.Get("/healthz", h.healthz)
	r.Handle("/metrics", promhttp.Handler())

	s.http = &http.Server{
		Addr:              opts.Addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler { return s.http.Handler }

func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.http.Addr).Msg("http server listening")
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
