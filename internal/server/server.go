// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-17
// Last Modified: 2026-10-17

// Package server runs the create and assign flows for GitHub webhook deliveries.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/go-github/v60/github"
	"github.com/rs/zerolog"

	"github.com/similigh/prlink/internal/core/config"
	"github.com/similigh/prlink/internal/core/pipeline"
	ghapi "github.com/similigh/prlink/internal/integrations/github"
	"github.com/similigh/prlink/internal/logger"
)

// FlowRunner runs one flow invocation.
type FlowRunner interface {
	Run(ctx context.Context, in config.Inputs, pr *pipeline.PullRequest) (*pipeline.Context, error)
}

// Server receives pull_request webhooks.
type Server struct {
	Address string
	server  *http.Server

	router *chi.Mux
	runner FlowRunner
	secret []byte
	inputs config.Inputs
	log    zerolog.Logger
}

// New builds the server. inputs are the per-delivery defaults (token,
// project, tag); method and reviewer are filled from each delivery.
func New(addr, secret string, runner FlowRunner, inputs config.Inputs, log zerolog.Logger) *Server {
	mux := chi.NewMux()
	srv := &Server{
		Address: addr,
		router:  mux,
		runner:  runner,
		secret:  []byte(secret),
		inputs:  inputs,
		log:     log.With().Str("component", "server").Logger(),
	}
	srv.server = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	srv.setupRoutes()
	return srv
}

// Handler exposes the router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("address", s.Address).Msg("server starting")
		errCh <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	}
}

// Shutdown stops the server with a bounded grace period.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	s.router.Post("/webhook", s.handleWebhook)
}

type deliveryResponse struct {
	Status string           `json:"status"`
	Reason string           `json:"reason,omitempty"`
	Result *pipeline.Result `json:"result,omitempty"`
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := github.ValidatePayload(r, s.secret)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "INVALID_SIGNATURE", err.Error())
		return
	}

	eventType := github.WebHookType(r)
	event, err := github.ParseWebHook(eventType, payload)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_PAYLOAD", err.Error())
		return
	}

	prEvent, ok := event.(*github.PullRequestEvent)
	if !ok {
		writeJSON(w, http.StatusAccepted, deliveryResponse{Status: "ignored", Reason: "event " + eventType})
		return
	}

	in := s.inputs
	switch prEvent.GetAction() {
	case "opened":
		in.Method = pipeline.MethodCreate
	case "review_requested":
		in.Method = pipeline.MethodAssign
		in.ReviewerLogin = prEvent.GetRequestedReviewer().GetLogin()
	default:
		writeJSON(w, http.StatusAccepted, deliveryResponse{Status: "ignored", Reason: "action " + prEvent.GetAction()})
		return
	}

	info, err := ghapi.PullRequestInfoFromEvent(prEvent)
	if err != nil {
		writeError(w, http.StatusBadRequest, "NO_PULL_REQUEST", err.Error())
		return
	}
	pr, err := pipeline.NewPullRequest(info, config.Inputs{}, "")
	if err != nil {
		writeError(w, http.StatusBadRequest, "NO_PULL_REQUEST", err.Error())
		return
	}

	log, _ := logger.WithRunID(s.log)
	log = log.With().
		Str("delivery", github.DeliveryID(r)).
		Str("request_id", middleware.GetReqID(r.Context())).
		Logger()

	pCtx, err := s.runner.Run(log.WithContext(r.Context()), in, pr)
	if err != nil {
		msg := pipeline.FailureMessage(in.Method, err)
		log.Error().Err(err).Msg(msg)
		writeError(w, http.StatusBadGateway, "FLOW_FAILED", msg)
		return
	}

	status := "completed"
	if pCtx.Result.Skipped {
		status = "skipped"
	}
	log.Info().Str("status", status).Msg("delivery processed")
	writeJSON(w, http.StatusOK, deliveryResponse{Status: status, Reason: pCtx.Result.SkipReason, Result: pCtx.Result})
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: errorBody{Code: code, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}
