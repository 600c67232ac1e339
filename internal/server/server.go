// Package server exposes the agent over a small JSON HTTP API and serves
// captured screenshots as static files.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"browseragent/internal/agent"
	"browseragent/internal/config"
)

// Server wires the agent to its HTTP routes.
type Server struct {
	cfg    *config.Config
	logger *zap.Logger
	agent  *agent.Agent
}

// New creates a server around an agent.
func New(cfg *config.Config, logger *zap.Logger, a *agent.Agent) *Server {
	return &Server{cfg: cfg, logger: logger, agent: a}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/command", s.handleCommand)
	mux.HandleFunc("GET /api/providers", s.handleProviders)
	mux.HandleFunc("POST /api/providers/switch", s.handleSwitch)
	mux.Handle("GET /static/", http.StripPrefix("/static/",
		http.FileServer(http.Dir(s.cfg.Server.StaticDir))))
	return mux
}

type commandRequest struct {
	Command string `json:"command"`
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	var req commandRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Command) == "" {
		s.writeError(w, http.StatusBadRequest, "No command provided")
		return
	}

	result := s.agent.ProcessCommand(r.Context(), req.Command)
	s.writeJSON(w, http.StatusOK, result)
}

type providersResponse struct {
	Providers []string `json:"providers"`
	Current   *string  `json:"current"`
	Default   string   `json:"default"`
}

func (s *Server) handleProviders(w http.ResponseWriter, r *http.Request) {
	resp := providersResponse{
		Providers: s.agent.AvailableProviders(),
		Default:   s.cfg.AI.DefaultProvider,
	}
	if resp.Providers == nil {
		resp.Providers = []string{}
	}
	if current := s.agent.CurrentProvider(); current != "" {
		resp.Current = &current
	}
	s.writeJSON(w, http.StatusOK, resp)
}

type switchRequest struct {
	Provider string `json:"provider"`
}

func (s *Server) handleSwitch(w http.ResponseWriter, r *http.Request) {
	var req switchRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if req.Provider == "" {
		s.writeError(w, http.StatusBadRequest, "No provider specified")
		return
	}

	switched, err := s.agent.SwitchProvider(req.Provider)
	switch {
	case errors.Is(err, agent.ErrProviderUnavailable):
		s.writeError(w, http.StatusBadRequest,
			fmt.Sprintf("Provider %q is not available", req.Provider))
		return
	case err != nil:
		s.logger.Error("Provider switch failed", zap.String("provider", req.Provider), zap.Error(err))
		s.writeError(w, http.StatusInternalServerError,
			fmt.Sprintf("Failed to switch to provider %q", req.Provider))
		return
	}

	message := fmt.Sprintf("Already using %s", req.Provider)
	if switched {
		message = fmt.Sprintf("Successfully switched to %s", req.Provider)
	}
	s.writeJSON(w, http.StatusOK, map[string]string{
		"message":  message,
		"provider": req.Provider,
	})
}

// decodeJSON parses the request body, answering 400 itself when the body is
// not the expected JSON. Returns false when the request was already handled.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct != "application/json" {
		s.writeError(w, http.StatusBadRequest, "Request must be JSON")
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.writeError(w, http.StatusBadRequest, "Request must be JSON")
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
