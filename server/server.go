// Package server exposes the chat assistant over HTTP.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/markramrattan/navi/logging"
	"github.com/markramrattan/navi/model"
	"github.com/markramrattan/navi/storage"
)

const (
	// Request limits mirror what a chat UI can reasonably send; anything
	// larger is rejected before it reaches the model.
	maxMessages       = 50
	maxMessageLength  = 8000
	defaultReqTimeout = 10 * time.Second
	shutdownTimeout   = 30 * time.Second
)

// turnProcessor is the slice of chat.Orchestrator the server needs.
type turnProcessor interface {
	ProcessTurn(ctx context.Context, history []model.Message) (string, error)
}

// chatRequest is the wire format of POST /api/chat.
type chatRequest struct {
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Server handles the chat API, health and metrics endpoints.
type Server struct {
	orchestrator turnProcessor
	transcripts  *storage.TranscriptStorage
	metrics      *Metrics
	logger       *slog.Logger
	modelName    string

	httpServer *http.Server
}

// Config carries the server's collaborators. Transcripts may be nil to
// disable journaling.
type Config struct {
	Addr         string
	Orchestrator turnProcessor
	Transcripts  *storage.TranscriptStorage
	Registry     prometheus.Registerer
	Logger       *slog.Logger
	ModelName    string
}

func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Registry == nil {
		cfg.Registry = prometheus.DefaultRegisterer
	}

	s := &Server{
		orchestrator: cfg.Orchestrator,
		transcripts:  cfg.Transcripts,
		metrics:      NewMetrics(cfg.Registry),
		logger:       cfg.Logger,
		modelName:    cfg.ModelName,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: defaultReqTimeout,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Start runs the server until it fails or Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("starting chat server", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down chat server")
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the routing mux, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.reject(w, http.StatusBadRequest, "invalid JSON body", "bad_json")
		return
	}

	history, errText := validateMessages(req.Messages)
	if errText != "" {
		s.reject(w, http.StatusBadRequest, errText, "validation")
		return
	}

	reply, err := s.orchestrator.ProcessTurn(r.Context(), history)
	if err != nil {
		s.metrics.TurnsTotal.WithLabelValues(logging.StatusError).Inc()
		s.logger.Error("chat turn failed",
			logging.Operation("chat"),
			logging.Err(err))
		if isThrottlingError(err) {
			s.reject(w, http.StatusTooManyRequests,
				"Too many requests. Please wait a moment and try again.", "throttled")
			return
		}
		s.reject(w, http.StatusInternalServerError,
			"Something went wrong. Please try again.", "internal")
		return
	}

	s.metrics.TurnsTotal.WithLabelValues(logging.StatusSuccess).Inc()
	s.metrics.TurnDuration.Observe(time.Since(start).Seconds())
	s.journal(history, reply)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(chatResponse{Message: reply})
}

// validateMessages enforces the request limits and converts to model
// messages. Leading non-user turns are dropped so the history always starts
// with a user turn, which every provider requires.
func validateMessages(messages []chatMessage) ([]model.Message, string) {
	if len(messages) == 0 {
		return nil, "messages must not be empty"
	}
	if len(messages) > maxMessages {
		return nil, "too many messages"
	}

	for i := range messages {
		m := messages[i]
		if m.Role != "user" && m.Role != "assistant" {
			return nil, "message roles must be user or assistant"
		}
		if m.Content == "" {
			return nil, "message content must not be empty"
		}
		if len(m.Content) > maxMessageLength {
			return nil, "message content too long"
		}
	}

	for len(messages) > 0 && messages[0].Role != "user" {
		messages = messages[1:]
	}
	if len(messages) == 0 {
		return nil, "conversation must contain a user message"
	}

	history := make([]model.Message, 0, len(messages))
	for _, m := range messages {
		history = append(history, model.Message{
			Role:    m.Role,
			Content: m.Content,
		})
	}
	return history, ""
}

func (s *Server) journal(history []model.Message, reply string) {
	if s.transcripts == nil {
		return
	}
	lastUser := ""
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == model.RoleUser {
			lastUser = history[i].Content
			break
		}
	}
	err := s.transcripts.Append(storage.TranscriptEntry{
		Conversation:  "default",
		UserMessage:   lastUser,
		AssistantText: reply,
		Model:         s.modelName,
	})
	if err != nil {
		s.logger.Warn("transcript journaling failed", logging.Err(err))
	}
}

func (s *Server) reject(w http.ResponseWriter, status int, message, reason string) {
	s.metrics.RequestErrors.WithLabelValues(reason).Inc()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: message})
}

// isThrottlingError matches the upstream provider's rate limiting errors.
func isThrottlingError(err error) bool {
	text := err.Error()
	return strings.Contains(text, "Throttling") || strings.Contains(text, "rate")
}
