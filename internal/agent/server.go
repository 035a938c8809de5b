package agent

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"contractscanner/internal/config"
	"contractscanner/internal/conversation"
	"contractscanner/pkg/controller"
	"contractscanner/pkg/logger"
	"contractscanner/pkg/metrics"
	"contractscanner/pkg/serrors"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Options holds configuration for the HTTP server.
// All durations are used to configure server timeouts, and zero values
// should be considered as using the defaults provided by net/http where applicable.
type Options struct {
	// APIKey is the bearer token every /v1 and /debug request must present.
	APIKey string
	// Addr is the TCP address the server listens on, e.g. ":8080".
	Addr string
	// ReadTimeout is the maximum duration for reading the entire request, including the body.
	ReadTimeout time.Duration
	// ReadHeaderTimeout is the amount of time allowed to read request headers.
	ReadHeaderTimeout time.Duration
	// WriteTimeout is the maximum duration before timing out writes of the response.
	WriteTimeout time.Duration
	// IdleTimeout is the maximum amount of time to wait for the next request when keep-alives are enabled.
	IdleTimeout time.Duration
	// MaxHeaderBytes controls the maximum number of bytes the server
	// will read parsing the request header's keys and values, including the request line.
	MaxHeaderBytes int
	// MetricsPath is the HTTP path at which Prometheus metrics are served.
	MetricsPath string
	// CORSOrigins lists the browser origins allowed to call the API.
	CORSOrigins []string
	// PprofEnabled mounts the profiling endpoints under /debug/pprof.
	PprofEnabled bool
}

// NewOptions constructs an Options value from the provided application configuration.
func NewOptions(cfg *config.Config) Options {
	return Options{
		APIKey:            cfg.Agent.APIKey,
		Addr:              cfg.Agent.Addr,
		ReadTimeout:       cfg.Agent.ReadTimeout,
		ReadHeaderTimeout: cfg.Agent.ReadHeaderTimeout,
		WriteTimeout:      cfg.Agent.WriteTimeout,
		IdleTimeout:       cfg.Agent.IdleTimeout,
		MaxHeaderBytes:    cfg.Agent.MaxHeaderBytes,
		MetricsPath:       cfg.Agent.MetricsPath,
		CORSOrigins:       cfg.Agent.CORSOrigins,
		PprofEnabled:      cfg.Agent.PprofEnabled,
	}
}

// Deps are the collaborators of the HTTP handlers.
type Deps struct {
	Invoker  *Invoker
	Machine  *conversation.Machine
	Sessions *Sessions
	Metrics  *metrics.Recorder
	// MeterProvider receives the HTTP request metrics. Nil disables them.
	MeterProvider metric.MeterProvider
}

// NewServer wires up and returns a configured *http.Server.
func NewServer(deps Deps, opts Options) *http.Server {
	return &http.Server{
		Addr:              opts.Addr,
		Handler:           NewRouter(deps, opts),
		ReadTimeout:       opts.ReadTimeout,
		ReadHeaderTimeout: opts.ReadHeaderTimeout,
		WriteTimeout:      opts.WriteTimeout,
		IdleTimeout:       opts.IdleTimeout,
		MaxHeaderBytes:    opts.MaxHeaderBytes,
		ErrorLog:          logger.StdLogger(context.Background(), slog.LevelError),
	}
}

// NewRouter builds the routes:
//   - GET /healthz and GET <MetricsPath> without authentication
//   - the tool and conversation endpoints under /v1, behind bearer auth
//   - pprof under /debug when enabled, behind bearer auth
func NewRouter(deps Deps, opts Options) chi.Router {
	h := &handlers{Deps: deps}
	metricsPath := opts.MetricsPath
	if metricsPath == "" {
		metricsPath = "/metrics"
	}

	r := chi.NewRouter()
	r.Use(controller.WithLogger)
	r.Use(controller.WithCORS(opts.CORSOrigins))
	if deps.MeterProvider != nil {
		r.Use(controller.WithHTTPMetrics(deps.MeterProvider))
	}

	r.Get("/healthz", h.health)
	r.Method(http.MethodGet, metricsPath, deps.Metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(controller.WithBearerAuth(opts.APIKey))

		r.Route("/v1", func(r chi.Router) {
			r.Get("/tools", h.listTools)
			r.Post("/tools/{name}", h.invokeTool)
			r.Get("/stats", h.stats)
			r.Post("/conversations", h.createConversation)
			r.Post("/conversations/{id}/messages", h.postMessage)
			r.Delete("/conversations/{id}", h.deleteConversation)
		})

		if opts.PprofEnabled {
			r.Mount("/debug", controller.Pprof())
		}
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		controller.WriteError(r.Context(), w, serrors.With(serrors.ErrNotFound, "route not found"))
	})

	return r
}

type handlers struct {
	Deps
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	controller.WriteJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handlers) listTools(w http.ResponseWriter, r *http.Request) {
	controller.WriteJSON(r.Context(), w, http.StatusOK, map[string]any{"tools": Tools()})
}

func (h *handlers) invokeTool(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := chi.URLParam(r, "name")
	ctx = logger.WithFields(ctx, zap.String("tool", name))

	args, err := readBody(w, r)
	if err != nil {
		controller.WriteError(ctx, w, err)

		return
	}

	out, err := h.Invoker.Invoke(ctx, name, args)
	if err != nil {
		controller.WriteError(ctx, w, err)

		return
	}

	controller.WriteJSON(ctx, w, http.StatusOK, out)
}

// StatsResponse is the body of GET /v1/stats.
type StatsResponse struct {
	Scans         metrics.Snapshot `json:"scans"`
	Conversations int              `json:"conversations"`
}

func (h *handlers) stats(w http.ResponseWriter, r *http.Request) {
	controller.WriteJSON(r.Context(), w, http.StatusOK, StatsResponse{
		Scans:         h.Metrics.Snapshot(),
		Conversations: h.Sessions.Len(),
	})
}

// ConversationResponse is the body returned when a conversation is created.
type ConversationResponse struct {
	ID    uuid.UUID          `json:"id"`
	Stage conversation.Stage `json:"stage"`
}

func (h *handlers) createConversation(w http.ResponseWriter, r *http.Request) {
	id := h.Sessions.Create()
	logger.Info(r.Context(), "conversation created", zap.Stringer("conversation", id))

	controller.WriteJSON(r.Context(), w, http.StatusCreated, ConversationResponse{
		ID:    id,
		Stage: conversation.AwaitingScanRequest,
	})
}

// MessageRequest is the body of POST /v1/conversations/{id}/messages.
type MessageRequest struct {
	Text string `json:"text"`
}

// MessageResponse is the reply to a message. Result is set when the message
// completed the parameters and a scan was dispatched.
type MessageResponse struct {
	Text   string             `json:"text"`
	Stage  conversation.Stage `json:"stage"`
	Result *Output            `json:"result,omitempty"`
}

func (h *handlers) postMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := conversationID(r)
	if err != nil {
		controller.WriteError(ctx, w, err)

		return
	}
	ctx = logger.WithFields(ctx, zap.Stringer("conversation", id))

	body, err := readBody(w, r)
	if err != nil {
		controller.WriteError(ctx, w, err)

		return
	}
	var msg MessageRequest
	if err := json.Unmarshal(body, &msg); err != nil {
		controller.WriteError(ctx, w, serrors.Wrap(serrors.ErrValidation, err, "invalid message body"))

		return
	}

	var reply conversation.Reply
	found := h.Sessions.With(id, func(st *conversation.State) {
		reply = h.Machine.Step(ctx, st, msg.Text)
	})
	if !found {
		controller.WriteError(ctx, w, serrors.With(serrors.ErrNotFound, "conversation not found"))

		return
	}

	resp := MessageResponse{Text: reply.Text, Stage: reply.Stage}
	if reply.Result != nil {
		out := OutputOf(*reply.Result)
		resp.Result = &out
	}

	controller.WriteJSON(ctx, w, http.StatusOK, resp)
}

func (h *handlers) deleteConversation(w http.ResponseWriter, r *http.Request) {
	id, err := conversationID(r)
	if err != nil {
		controller.WriteError(r.Context(), w, err)

		return
	}
	if !h.Sessions.Delete(id) {
		controller.WriteError(r.Context(), w, serrors.With(serrors.ErrNotFound, "conversation not found"))

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func conversationID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, serrors.Wrap(serrors.ErrValidation, err, "invalid conversation id")
	}

	return id, nil
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	b, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, serrors.With(serrors.ErrValidation, "request body larger than %d bytes", tooLarge.Limit)
		}

		return nil, serrors.Wrap(serrors.ErrValidation, err, "could not read request body")
	}

	return b, nil
}

// SweepSessions ends idle conversations every interval until ctx is done.
func SweepSessions(ctx context.Context, s *Sessions, ttl, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := s.Sweep(ttl); n > 0 {
				logger.Info(ctx, "ended idle conversations", zap.Int("count", n))
			}
		}
	}
}
