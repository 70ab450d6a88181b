// Package server receives GitHub webhook deliveries over HTTP, verifies
// their signature and hands the decoded events to a handler.Handler.
package server

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/sonnes/censor/config"
	"github.com/sonnes/censor/core"
	"github.com/sonnes/censor/handler"
	"github.com/sonnes/censor/reader"
)

// maxPayloadSize is the largest delivery GitHub sends.
const maxPayloadSize = 25 << 20

const (
	headerEvent     = "X-GitHub-Event"
	headerDelivery  = "X-GitHub-Delivery"
	headerSignature = "X-Hub-Signature-256"
)

// Server serves the webhook endpoint, a liveness probe and metrics.
type Server struct {
	Handler *handler.Handler
	Reader  reader.Reader
	// Secret verifies X-Hub-Signature-256. Empty disables verification.
	Secret []byte
	// Timeout bounds the handling of one delivery. Zero means no limit.
	Timeout time.Duration
	// Metrics is optional.
	Metrics *Metrics
	Logger  *log.Logger

	once sync.Once
	mux  *http.ServeMux
}

func (s *Server) logger() *log.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return log.Default()
}

// ServeHTTP routes requests to the webhook, health and metrics handlers.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.once.Do(s.routes)
	s.mux.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.mux = http.NewServeMux()
	s.mux.HandleFunc("POST /webhook", s.handleWebhook)
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		io.WriteString(w, "ok\n")
	})
	if s.Metrics != nil {
		s.mux.Handle("GET /metrics", s.Metrics.Handler())
	}
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// response is the JSON body returned for a delivery. It never carries the
// item's text.
type response struct {
	Delivery string      `json:"delivery"`
	Status   core.Status `json:"status,omitempty"`
	Fired    int         `json:"fired,omitempty"`
	Edited   bool        `json:"edited,omitempty"`
	Note     bool        `json:"note,omitempty"`
	DryRun   bool        `json:"dry_run,omitempty"`
	Error    string      `json:"error,omitempty"`
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	delivery := r.Header.Get(headerDelivery)
	if delivery == "" {
		delivery = uuid.NewString()
	}
	name := r.Header.Get(headerEvent)
	logger := s.logger().With("delivery", delivery, "event", name)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPayloadSize))
	if err != nil {
		s.fail(w, logger, delivery, http.StatusBadRequest, "payload", fmt.Errorf("read payload: %w", err))
		return
	}

	if len(s.Secret) > 0 && !validSignature(s.Secret, body, r.Header.Get(headerSignature)) {
		s.fail(w, logger, delivery, http.StatusUnauthorized, "signature", errors.New("invalid signature"))
		return
	}

	ev, err := s.Reader.Read(name, bytes.NewReader(body))
	if errors.Is(err, reader.ErrUnsupportedEvent) {
		logger.Debug("ignoring event type")
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		s.fail(w, logger, delivery, http.StatusBadRequest, "payload", err)
		return
	}
	ev.DeliveryID = delivery

	ctx := r.Context()
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	out, err := s.Handler.Handle(ctx, ev)
	if err != nil {
		code, reason := http.StatusBadGateway, "publish"
		if errors.Is(err, config.ErrInvalid) {
			code, reason = http.StatusUnprocessableEntity, "config"
		}
		s.fail(w, logger, delivery, code, reason, err)
		return
	}

	s.Metrics.RecordOutcome(out, time.Since(start))
	logger.Info("handled", "item", ev.Slug(), "status", out.Status, "fired", len(out.Fired), "duration", time.Since(start))

	writeJSON(w, logger, http.StatusAccepted, response{
		Delivery: delivery,
		Status:   out.Status,
		Fired:    len(out.Fired),
		Edited:   out.Edited,
		Note:     out.Commented,
		DryRun:   out.DryRun,
	})
}

func (s *Server) fail(w http.ResponseWriter, logger *log.Logger, delivery string, code int, reason string, err error) {
	s.Metrics.RecordError(reason)
	logger.Error("delivery failed", "reason", reason, "status", code, "err", err)
	writeJSON(w, logger, code, response{Delivery: delivery, Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, logger *log.Logger, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Debug("write response", "status", code, "error", err)
	}
}

// validSignature checks header ("sha256=<hex>") against the HMAC of body.
func validSignature(secret, body []byte, header string) bool {
	hexSig, ok := strings.CutPrefix(header, "sha256=")
	if !ok {
		return false
	}
	got, err := hex.DecodeString(hexSig)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return hmac.Equal(got, mac.Sum(nil))
}

// Sign returns the X-Hub-Signature-256 value for body.
func Sign(secret, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}
