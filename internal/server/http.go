package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionHeader carries the session ID issued on initialize.
const SessionHeader = "Mcp-Session-Id"

const (
	maxBodySize     = 4 << 20
	shutdownTimeout = 5 * time.Second
)

// HTTPHandler serves JSON-RPC on POST path, session termination on DELETE
// path and a liveness probe on GET /health.
func (s *Server) HTTPHandler(path string) http.Handler {
	h := &httpHandler{server: s, sessions: make(map[string]time.Time)}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, []byte(`{"status":"ok"}`))
	})
	mux.HandleFunc("POST "+path, h.post)
	mux.HandleFunc("DELETE "+path, h.delete)
	return mux
}

type httpHandler struct {
	server *Server

	mu       sync.Mutex
	sessions map[string]time.Time
}

func (h *httpHandler) post(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		http.Error(w, "request body too large or unreadable", http.StatusRequestEntityTooLarge)
		return
	}

	resp, info := h.server.handle(r.Context(), body)
	if resp == nil {
		w.WriteHeader(http.StatusAccepted)
		return
	}

	if info.Method == "initialize" && info.OK {
		id := uuid.NewString()
		h.mu.Lock()
		h.sessions[id] = time.Now()
		h.mu.Unlock()
		w.Header().Set(SessionHeader, id)
		h.server.log.Debug("session opened", zap.String("session", id))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *httpHandler) delete(w http.ResponseWriter, r *http.Request) {
	id := r.Header.Get(SessionHeader)
	h.mu.Lock()
	_, ok := h.sessions[id]
	delete(h.sessions, id)
	h.mu.Unlock()

	if !ok {
		http.Error(w, "unknown session", http.StatusNotFound)
		return
	}
	h.server.log.Debug("session closed", zap.String("session", id))
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

// ListenAndServeHTTP listens on addr and serves until ctx is cancelled.
func (s *Server) ListenAndServeHTTP(ctx context.Context, addr, path string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	return s.ServeListener(ctx, ln, path)
}

// ServeListener serves on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener, path string) error {
	srv := &http.Server{
		Handler:           s.HTTPHandler(path),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(ln)
	}()
	s.log.Info("http transport listening",
		zap.String("url", fmt.Sprintf("http://%s%s", ln.Addr(), path)))

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving http: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}
	<-errc
	s.log.Info("http transport stopped")
	return nil
}
