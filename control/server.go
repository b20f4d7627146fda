package control

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"camect-relay/log"

	"github.com/google/uuid"
)

const (
	maxBodyBytes    int64         = 1 << 20
	shutdownTimeout time.Duration = 3 * time.Second
)

// StatusFunc reports the relay state for GET /status.
type StatusFunc func() string

type Server struct {
	ctl    *Controller
	status StatusFunc
	mux    *http.ServeMux
}

func NewServer(ctl *Controller, status StatusFunc) *Server {
	s := &Server{ctl: ctl, status: status, mux: http.NewServeMux()}

	s.mux.HandleFunc("GET /arm", s.actionHandler(ctl.Arm))
	s.mux.HandleFunc("GET /disarm", s.actionHandler(ctl.Disarm))
	s.mux.HandleFunc("GET /health", s.healthHandler)
	s.mux.HandleFunc("GET /status", s.statusHandler)
	s.mux.HandleFunc("GET /", s.getHandler)
	s.mux.HandleFunc("POST /", s.postHandler)

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe serves until ctx is cancelled, then drains in-flight
// requests for a few seconds.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Infof("Starting control endpoint on %s", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Infoln("Stopping control endpoint...")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func writeText(w http.ResponseWriter, code int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	io.WriteString(w, body)
}

func (s *Server) actionHandler(action func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := log.With("request", uuid.NewString(), "path", r.URL.Path)
		l.Infof("GET request from %s", r.RemoteAddr)

		// A client hanging up must not leave the rule pair half applied;
		// the VMS calls are still bounded by their own timeout.
		if err := action(context.WithoutCancel(r.Context())); err != nil {
			l.Errorf("Action failed: %v", err)
			writeText(w, http.StatusBadGateway, err.Error())
			return
		}
		writeText(w, http.StatusOK, fmt.Sprintf("GET request for %s", r.URL.Path))
	}
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeText(w, http.StatusOK, "ok")
}

func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	state := "unknown"
	if s.status != nil {
		state = s.status()
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"relay": state})
}

func (s *Server) getHandler(w http.ResponseWriter, r *http.Request) {
	log.Infof("GET request, Path: %s, Headers: %v", r.URL.RequestURI(), r.Header)
	writeText(w, http.StatusOK, fmt.Sprintf("GET request for %s", r.URL.RequestURI()))
}

func (s *Server) postHandler(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		log.Warnf("POST request for %s: %v", r.URL.Path, err)
		writeText(w, http.StatusRequestEntityTooLarge, err.Error())
		return
	}
	log.Infof("POST request, Path: %s, Headers: %v, Body: %s", r.URL.RequestURI(), r.Header, body)
	writeText(w, http.StatusOK, fmt.Sprintf("POST request for %s", r.URL.RequestURI()))
}
