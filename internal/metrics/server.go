package metrics

import (
	"context"
	"net"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server exposes a Registry's collectors on /metrics for scraping.
type Server struct {
	http *http.Server
	ln   net.Listener
}

// Serve starts an HTTP server bound to addr exposing reg's collectors at
// /metrics, returning once the listener is bound. Call Shutdown to stop it.
func Serve(addr string, reg *prometheus.Registry) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	srv := &http.Server{Handler: mux}
	s := &Server{http: srv, ln: ln}

	go srv.Serve(ln) //nolint:errcheck // Shutdown's context cancellation is the expected exit path

	return s, nil
}

// Addr returns the bound listener address, useful when Serve was given port 0.
func (s *Server) Addr() string {
	return s.ln.Addr().String()
}

// Shutdown gracefully stops the server, waiting for ctx or in-flight scrapes.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
