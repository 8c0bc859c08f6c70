// Package server owns the process's HTTP listener and its route table.
package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// Server serves the API over h2c so http2 clients work without TLS in
// local setups. Start blocks until Shutdown or a listener error.
type Server struct {
	addr string
	srv  *http.Server
}

func New(addr string, h http.Handler) *Server {
	return &Server{
		addr: addr,
		srv: &http.Server{
			Addr:              addr,
			Handler:           h2c.NewHandler(h, &http2.Server{}),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Addr returns the listen address the server was built with.
func (s *Server) Addr() string { return s.addr }

func (s *Server) Start() error {
	log.Printf("Serving API on %s", s.addr)
	err := s.srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
