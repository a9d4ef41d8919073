package workers

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"google.golang.org/grpc"
)

// listenerAddr remembers the bound address, useful when listening on port 0.
type listenerAddr struct {
	mu   sync.RWMutex
	addr string
}

func (l *listenerAddr) set(addr net.Addr) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.addr = addr.String()
}

// Addr returns the address the server is bound to, empty until it listens.
func (l *listenerAddr) Addr() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.addr
}

// HttpServerWorker serves an HTTP handler until its context is cancelled,
// then shuts the server down gracefully.
type HttpServerWorker struct {
	listenerAddr
	log             *slog.Logger
	address         string
	handler         http.Handler
	shutdownTimeout time.Duration
}

func NewHttpServerWorker(log *slog.Logger, address string, handler http.Handler, shutdownTimeout time.Duration) *HttpServerWorker {
	return &HttpServerWorker{log: log, address: address, handler: handler, shutdownTimeout: shutdownTimeout}
}

func (w *HttpServerWorker) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", w.address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", w.address, err)
	}
	w.set(listener.Addr())

	server := &http.Server{Handler: w.handler, ReadHeaderTimeout: 5 * time.Second}
	errChan := make(chan error, 1)
	go func() {
		w.log.Info("Starting HTTP server", "address", listener.Addr().String(), "at", time.Now().UTC())
		errChan <- server.Serve(listener)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), w.shutdownTimeout)
		defer cancel()
		w.log.Info("Shutting down HTTP server")
		if err = server.Shutdown(shutdownCtx); err != nil {
			// Requests still running past the timeout are cut off.
			w.log.Warn("HTTP shutdown timed out, closing open connections", "error", err)
			if closeErr := server.Close(); closeErr != nil {
				w.log.Warn("Closing HTTP server failed", "error", closeErr)
			}
			return fmt.Errorf("HTTP shutdown: %w", err)
		}
		return nil
	case err = <-errChan:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("HTTP server error: %w", err)
	}
}

// GrpcServerWorker builds a fresh gRPC server on every run, since a stopped
// grpc.Server cannot serve again.
type GrpcServerWorker struct {
	listenerAddr
	log             *slog.Logger
	address         string
	newServer       func() *grpc.Server
	shutdownTimeout time.Duration
}

func NewGrpcServerWorker(log *slog.Logger, address string, newServer func() *grpc.Server, shutdownTimeout time.Duration) *GrpcServerWorker {
	return &GrpcServerWorker{log: log, address: address, newServer: newServer, shutdownTimeout: shutdownTimeout}
}

func (w *GrpcServerWorker) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", w.address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", w.address, err)
	}
	w.set(listener.Addr())

	s := w.newServer()
	errChan := make(chan error, 1)
	go func() {
		w.log.Info("Starting gRPC server", "address", listener.Addr().String(), "at", time.Now().UTC())
		for serviceName := range s.GetServiceInfo() {
			w.log.Debug("gRPC exposed services", "name", serviceName)
		}
		errChan <- s.Serve(listener)
	}()

	select {
	case <-ctx.Done():
		w.log.Info("Shutting down gRPC server")
		stopped := make(chan struct{})
		go func() {
			s.GracefulStop()
			close(stopped)
		}()
		select {
		case <-stopped:
		case <-time.After(w.shutdownTimeout):
			w.log.Warn("Graceful stop timed out, forcing", "timeout", w.shutdownTimeout)
			s.Stop()
		}
		return nil
	case err = <-errChan:
		if err == nil || stderrors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return fmt.Errorf("gRPC server error: %w", err)
	}
}
