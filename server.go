package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/example/xray-analyzer/internal/grpchealth"
)

// serveWithOptions runs the HTTP server and the gRPC health server until a
// shutdown signal arrives, ctx is cancelled, or either server fails. A nil
// signalCh subscribes to SIGINT and SIGTERM.
func serveWithOptions(ctx context.Context, server *http.Server, httpListener net.Listener, health *grpchealth.Server, grpcListener net.Listener, shutdownTimeout time.Duration, logger *zap.Logger, signalCh <-chan os.Signal) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		return serveHTTPServerWithOptions(gctx, server, shutdownTimeout, logger, httpListener, signalCh)
	})

	g.Go(func() error {
		errCh := make(chan error, 1)
		go func() {
			errCh <- health.Serve(grpcListener)
		}()

		select {
		case err := <-errCh:
			return err
		case <-gctx.Done():
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer shutdownCancel()
			health.Shutdown(shutdownCtx)
			return <-errCh
		}
	})

	return g.Wait()
}

func serveHTTPServerWithOptions(ctx context.Context, server *http.Server, shutdownTimeout time.Duration, logger *zap.Logger, listener net.Listener, signalCh <-chan os.Signal) error {
	errCh := make(chan error, 1)
	go func() {
		var err error
		if listener != nil {
			err = server.Serve(listener)
		} else {
			err = server.ListenAndServe()
		}
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		errCh <- err
	}()

	var (
		sigCh       <-chan os.Signal
		stopSignals func()
	)

	if signalCh != nil {
		sigCh = signalCh
		stopSignals = func() {}
	} else {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
		sigCh = ch
		stopSignals = func() {
			signal.Stop(ch)
		}
	}
	defer stopSignals()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("shutting down HTTP server", zap.Error(context.Cause(ctx)))
		return shutdownHTTPServer(server, shutdownTimeout, errCh)
	case sig, ok := <-sigCh:
		if !ok {
			return <-errCh
		}
		logger.Info("received shutdown signal", zap.String("signal", sig.String()))
		return shutdownHTTPServer(server, shutdownTimeout, errCh)
	}
}

func shutdownHTTPServer(server *http.Server, shutdownTimeout time.Duration, errCh <-chan error) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return <-errCh
}
