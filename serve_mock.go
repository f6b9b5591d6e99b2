package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/breakly/api-smoke-tests/mockservice"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

func newServeMockCommand(logger *logrus.Logger) *cobra.Command {
	var (
		host    string
		port    int
		verbose bool
	)
	cmd := &cobra.Command{
		Use:   "serve-mock",
		Short: "Serve a local stand-in for the API, for trying out the smoke tests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if verbose {
				logger.SetLevel(logrus.DebugLevel)
			}
			svc := mockservice.New(mockservice.WithLogger(logger))
			return serve(cmd.Context(), net.JoinHostPort(host, fmt.Sprint(port)), svc.Router(), logger)
		},
	}
	cmd.Flags().StringVar(&host, "host", "localhost", "interface to listen on")
	cmd.Flags().IntVar(&port, "port", 3000, "port to listen on")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "log every request")
	return cmd
}

func serve(ctx context.Context, addr string, handler http.Handler, logger *logrus.Logger) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithField("addr", addr).Info("Mock service listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down mock service")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
