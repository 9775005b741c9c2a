package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "storefront/docs"
	"storefront/pkg/app"
	"storefront/pkg/config"
	"storefront/pkg/web"
)

// @title Storefront BFF
// @version 1.0
// @description Session-scoped storefront API: catalogue, cart, checkout and account.
// @host localhost:8443
// @BasePath /
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		os.Stderr.WriteString("storefront: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}

	a, err := app.New(ctx, cfg, os.Stdout)
	if err != nil {
		return err
	}
	defer a.Close(context.Background())
	log := a.Log

	srv := web.New(web.Config{
		Backend:      a.API,
		Store:        a.Store,
		Lookup:       a.Address,
		Publisher:    a.Publisher,
		Logger:       log,
		Tracer:       a.Tracer,
		SessionTTL:   cfg.SessionTTL(),
		SecureCookie: cfg.TLS() || cfg.HTTP.SecureCookie,
	})
	go srv.RunSweeper(ctx, time.Minute)

	httpSrv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info(ctx, "listening", "addr", cfg.HTTP.Addr, "tls", cfg.TLS())
		if cfg.TLS() {
			errc <- httpSrv.ListenAndServeTLS(cfg.HTTP.TLSCert, cfg.HTTP.TLSKey)
			return
		}
		errc <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "server closed", "error", err)
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info(shutdownCtx, "shutting down")
	return httpSrv.Shutdown(shutdownCtx)
}
