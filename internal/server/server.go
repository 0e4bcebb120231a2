// Copyright 2026 Alex Martinez
// Licensed under the EUPL-1.2

// Package server wires configuration, storage, services and HTTP routes
// together and runs the echo server.
package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/urfave/cli/v3"

	"github.com/akmartinez/corkboard/internal/config"
	"github.com/akmartinez/corkboard/internal/database"
	"github.com/akmartinez/corkboard/internal/handlers"
	"github.com/akmartinez/corkboard/internal/i18n"
	"github.com/akmartinez/corkboard/internal/repository"
	"github.com/akmartinez/corkboard/internal/services/auth"
	"github.com/akmartinez/corkboard/internal/services/email"
	"github.com/akmartinez/corkboard/internal/services/session"
)

// Run starts the server with the given CLI command.
func Run(ctx context.Context, cmd *cli.Command) error {
	cfg := config.NewFromCLI(cmd)
	setupLogger(cfg.Log.Level, cfg.Log.Format)

	slog.Info("starting server",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"base_url", cfg.Server.BaseURL,
	)

	// Database (migrations run on open)
	db, err := database.Open(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("failed to close database", "error", closeErr)
		}
	}()

	// i18n
	if initErr := i18n.Init(); initErr != nil {
		return fmt.Errorf("failed to init i18n: %w", initErr)
	}

	// Repository and services, injected from here down. No globals.
	repo := repository.New(db)
	authService := auth.NewService(repo)

	secure := !config.IsLocalhost(cfg.Server.Host)
	sessions := session.NewManager(repo, &cfg.Session, secure)

	var mailer *email.Service
	if cfg.SMTP.Host != "" {
		mailer, err = email.NewService(&cfg.SMTP, cfg.Server.BaseURL)
		if err != nil {
			return fmt.Errorf("failed to configure email: %w", err)
		}
	} else {
		slog.Info("outgoing email disabled")
	}

	// Echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler()

	setupMiddleware(e, cfg, sessions)
	setupRoutes(e, repo, authService, sessions, mailer)

	return startWithGracefulShutdown(e, cfg)
}

func setupRoutes(e *echo.Echo, repo *repository.Repository, authService *auth.Service, sessions *session.Manager, mailer *email.Service) {
	h := handlers.New(repo)
	authHandler := handlers.NewAuth(authService, sessions, mailer)
	messageHandler := handlers.NewMessages(repo)

	// Static files
	e.Static("/static", "static")

	e.GET("/health", h.Health)
	e.GET("/", h.Home)

	a := e.Group("/auth")
	a.POST("/register", authHandler.Register)
	a.POST("/login", authHandler.Login)
	a.POST("/logout", authHandler.Logout)

	e.GET("/messages", messageHandler.List)
	e.POST("/messages", messageHandler.Create)
}

// errorHandler is the single global fallback. Expected HTTP errors pass
// through with their status; everything else (storage and other
// infrastructure failures) is logged with its cause and reported to the
// client as a generic message only.
func errorHandler() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			_ = c.JSON(httpErr.Code, map[string]any{"error": httpErr.Message})
			return
		}

		slog.Error("internal_error", "method", c.Request().Method, "uri", c.Request().RequestURI, "error", err)
		_ = c.JSON(http.StatusInternalServerError, map[string]string{
			"error": i18n.T(c.Request().Context(), "error_internal"),
		})
	}
}

func startWithGracefulShutdown(e *echo.Echo, cfg *config.Config) error {
	tlsResult, err := SetupTLS(cfg)
	if err != nil {
		return fmt.Errorf("TLS setup failed: %w", err)
	}

	errChan := make(chan error, 2)

	// HTTP challenge/redirect server for ACME mode
	var httpServer *http.Server

	switch tlsResult.Mode {
	case TLSModeOff:
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		go func() {
			slog.Info("server running", "url", cfg.Server.BaseURL)
			if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errChan <- err
			}
		}()

	case TLSModeACME:
		go func() {
			slog.Info("server running", "url", cfg.Server.BaseURL)
			if err := startTLSServer(e, ":443", tlsResult.TLSConfig); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errChan <- err
			}
		}()

		httpServer = &http.Server{
			Addr:              ":80",
			Handler:           tlsResult.HTTPHandler,
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errChan <- err
			}
		}()

	case TLSModeSelfSigned, TLSModeManual:
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		go func() {
			slog.Info("server running", "url", cfg.Server.BaseURL)
			if err := startTLSServer(e, addr, tlsResult.TLSConfig); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errChan <- err
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		slog.Info("shutting down server")
	case err := <-errChan:
		slog.Error("server error", "error", err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shutdown server", "error", err)
	}
	if httpServer != nil {
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shutdown HTTP challenge server", "error", err)
		}
	}

	slog.Info("server stopped")
	return nil
}

// startTLSServer starts the echo server with a custom TLS configuration.
func startTLSServer(e *echo.Echo, addr string, tlsConfig *tls.Config) error {
	lc := &net.ListenConfig{}
	ln, err := lc.Listen(context.Background(), "tcp", addr)
	if err != nil {
		return err
	}
	e.TLSListener = tls.NewListener(ln, tlsConfig)
	e.TLSServer.TLSConfig = tlsConfig
	return e.Server.Serve(e.TLSListener)
}
