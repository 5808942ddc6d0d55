package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	v1 "github.com/Xunop/e-library/internal/api/v1"
	"github.com/Xunop/e-library/internal/config"
	"github.com/Xunop/e-library/internal/log"
	"github.com/Xunop/e-library/internal/middleware"
	"github.com/Xunop/e-library/internal/version"
)

// StartServer builds the routes and serves them in the background.
func StartServer(ctx context.Context, handler *v1.Handler, pinger Pinger) (*http.Server, error) {
	router, err := setupHandler(ctx, handler, pinger)
	if err != nil {
		return nil, err
	}
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", config.Opts.Host, config.Opts.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	startHTTPServer(server)

	return server, nil
}

func startHTTPServer(server *http.Server) {
	go func() {
		log.Info("Starting HTTP server", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()
}

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping() error
}

func setupHandler(ctx context.Context, handler *v1.Handler, pinger Pinger) (http.Handler, error) {
	router := mux.NewRouter()
	router.Use(middleware.Compress)

	if err := v1.Serve(ctx, router, handler); err != nil {
		return nil, errors.Wrap(err, "failed to set up api routes")
	}

	router.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if err := pinger.Ping(); err != nil {
			log.Error("Database ping failed", zap.Error(err))
			http.Error(w, "Database Connection Error", http.StatusInternalServerError)
			return
		}

		w.Write([]byte("OK"))
	}).Name("healthcheck")

	router.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(version.GetCurrentVersion()))
	}).Name("version")

	return router, nil
}
