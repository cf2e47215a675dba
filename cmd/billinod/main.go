package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"billino/internal/config"
	"billino/internal/db"
	api "billino/internal/http"
	"billino/internal/logging"

	"github.com/gin-gonic/gin"
)

func main() {
	env := config.LoadEnv()
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	log := logging.New(env.Debug)
	logging.SetRoot(log)
	log = log.Named("billinod")

	sqlDB, err := config.ConnectDB(env.DBDSN)
	if err != nil {
		log.Error("database connection failed", "err", err)
		os.Exit(1)
	}
	defer config.CloseDB()

	if err := db.Migrate(sqlDB); err != nil {
		log.Error("migrations failed", "err", err)
		os.Exit(1)
	}

	r := api.NewRouter(env, log)

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("server listening", "addr", env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown failed", "err", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
