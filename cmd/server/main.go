package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"kgeyst.com/nltagger/pkg/common"
	"kgeyst.com/nltagger/pkg/nltagger/api"
	"kgeyst.com/nltagger/pkg/nltagger/server"
)

// ConfigKeyServerAddress where the web UI listens
const ConfigKeyServerAddress = "serverAddress"

func main() {
	err := mainImpl()
	if err != nil {
		panic(err)
	}
}

func mainImpl() error {
	_ = godotenv.Load()
	config, err := common.LoadConfigOrDefault("config.yaml")
	if err != nil {
		return err
	}
	logger := common.NewConsoleLogger(os.Stderr)
	tagger, err := api.NewAPI(config)
	if err != nil {
		return err
	}
	httpServer := &http.Server{
		Addr:              config.GetStringOrDefault(ConfigKeyServerAddress, "127.0.0.1:7860"),
		Handler:           server.NewRouter(tagger, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.LogFields("listening", common.Fields{"address": httpServer.Addr})
		err := httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.LogError("server stopped", err)
		}
	}()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpServer.Shutdown(ctx)
}
