// Package main is the entry point for the room relay server. It accepts
// tray clients, groups them by room code, resolves notation rolls, and
// broadcasts the results.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Faultbox/dice-arena/internal/config"
	"github.com/Faultbox/dice-arena/internal/logger"
	"github.com/Faultbox/dice-arena/internal/room"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	srv, err := room.NewServer(nil)
	if err != nil {
		logger.Error("failed to create server", zap.Error(err))
		os.Exit(1)
	}

	addr, err := srv.Listen(cfg.Network.Server)
	if err != nil {
		logger.Error("failed to listen", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("room server listening", zap.String("addr", addr.String()))

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-stop
		logger.Info("shutting down")
		srv.Close()
	}()

	if err := srv.Serve(); err != nil {
		logger.Info("server stopped", zap.Error(err))
	}
}
