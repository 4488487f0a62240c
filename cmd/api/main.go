package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/wardenproject/warden/internal/config"
	"github.com/wardenproject/warden/internal/database"
	"github.com/wardenproject/warden/internal/logger"
	"github.com/wardenproject/warden/internal/server"
	"github.com/wardenproject/warden/internal/services"
	"github.com/wardenproject/warden/internal/version"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init(false, os.Stderr)
		logger.Log().WithError(err).Fatal("load config")
	}

	// Log to stdout and a rotated file next to the database.
	logDir := filepath.Join(filepath.Dir(cfg.DatabasePath), "logs")
	_ = os.MkdirAll(logDir, 0o755)
	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, "warden.log"),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
	logger.Init(cfg.Environment == "development", io.MultiWriter(os.Stdout, rotator))

	logger.WithFields(map[string]interface{}{
		"version": version.Full(),
		"port":    cfg.HTTPPort,
	}).Infof("starting %s", version.Name)

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		logger.Log().WithError(err).Fatal("open database")
	}

	notify := services.NewNotificationService(cfg.NotifyURLs)

	srv, err := server.New(db, cfg, notify)
	if err != nil {
		logger.Log().WithError(err).Fatal("build server")
	}

	alarms := services.NewAlarmService(db, notify)
	if err := alarms.Start(cfg.AlarmPollSpec); err != nil {
		logger.Log().WithError(err).Fatal("start alarm poller")
	}
	defer alarms.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		logger.Log().WithError(err).Fatal("server error")
	}

	logger.Log().Info("shutdown complete")
}
