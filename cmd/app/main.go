package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bakery/cmd"
	bakeryhttp "bakery/internal/adapters/in/http"
	"bakery/internal/core/domain/model/kernel"
	"bakery/internal/core/ports"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 15 * time.Second

func main() {
	issueFor := flag.String("issue-token", "", "print a session token for the given user id and exit")
	email := flag.String("email", "", "email stored in the issued token")
	flag.Parse()

	configs, err := cmd.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := newLogger(configs)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := cmd.NewCompositionRoot(ctx, configs, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to start")
	}
	defer func() {
		if closeErr := app.Close(); closeErr != nil {
			logger.WithError(closeErr).Error("failed to close connections")
		}
	}()

	if *issueFor != "" {
		if err = issueToken(ctx, app, configs, *issueFor, *email); err != nil {
			logger.WithError(err).Error("failed to issue token")
		}
		return
	}

	startWebServer(ctx, app, configs, logger)
}

func newLogger(configs cmd.Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	logger.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(configs.LogLevel)
	if err != nil {
		logger.WithField("level", configs.LogLevel).Warn("unknown log level, using info")
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// issueToken signs a session for an existing identity, for local use where no
// identity provider front end is running.
func issueToken(ctx context.Context, app *cmd.CompositionRoot, configs cmd.Config, rawID, email string) error {
	id, err := kernel.UUIDFromString(rawID)
	if err != nil {
		return err
	}

	token, err := app.Sessions().Issue(ctx, ports.Identity{ID: id, Email: email}, configs.SessionTTL)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}

func startWebServer(ctx context.Context, app *cmd.CompositionRoot, configs cmd.Config, logger *logrus.Logger) {
	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(echoLevel(logger.GetLevel()))

	if len(configs.CORSAllowedOrigins) > 0 {
		e.Use(bakeryhttp.CORS(configs.CORSAllowedOrigins))
	}
	app.CreateHTTPServer().Register(e)

	go func() {
		address := fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort)
		logger.WithField("address", address).Info("http server listening")
		if err := e.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("http server stopped")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("http server shutdown failed")
	}
}

func echoLevel(level logrus.Level) log.Lvl {
	switch level { //nolint:exhaustive // finer logrus levels collapse onto echo's
	case logrus.DebugLevel, logrus.TraceLevel:
		return log.DEBUG
	case logrus.WarnLevel:
		return log.WARN
	case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
		return log.ERROR
	default:
		return log.INFO
	}
}
