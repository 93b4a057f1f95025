package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"userbot/internal/app"
	"userbot/internal/config"
	"userbot/internal/domain"
	"userbot/internal/driver"
	"userbot/internal/handler"
	"userbot/internal/middleware"
	"userbot/internal/mtproto"
	"userbot/internal/notify"
	"userbot/internal/prompt"
	"userbot/internal/service"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	envFile := pflag.String("env-file", "", "read configuration from this file instead of .env")
	sessionPath := pflag.String("session", "", "session file path (file backend)")
	proxyURL := pflag.String("proxy", "", "proxy URL, e.g. socks5://127.0.0.1:1086")
	logLevel := pflag.String("log-level", "", "log level: debug, info, warn, error")
	pflag.Parse()

	var envFiles []string
	if *envFile != "" {
		envFiles = append(envFiles, *envFile)
	}

	// Load configuration
	cfg, err := config.Load(envFiles...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *sessionPath != "" {
		cfg.Session.Path = *sessionPath
	}
	if *proxyURL != "" {
		cfg.ProxyURL = *proxyURL
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	// Initialize logger
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting userbot", zap.String("session_backend", cfg.Session.Backend))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Userbot stopped", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		logger.Sync()
		os.Exit(1)
	}

	logger.Info("Userbot stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	repo, closeRepo, err := openSessionRepo(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeRepo()

	reporter, err := newReporter(cfg, logger)
	if err != nil {
		return err
	}

	err = app.Run(ctx, app.Deps{
		Store: service.NewSessionStore(repo, logger),
		Connect: func(ctx context.Context, session *domain.Session) (driver.Conn, error) {
			conn, err := mtproto.Dial(ctx, mtproto.Options{
				APIID:    cfg.APIID,
				APIHash:  cfg.APIHash,
				ProxyURL: cfg.ProxyURL,
			}, session, logger)
			if err != nil {
				return nil, err
			}
			return conn, nil
		},
		Prompter: prompt.NewConsole(os.Stdin, os.Stdout),
		Reporter: reporter,
		APIID:    cfg.APIID,
		APIHash:  cfg.APIHash,
		Middleware: []handler.MiddlewareFunc{
			middleware.Recover(logger),
			middleware.Logging(logger),
		},
		Logger: logger,
	})

	// interrupted before the event loop started, e.g. at a prompt
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		logger.Info("Interrupted")
		return nil
	}
	return err
}

// newLogger builds a production logger at the given level
func newLogger(level string) (*zap.Logger, error) {
	atomicLevel, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = atomicLevel
	return zcfg.Build()
}

// newReporter picks the lookup reporter
func newReporter(cfg *config.Config, logger *zap.Logger) (handler.Reporter, error) {
	if cfg.Notify.BotToken == "" {
		return notify.Nop{}, nil
	}

	reporter, err := notify.NewTelegram(cfg.Notify.BotToken, cfg.Notify.ChatID, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("Lookup reports enabled", zap.Int64("chat_id", cfg.Notify.ChatID))
	return reporter, nil
}
