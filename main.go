package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"atg_sender/internal/config"
	"atg_sender/internal/logging"
	"atg_sender/internal/shell"
	"atg_sender/internal/status"
	"atg_sender/pkg/storage"

	"github.com/fatih/color"
	"go.uber.org/zap"
)

// interruptGrace — сколько ждать штатного завершения меню после сигнала.
// Чтение stdin контекстом не прерывается, поэтому дальше процесс завершается принудительно.
const interruptGrace = 3 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	cfg := config.Load()

	logger, err := logging.New(logging.Options{Dir: cfg.LogDir, Level: cfg.LogLevel, Console: cfg.LogConsole})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logging: %v\n", err)
		return 1
	}
	defer logger.Close()
	log := logger.Logger
	log.Info("Запуск приложения", zap.String("log_file", logger.Path))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-done:
			return
		case <-ctx.Done():
		}
		log.Info("Получен сигнал завершения")
		select {
		case <-done:
		case <-time.After(interruptGrace):
			color.New(color.FgYellow).Fprintln(os.Stdout, "\n⚠ Application terminated by user")
			log.Info("Приложение остановлено пользователем")
			_ = logger.Close()
			os.Exit(130)
		}
	}()

	deps := shell.Deps{
		Config:      cfg,
		Credentials: storage.NewCredentialStore(cfg.CredentialsFile(), log),
		Settings:    storage.NewSettingsStore(cfg.SettingsFile(), log),
		Sessions:    storage.FileSessions{Dir: cfg.SessionDir},
		Log:         log,
	}

	if cfg.DatabaseURL != "" {
		db, err := storage.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			logging.Critical(log, "Не удалось подключиться к базе данных", zap.Error(err))
			fmt.Fprintf(os.Stderr, "Database connection failed: %v\n", err)
			return 1
		}
		defer db.Close()
		if err := db.EnsureSchema(ctx); err != nil {
			logging.Critical(log, "Не удалось подготовить схему базы данных", zap.Error(err))
			fmt.Fprintf(os.Stderr, "Database schema setup failed: %v\n", err)
			return 1
		}
		deps.DB = db
		deps.Sessions = storage.DBSessions{DB: db}
		log.Info("Сессии хранятся в базе данных")
	}

	if cfg.StatusAddr != "" {
		state := status.NewState()
		deps.Status = state
		router := status.SetupRouter(state, cfg.StatusToken)
		go func() {
			if err := status.Serve(ctx, cfg.StatusAddr, router, log.Named("status")); err != nil {
				log.Error("Сервер статуса завершился с ошибкой", zap.Error(err))
			}
		}()
	}

	con := shell.NewConsole(os.Stdin, os.Stdout)
	welcome(shell.NewUI(os.Stdout), con, logger.Path)

	sh := shell.New(deps, con, os.Stdout)
	if err := sh.Run(ctx); err != nil {
		if ctx.Err() != nil {
			color.New(color.FgYellow).Fprintln(os.Stdout, "\n⚠ Application terminated by user")
			log.Info("Приложение остановлено пользователем")
			return 130
		}
		logging.Critical(log, "Фатальная ошибка", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		return 1
	}
	log.Info("Приложение завершено")
	return 0
}

func welcome(ui *shell.UI, con *shell.Console, logPath string) {
	ui.Header("WELCOME")
	ui.Info("Telegram Automation Tool")
	ui.Info("Forward your latest Saved Messages item to groups and channels")
	ui.Info("Logs will be saved to %s", logPath)
	ui.Footer()
	con.Pause()
}
