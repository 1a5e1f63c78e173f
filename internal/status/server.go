// Package status отдаёт состояние программы по HTTP, если задан STATUS_ADDR.
package status

import (
	"context"
	"errors"
	"net/http"
	"time"

	"atg_sender/internal/httputil"
	"atg_sender/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

// SetupRouter регистрирует маршруты статуса. /health открыт всегда,
// /status закрыт токеном, если он задан.
func SetupRouter(state *State, token string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		httputil.RespondOK(c, gin.H{"status": "ok"})
	})

	protected := r.Group("/")
	protected.Use(middleware.AuthRequired(token))
	protected.GET("/status", func(c *gin.Context) {
		httputil.RespondOK(c, state.Snapshot())
	})

	r.NoRoute(func(c *gin.Context) {
		httputil.RespondError(c, http.StatusNotFound, "not found")
	})
	return r
}

// Serve запускает HTTP-сервер и останавливает его при отмене ctx.
func Serve(ctx context.Context, addr string, handler http.Handler, log *zap.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Сервер статуса запущен", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn("Сервер статуса остановлен с ошибкой", zap.Error(err))
			return err
		}
		log.Info("Сервер статуса остановлен")
		return nil
	}
}
