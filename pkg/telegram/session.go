package telegram

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gotd/td/telegram"
	"github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/tg"
	"go.uber.org/zap"
)

var (
	// ErrNotAuthorized — сессия не авторизована, а интерактивный вход не разрешён.
	ErrNotAuthorized = errors.New("user not authorized")
	// ErrUnknownChat — чат не найден среди диалогов аккаунта.
	ErrUnknownChat = errors.New("chat not found among account dialogs")
	errClientStopped = errors.New("telegram client stopped unexpectedly")
)

// Session — подключённый и авторизованный клиент Telegram.
// Соединение живёт в фоновой горутине до вызова Close. Методы Session
// рассчитаны на вызов из одной горутины.
type Session struct {
	Name string

	client *telegram.Client
	api    *tg.Client
	self   *tg.User
	log    *zap.Logger

	cancel context.CancelFunc
	done   chan error
	once   sync.Once

	// peers хранит InputPeer чатов из последнего списка диалогов, ключ — маркированный ID.
	peers map[int64]tg.InputPeerClass
}

// Connect запускает клиент и ждёт, пока он подключится и авторизуется.
// Если сессия не авторизована и authenticator задан, выполняется вход по
// телефону и коду; без authenticator возвращается ErrNotAuthorized.
func Connect(ctx context.Context, name string, client *telegram.Client, authenticator auth.UserAuthenticator, log *zap.Logger) (*Session, error) {
	if log == nil {
		log = zap.NewNop()
	}
	runCtx, cancel := context.WithCancel(ctx)
	s := &Session{
		Name:   name,
		client: client,
		api:    client.API(),
		log:    log.Named("session").With(zap.String("session", name)),
		cancel: cancel,
		done:   make(chan error, 1),
		peers:  make(map[int64]tg.InputPeerClass),
	}

	ready := make(chan struct{})
	go func() {
		s.done <- client.Run(runCtx, func(ctx context.Context) error {
			if err := s.authorize(ctx, authenticator); err != nil {
				return err
			}
			self, err := client.Self(ctx)
			if err != nil {
				return fmt.Errorf("get self: %w", err)
			}
			s.self = self
			close(ready)
			// Держим соединение открытым до Close
			<-ctx.Done()
			return ctx.Err()
		})
	}()

	select {
	case <-ready:
		s.log.Info("Сессия подключена", zap.Int64("user_id", s.self.ID), zap.String("username", s.self.Username))
		return s, nil
	case err := <-s.done:
		cancel()
		if err == nil {
			err = errClientStopped
		}
		return nil, err
	}
}

func (s *Session) authorize(ctx context.Context, authenticator auth.UserAuthenticator) error {
	status, err := s.client.Auth().Status(ctx)
	if err != nil {
		return fmt.Errorf("auth status: %w", err)
	}
	if status.Authorized {
		return nil
	}
	if authenticator == nil {
		return ErrNotAuthorized
	}
	s.log.Info("Сессия не авторизована, запускаем вход по коду")
	flow := auth.NewFlow(authenticator, auth.SendCodeOptions{})
	if err := s.client.Auth().IfNecessary(ctx, flow); err != nil {
		return fmt.Errorf("auth flow: %w", err)
	}
	return nil
}

// DisplayName возвращает строку вида "Имя (@username)".
func (s *Session) DisplayName() string {
	return DisplayName(s.self)
}

// DisplayName форматирует пользователя для вывода в меню.
func DisplayName(u *tg.User) string {
	if u == nil {
		return ""
	}
	name := u.FirstName
	if name == "" {
		name = u.LastName
	}
	if u.Username == "" {
		return fmt.Sprintf("%s (id %d)", name, u.ID)
	}
	return fmt.Sprintf("%s (@%s)", name, u.Username)
}

// Close отключает клиент и ждёт завершения фоновой горутины.
func (s *Session) Close() error {
	var err error
	s.once.Do(func() {
		s.cancel()
		err = <-s.done
		if errors.Is(err, context.Canceled) {
			err = nil
		}
		s.log.Info("Сессия отключена")
	})
	return err
}
