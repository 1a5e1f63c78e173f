package telegram

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gotd/td/session"
)

// sessionRepo — операции с таблицей account_session, нужные хранилищу сессии.
type sessionRepo interface {
	LoadSession(ctx context.Context, name string) ([]byte, error)
	StoreSession(ctx context.Context, name string, data []byte) error
}

// DBSessionStorage хранит и загружает сессию Telegram из таблицы account_session.
type DBSessionStorage struct {
	DB   sessionRepo
	Name string
}

// LoadSession загружает данные сессии из БД.
func (s *DBSessionStorage) LoadSession(ctx context.Context) ([]byte, error) {
	if s == nil || s.DB == nil {
		return nil, session.ErrNotFound
	}
	data, err := s.DB.LoadSession(ctx, s.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, session.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// StoreSession сохраняет данные сессии в БД.
func (s *DBSessionStorage) StoreSession(ctx context.Context, data []byte) error {
	if s == nil || s.DB == nil {
		return session.ErrNotFound
	}
	return s.DB.StoreSession(ctx, s.Name, data)
}
