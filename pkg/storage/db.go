package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// DB хранит сессии Telegram в Postgres, когда задан DATABASE_URL.
type DB struct {
	Conn *sql.DB
}

func NewDB(conn *sql.DB) *DB {
	return &DB{Conn: conn}
}

// Open подключается к Postgres и проверяет соединение.
func Open(ctx context.Context, url string) (*DB, error) {
	conn, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("database ping: %w", err)
	}
	return NewDB(conn), nil
}

// EnsureSchema создаёт таблицу сессий, если её ещё нет.
func (db *DB) EnsureSchema(ctx context.Context) error {
	_, err := db.Conn.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS account_session (
			session_name TEXT PRIMARY KEY,
			data_json    TEXT NOT NULL,
			date_time    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	return err
}

// LoadSession возвращает данные сессии или sql.ErrNoRows, если сессии нет.
func (db *DB) LoadSession(ctx context.Context, name string) ([]byte, error) {
	var data string
	// На одно имя сессии приходится не больше одной записи
	err := db.Conn.QueryRowContext(ctx, "SELECT data_json FROM account_session WHERE session_name = $1", name).Scan(&data)
	if err != nil {
		return nil, err
	}
	return []byte(data), nil
}

// StoreSession сохраняет данные сессии, обновляя существующую запись.
func (db *DB) StoreSession(ctx context.Context, name string, data []byte) error {
	_, err := db.Conn.ExecContext(
		ctx,
		"INSERT INTO account_session (session_name, data_json) VALUES ($1, $2) "+
			"ON CONFLICT (session_name) DO UPDATE SET data_json = EXCLUDED.data_json, date_time = NOW()",
		name,
		string(data),
	)
	return err
}

// ListSessions возвращает имена сохранённых сессий по алфавиту.
func (db *DB) ListSessions(ctx context.Context) ([]string, error) {
	rows, err := db.Conn.QueryContext(ctx, "SELECT session_name FROM account_session ORDER BY session_name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Close закрывает соединение с БД.
func (db *DB) Close() error {
	return db.Conn.Close()
}
