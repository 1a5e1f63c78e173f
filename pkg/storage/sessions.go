package storage

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SessionExt — расширение файлов сессий Telegram.
const SessionExt = ".session"

// SessionFile возвращает путь к файлу сессии с именем name.
func SessionFile(dir, name string) string {
	return filepath.Join(dir, name+SessionExt)
}

// SessionLister перечисляет известные сессии: по файлам или по записям в БД.
type SessionLister interface {
	ListSessions(ctx context.Context) ([]string, error)
	Exists(ctx context.Context, name string) (bool, error)
}

// FileSessions ищет файлы <имя>.session в каталоге Dir.
type FileSessions struct {
	Dir string
}

func (f FileSessions) ListSessions(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(f.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), SessionExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), SessionExt))
	}
	sort.Strings(names)
	return names, nil
}

func (f FileSessions) Exists(ctx context.Context, name string) (bool, error) {
	_, err := os.Stat(SessionFile(f.Dir, name))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// DBSessions перечисляет сессии, сохранённые в Postgres.
type DBSessions struct {
	DB *DB
}

func (d DBSessions) ListSessions(ctx context.Context) ([]string, error) {
	return d.DB.ListSessions(ctx)
}

func (d DBSessions) Exists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := d.DB.Conn.QueryRowContext(ctx, "SELECT EXISTS (SELECT 1 FROM account_session WHERE session_name = $1)", name).Scan(&exists)
	return exists, err
}
