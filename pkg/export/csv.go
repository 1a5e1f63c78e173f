// Package export сохраняет список чатов в CSV.
package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"atg_sender/models"
)

// Header — первая строка выгрузки.
const Header = "ID,Name,Type"

// WriteChats пишет заголовок и по строке на чат. Имя всегда берётся в кавычки,
// внутренние кавычки удваиваются.
func WriteChats(w io.Writer, chats []models.Chat) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(Header + "\n"); err != nil {
		return err
	}
	for _, c := range chats {
		line := strconv.FormatInt(c.ID, 10) + `,"` + strings.ReplaceAll(c.Name, `"`, `""`) + `",` + string(c.Kind) + "\n"
		if _, err := bw.WriteString(line); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ToFile создаёт каталог dir при необходимости и пишет выгрузку
// в файл groups_20060102_150405.csv. Возвращает путь к файлу.
func ToFile(dir string, chats []models.Chat, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("groups_%s.csv", now.Format("20060102_150405")))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	if err := WriteChats(f, chats); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("write export file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return path, nil
}
