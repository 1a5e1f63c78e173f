package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"atg_sender/models"

	"go.uber.org/zap"
)

// SettingsStore сохраняет паузу между сообщениями между запусками.
type SettingsStore struct {
	Path string
	log  *zap.Logger
	now  func() time.Time
}

// NewSettingsStore создаёт хранилище настроек для файла path.
func NewSettingsStore(path string, log *zap.Logger) *SettingsStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &SettingsStore{Path: path, log: log.Named("settings"), now: time.Now}
}

// Load возвращает сохранённую паузу или models.DefaultMessageDelay,
// если файла нет, он повреждён или значение меньше секунды.
func (s *SettingsStore) Load() int {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Error("Не удалось прочитать файл настроек", zap.Error(err))
		}
		return models.DefaultMessageDelay
	}
	var rec models.Settings
	if err := json.Unmarshal(data, &rec); err != nil {
		s.log.Error("Файл настроек повреждён", zap.Error(err))
		return models.DefaultMessageDelay
	}
	// Отсутствующее поле читается как 0 и тоже заменяется значением по умолчанию
	if rec.DelayBetweenMessages < 1 {
		s.log.Warn("Сохранённая пауза меньше секунды, используется значение по умолчанию", zap.Int("delay", rec.DelayBetweenMessages))
		return models.DefaultMessageDelay
	}
	s.log.Info("Пауза между сообщениями загружена", zap.Int("delay", rec.DelayBetweenMessages))
	return rec.DelayBetweenMessages
}

// Save перезаписывает файл настроек и отмечает время сохранения.
func (s *SettingsStore) Save(delay int) error {
	if delay < 1 {
		return fmt.Errorf("delay must be at least 1 second, got %d", delay)
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	rec := models.Settings{DelayBetweenMessages: delay, LastUpdated: s.now().Format(TimeLayout)}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.Path, data, 0o644); err != nil {
		s.log.Error("Не удалось сохранить настройки", zap.Error(err))
		return fmt.Errorf("write settings: %w", err)
	}
	s.log.Info("Настройки сохранены", zap.Int("delay", delay))
	return nil
}
