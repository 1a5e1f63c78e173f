package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"atg_sender/models"

	"go.uber.org/zap"
)

// TimeLayout — формат отметок времени в JSON-файлах конфигурации.
const TimeLayout = "2006-01-02 15:04:05"

// credentialRecord — вид записи в credentials.json.
type credentialRecord struct {
	ApiID    int    `json:"api_id"`
	ApiHash  string `json:"api_hash"`
	LastUsed string `json:"last_used,omitempty"`
}

// CredentialStore хранит ключи API по именам сессий в одном JSON-файле.
// Файл целиком читается и перезаписывается при каждом сохранении;
// предполагается один процесс-писатель, блокировок нет.
type CredentialStore struct {
	Path string
	log  *zap.Logger
	now  func() time.Time
}

// NewCredentialStore создаёт хранилище ключей для файла path.
func NewCredentialStore(path string, log *zap.Logger) *CredentialStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &CredentialStore{Path: path, log: log.Named("credentials"), now: time.Now}
}

// Save добавляет или перезаписывает запись сессии, отмечая время использования.
// Остальные записи сохраняются без изменений. Ошибка ввода-вывода
// логируется и возвращается как false.
func (s *CredentialStore) Save(sessionID string, apiID int, apiHash string) bool {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		s.log.Error("Не удалось создать каталог конфигурации", zap.Error(err))
		return false
	}

	// Повреждённый файл считаем пустым, как и отсутствующий
	records, err := s.readAll()
	if err != nil && !os.IsNotExist(err) {
		s.log.Warn("Файл ключей повреждён, будет перезаписан", zap.Error(err))
	}
	if records == nil {
		records = make(map[string]credentialRecord)
	}
	records[sessionID] = credentialRecord{
		ApiID:    apiID,
		ApiHash:  apiHash,
		LastUsed: s.now().Format(TimeLayout),
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		s.log.Error("Не удалось сериализовать ключи", zap.Error(err))
		return false
	}
	if err := os.WriteFile(s.Path, data, 0o600); err != nil {
		s.log.Error("Не удалось сохранить ключи", zap.String("session", sessionID), zap.Error(err))
		return false
	}
	s.log.Info("Ключи сессии сохранены", zap.String("session", sessionID))
	return true
}

// Get возвращает запись сессии. Отсутствующий или повреждённый файл
// означает "не найдено".
func (s *CredentialStore) Get(sessionID string) (models.Credential, bool) {
	records, err := s.readAll()
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Error("Не удалось прочитать файл ключей", zap.Error(err))
		}
		return models.Credential{}, false
	}
	rec, ok := records[sessionID]
	if !ok {
		return models.Credential{}, false
	}
	cred := models.Credential{SessionID: sessionID, ApiID: rec.ApiID, ApiHash: rec.ApiHash}
	if rec.LastUsed != "" {
		if ts, err := time.ParseInLocation(TimeLayout, rec.LastUsed, time.Local); err == nil {
			cred.LastUsed = ts
		}
	}
	return cred, true
}

func (s *CredentialStore) readAll() (map[string]credentialRecord, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, err
	}
	var records map[string]credentialRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}
