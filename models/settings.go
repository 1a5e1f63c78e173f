package models

// DefaultMessageDelay используется, если файл настроек отсутствует или повреждён.
const DefaultMessageDelay = 5

// Settings — содержимое config/settings.json.
type Settings struct {
	DelayBetweenMessages int    `json:"delay_between_messages"` // Пауза между чатами в секундах
	LastUpdated          string `json:"last_updated,omitempty"` // Время сохранения, формат storage.TimeLayout
}
