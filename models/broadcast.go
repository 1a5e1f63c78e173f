package models

import "time"

// SendResult фиксирует исход одной пересылки в конкретный чат.
type SendResult struct {
	ChatID  int64  `json:"chat_id"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// SourceMessage — последнее сообщение из "Избранного", которое пересылается в чаты.
type SourceMessage struct {
	ID       int       `json:"id"`
	Text     string    `json:"text"`
	HasMedia bool      `json:"has_media"`
	Date     time.Time `json:"date"`
}

// RoundReport — итог одного раунда рассылки.
type RoundReport struct {
	Round     int          `json:"round"`
	Rounds    int          `json:"rounds"`
	MessageID int          `json:"message_id"`
	Total     int          `json:"total"`
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
	Failures  []SendResult `json:"failures"` // Не более MaxReportedFailures примеров
	Omitted   int          `json:"omitted"`  // Сколько ошибок не попало в Failures
}

// MaxReportedFailures ограничивает число ошибок, выводимых в отчёте раунда.
const MaxReportedFailures = 5
