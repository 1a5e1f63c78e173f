package models

import "time"

// Credential хранит API-ключи Telegram для одной сессии.
// Ключом записи в файле служит SessionID, поэтому в JSON он не дублируется.
type Credential struct {
	SessionID string    `json:"-"`
	ApiID     int       `json:"api_id"`
	ApiHash   string    `json:"api_hash"`
	LastUsed  time.Time `json:"-"`
}
