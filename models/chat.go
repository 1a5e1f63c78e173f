package models

// ChatKind различает группы и каналы при выборе адресатов.
type ChatKind string

const (
	ChatKindGroup   ChatKind = "group"
	ChatKindChannel ChatKind = "channel"
)

// Chat описывает группу или канал аккаунта.
// ID хранится в "маркированном" виде: -id для обычных групп
// и -100…id для каналов и супергрупп.
type Chat struct {
	ID   int64    `json:"id"`
	Name string   `json:"name"`
	Kind ChatKind `json:"type"`
}
