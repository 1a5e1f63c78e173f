package shell

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"atg_sender/models"
)

var (
	ErrNotNumber   = errors.New("invalid input, please enter a number")
	ErrOutOfRange  = errors.New("invalid choice")
	ErrEmptyInput  = errors.New("value must not be empty")
	ErrSessionName = errors.New("session name must not contain path separators")
)

// ParseInt разбирает целое число, окружающие пробелы допускаются.
func ParseInt(s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, ErrNotNumber
	}
	return v, nil
}

// ParseChoice разбирает номер пункта меню в диапазоне [min, max].
func ParseChoice(s string, min, max int) (int, error) {
	v, err := ParseInt(s)
	if err != nil {
		return 0, err
	}
	if v < min || v > max {
		return v, fmt.Errorf("%w: %d", ErrOutOfRange, v)
	}
	return v, nil
}

// ParseYesNo трактует пустой ответ как def; "y"/"yes" — да, "n"/"no" — нет.
// Остальные ответы тоже дают def, как у подсказок вида (Y/n).
func ParseYesNo(s string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes":
		return true
	case "n", "no":
		return false
	default:
		return def
	}
}

// ParseRounds разбирает число раундов рассылки; оно должно быть положительным.
func ParseRounds(s string) (int, error) {
	v, err := ParseInt(s)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return v, fmt.Errorf("%w: number of times must be positive", ErrOutOfRange)
	}
	return v, nil
}

// ParseRoundDelay разбирает паузу между раундами; она не может быть отрицательной.
func ParseRoundDelay(s string) (int, error) {
	v, err := ParseInt(s)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return v, fmt.Errorf("%w: delay must be non-negative", ErrOutOfRange)
	}
	return v, nil
}

// DelayCheck — результат проверки новой паузы между сообщениями.
type DelayCheck struct {
	Value    int
	Accepted bool
	// Warnings выводятся оператору; при Accepted=false первая строка — причина отказа.
	Warnings []string
}

// ParseDelay проверяет паузу между сообщениями: меньше секунды
// не принимается, меньше трёх секунд принимается с предупреждением.
func ParseDelay(s string) (DelayCheck, error) {
	v, err := ParseInt(s)
	if err != nil {
		return DelayCheck{}, err
	}
	const antiSpam = "Warning: Very short delays may trigger Telegram's anti-spam measures"
	switch {
	case v < 1:
		return DelayCheck{Value: v, Warnings: []string{"Delay must be at least 1 second", antiSpam}}, nil
	case v < 3:
		return DelayCheck{Value: v, Accepted: true, Warnings: []string{antiSpam}}, nil
	default:
		return DelayCheck{Value: v, Accepted: true}, nil
	}
}

// ParseAPIID разбирает api_id приложения Telegram.
func ParseAPIID(s string) (int, error) {
	v, err := ParseInt(s)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return v, fmt.Errorf("%w: api id must be positive", ErrOutOfRange)
	}
	return v, nil
}

// ParseAPIHash проверяет, что api_hash не пустой.
func ParseAPIHash(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrEmptyInput
	}
	return s, nil
}

// ParseSessionName возвращает имя сессии или def для пустого ввода.
func ParseSessionName(s, def string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}
	if strings.ContainsAny(s, `/\`) || s == "." || s == ".." {
		return "", ErrSessionName
	}
	return s, nil
}

// TargetFilter выбирает, каким чатам отправлять сообщение.
type TargetFilter int

const (
	FilterAll TargetFilter = iota + 1
	FilterGroups
	FilterChannels
	FilterCustom
)

// ParseTargetFilter разбирает выбор фильтра; пустой ввод означает "все чаты".
func ParseTargetFilter(s string) (TargetFilter, error) {
	if strings.TrimSpace(s) == "" {
		return FilterAll, nil
	}
	v, err := ParseInt(s)
	if err != nil {
		return 0, err
	}
	if v < int(FilterAll) || v > int(FilterCustom) {
		// Неизвестный номер трактуется как "все чаты"
		return FilterAll, nil
	}
	return TargetFilter(v), nil
}

// SelectTargets возвращает ID чатов, подходящих под фильтр, в исходном порядке.
// Для FilterCustom используйте ParseChatIDs.
func SelectTargets(chats []models.Chat, f TargetFilter) []int64 {
	ids := make([]int64, 0, len(chats))
	for _, c := range chats {
		switch {
		case f == FilterGroups && c.Kind != models.ChatKindGroup:
			continue
		case f == FilterChannels && c.Kind != models.ChatKindChannel:
			continue
		}
		ids = append(ids, c.ID)
	}
	return ids
}

// ParseChatIDs разбирает ID через запятую и оставляет только известные чаты
// в порядке ввода. Нечисловой элемент делает весь ввод некорректным.
func ParseChatIDs(s string, known []models.Chat) ([]int64, error) {
	valid := make(map[int64]struct{}, len(known))
	for _, c := range known {
		valid[c.ID] = struct{}{}
	}
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, ErrNotNumber
		}
		if _, ok := valid[id]; ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// Truncate обрезает строку до max символов, заменяя хвост на "...".
func Truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max-3]) + "..."
}

// PreviewText готовит короткое описание сообщения для подтверждения рассылки.
func PreviewText(msg *models.SourceMessage) string {
	text := msg.Text
	switch {
	case text == "" && msg.HasMedia:
		text = "[Media message]"
	case text == "":
		text = "[Empty message]"
	}
	return Truncate(text, 30)
}
