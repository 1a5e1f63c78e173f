package shell

import (
	"errors"
	"reflect"
	"testing"

	"atg_sender/models"
)

func TestParseChoice(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr error
	}{
		{"3", 3, nil},
		{" 6 ", 6, nil},
		{"0", 0, ErrOutOfRange},
		{"7", 0, ErrOutOfRange},
		{"abc", 0, ErrNotNumber},
		{"", 0, ErrNotNumber},
	}
	for _, c := range cases {
		got, err := ParseChoice(c.in, 1, 6)
		if c.wantErr != nil {
			if !errors.Is(err, c.wantErr) {
				t.Fatalf("ParseChoice(%q): ожидали %v, получили %v", c.in, c.wantErr, err)
			}
			continue
		}
		if err != nil || got != c.want {
			t.Fatalf("ParseChoice(%q) = %d, %v; ожидали %d", c.in, got, err, c.want)
		}
	}
}

func TestParseYesNo(t *testing.T) {
	cases := []struct {
		in   string
		def  bool
		want bool
	}{
		{"", true, true},
		{"", false, false},
		{"y", false, true},
		{"YES", false, true},
		{"n", true, false},
		{" No ", true, false},
		{"maybe", true, true},
	}
	for _, c := range cases {
		if got := ParseYesNo(c.in, c.def); got != c.want {
			t.Fatalf("ParseYesNo(%q, %v) = %v", c.in, c.def, got)
		}
	}
}

func TestParseRoundsAndRoundDelay(t *testing.T) {
	if v, err := ParseRounds("2"); err != nil || v != 2 {
		t.Fatalf("ParseRounds(2) = %d, %v", v, err)
	}
	if _, err := ParseRounds("0"); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("ноль раундов должен отклоняться, получили %v", err)
	}
	if _, err := ParseRounds("x"); !errors.Is(err, ErrNotNumber) {
		t.Fatalf("ожидали ErrNotNumber, получили %v", err)
	}
	if v, err := ParseRoundDelay("0"); err != nil || v != 0 {
		t.Fatalf("нулевая пауза между раундами допустима: %d, %v", v, err)
	}
	if _, err := ParseRoundDelay("-1"); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("отрицательная пауза должна отклоняться, получили %v", err)
	}
}

func TestParseDelay(t *testing.T) {
	check, err := ParseDelay("0")
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if check.Accepted || len(check.Warnings) != 2 {
		t.Fatalf("пауза 0 должна отклоняться с двумя предупреждениями: %+v", check)
	}

	check, _ = ParseDelay("2")
	if !check.Accepted || check.Value != 2 || len(check.Warnings) != 1 {
		t.Fatalf("пауза 2 принимается с предупреждением: %+v", check)
	}

	check, _ = ParseDelay("5")
	if !check.Accepted || len(check.Warnings) != 0 {
		t.Fatalf("пауза 5 принимается без предупреждений: %+v", check)
	}

	if _, err := ParseDelay("fast"); !errors.Is(err, ErrNotNumber) {
		t.Fatalf("ожидали ErrNotNumber, получили %v", err)
	}
}

func TestParseSessionName(t *testing.T) {
	if got, err := ParseSessionName("  ", "my_account"); err != nil || got != "my_account" {
		t.Fatalf("пустой ввод должен давать имя по умолчанию: %q, %v", got, err)
	}
	if got, _ := ParseSessionName(" work ", "my_account"); got != "work" {
		t.Fatalf("ожидали work, получили %q", got)
	}
	for _, bad := range []string{"../x", `a\b`, ".."} {
		if _, err := ParseSessionName(bad, "d"); !errors.Is(err, ErrSessionName) {
			t.Fatalf("имя %q должно отклоняться, получили %v", bad, err)
		}
	}
}

var testChats = []models.Chat{
	{ID: -100, Name: "Group A", Kind: models.ChatKindGroup},
	{ID: -1000000000200, Name: "News", Kind: models.ChatKindChannel},
	{ID: -300, Name: "Team", Kind: models.ChatKindGroup},
}

func TestSelectTargets(t *testing.T) {
	cases := []struct {
		filter TargetFilter
		want   []int64
	}{
		{FilterAll, []int64{-100, -1000000000200, -300}},
		{FilterGroups, []int64{-100, -300}},
		{FilterChannels, []int64{-1000000000200}},
	}
	for _, c := range cases {
		if got := SelectTargets(testChats, c.filter); !reflect.DeepEqual(got, c.want) {
			t.Fatalf("фильтр %d: получили %v, ожидали %v", c.filter, got, c.want)
		}
	}
}

func TestParseTargetFilter(t *testing.T) {
	cases := map[string]TargetFilter{"": FilterAll, "2": FilterGroups, "3": FilterChannels, "4": FilterCustom, "9": FilterAll}
	for in, want := range cases {
		got, err := ParseTargetFilter(in)
		if err != nil || got != want {
			t.Fatalf("ParseTargetFilter(%q) = %d, %v; ожидали %d", in, got, err, want)
		}
	}
	if _, err := ParseTargetFilter("all"); !errors.Is(err, ErrNotNumber) {
		t.Fatalf("ожидали ErrNotNumber, получили %v", err)
	}
}

func TestParseChatIDs(t *testing.T) {
	got, err := ParseChatIDs("-300, 42, -100", testChats)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	want := []int64{-300, -100}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("получили %v, ожидали %v (неизвестные ID отбрасываются)", got, want)
	}

	if _, err := ParseChatIDs("-100, abc", testChats); !errors.Is(err, ErrNotNumber) {
		t.Fatalf("ожидали ErrNotNumber, получили %v", err)
	}
	if got, _ := ParseChatIDs(" , ", testChats); len(got) != 0 {
		t.Fatalf("пустой список должен давать ноль чатов: %v", got)
	}
}

func TestPreviewText(t *testing.T) {
	cases := []struct {
		msg  models.SourceMessage
		want string
	}{
		{models.SourceMessage{Text: "Hello"}, "Hello"},
		{models.SourceMessage{HasMedia: true}, "[Media message]"},
		{models.SourceMessage{}, "[Empty message]"},
		{models.SourceMessage{Text: "Привет, это очень длинное сообщение для проверки"}, "Привет, это очень длинное с..."},
	}
	for _, c := range cases {
		if got := PreviewText(&c.msg); got != c.want {
			t.Fatalf("PreviewText(%q) = %q, ожидали %q", c.msg.Text, got, c.want)
		}
	}
}

func TestFormatCountdown(t *testing.T) {
	if got := FormatCountdown(75); got != "01:15" {
		t.Fatalf("ожидали 01:15, получили %s", got)
	}
	if got := FormatCountdown(2); got != "00:02" {
		t.Fatalf("ожидали 00:02, получили %s", got)
	}
}

func TestFormatChatRowTruncatesName(t *testing.T) {
	long := "abcdefghijklmnopqrstuvwxyzabcdefghijklmnopqrstuvwxyz"
	row := FormatChatRow(models.Chat{ID: -1, Name: long, Kind: models.ChatKindGroup})
	if want := long[:41] + "..."; row[len(row)-len(want):] != want {
		t.Fatalf("имя должно обрезаться до 44 символов: %q", row)
	}
}
