package shell

import (
	"context"
	"fmt"
	"strings"

	"atg_sender/models"
	"atg_sender/pkg/export"

	"go.uber.org/zap"
)

const nameColumnWidth = 44

// fetchChats запрашивает список чатов. При ошибке показывает её и
// возвращает то, что успели получить.
func (s *Shell) fetchChats(ctx context.Context) []models.Chat {
	s.ui.Loading("Retrieving chat list...")
	chats, err := s.session.ListChats(ctx)
	if err != nil {
		s.Log.Error("Ошибка получения списка чатов", zap.Int("partial", len(chats)), zap.Error(err))
		s.ui.Error("Error retrieving chat info: %v", err)
	}
	return chats
}

func (s *Shell) showGroups(ctx context.Context) error {
	if !s.requireSession() {
		return nil
	}
	s.ui.Header("GROUP LIST")
	chats := s.fetchChats(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if len(chats) == 0 {
		s.ui.Warning("No groups or channels found")
		s.con.Pause()
		return nil
	}
	s.printChatTable(chats)
	s.ui.Info("Displayed %d chats", len(chats))
	s.con.Pause()
	return nil
}

func (s *Shell) printChatTable(chats []models.Chat) {
	titleColor.Fprintf(s.ui.out, "%-20s %-10s %s\n", "ID", "Type", "Name")
	s.ui.Println(strings.Repeat("─", 20+1+10+1+nameColumnWidth))
	for _, c := range chats {
		s.ui.Println(FormatChatRow(c))
	}
}

// FormatChatRow форматирует строку таблицы чатов.
func FormatChatRow(c models.Chat) string {
	return fmt.Sprintf("%-20d %-10s %s", c.ID, c.Kind, Truncate(c.Name, nameColumnWidth))
}

func (s *Shell) exportGroups(ctx context.Context) error {
	if !s.requireSession() {
		return nil
	}
	s.ui.Header("EXPORT GROUPS")
	chats := s.fetchChats(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if len(chats) == 0 {
		s.ui.Warning("No groups or channels found to export")
		s.con.Pause()
		return nil
	}

	dir := "exports"
	if s.Config != nil {
		dir = s.Config.ExportDir
	}
	path, err := export.ToFile(dir, chats, s.Now())
	if err != nil {
		s.Log.Error("Ошибка экспорта чатов", zap.Error(err))
		s.ui.Error("Error exporting groups: %v", err)
		s.con.Pause()
		return nil
	}
	s.Log.Info("Чаты экспортированы", zap.String("path", path), zap.Int("count", len(chats)))
	s.ui.Success("Exported %d chats to %s", len(chats), path)
	s.con.Pause()
	return nil
}
