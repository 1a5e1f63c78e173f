package shell

import (
	"context"
	"strconv"

	"go.uber.org/zap"
)

func (s *Shell) settingsMenu(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.ui.Header("SETTINGS")
		s.ui.MenuItem(1, "Message delay: "+secondsLabel(s.delay), false)
		s.ui.MenuItem(2, "Save settings", false)
		s.ui.MenuItem(3, "Back to main menu", false)
		s.ui.Footer()

		line, err := s.con.Ask("Enter your choice: ")
		if err != nil {
			return err
		}
		choice, err := ParseChoice(line, 1, 3)
		if err != nil {
			s.ui.Error("Invalid choice. Please try again.")
			s.con.Pause()
			continue
		}
		switch choice {
		case 1:
			if err := s.changeDelay(); err != nil {
				return err
			}
		case 2:
			if err := s.Settings.Save(s.delay); err != nil {
				s.Log.Error("Не удалось сохранить настройки", zap.Error(err))
				s.ui.Error("Failed to save settings: %v", err)
			} else {
				s.ui.Success("Settings saved successfully")
			}
		case 3:
			return nil
		}
		s.con.Pause()
	}
}

// changeDelay запрашивает новую паузу между сообщениями. Изменение действует
// до выхода из программы, сохраняется отдельно через "Save settings".
func (s *Shell) changeDelay() error {
	line, err := s.con.Ask("Enter new delay between messages (seconds): ")
	if err != nil {
		return err
	}
	check, err := ParseDelay(line)
	if err != nil {
		s.ui.Error("Invalid input. Please enter a number.")
		return nil
	}
	if !check.Accepted {
		s.ui.Error("%s", check.Warnings[0])
		for _, w := range check.Warnings[1:] {
			s.ui.Warning("%s", w)
		}
		return nil
	}
	for _, w := range check.Warnings {
		s.ui.Warning("%s", w)
	}
	s.delay = check.Value
	s.Status.SetMessageDelay(s.delay)
	s.Log.Info("Пауза между сообщениями изменена", zap.Int("delay", s.delay))
	s.ui.Success("Message delay set to %s", secondsLabel(s.delay))
	return nil
}

func secondsLabel(n int) string {
	if n == 1 {
		return "1 second"
	}
	return strconv.Itoa(n) + " seconds"
}
