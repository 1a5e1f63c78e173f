package shell

import (
	"context"
	"errors"

	"atg_sender/internal/broadcast"
	"atg_sender/models"

	"go.uber.org/zap"
)

func (s *Shell) autoSender(ctx context.Context) error {
	if !s.requireSession() {
		return nil
	}
	s.ui.Header("AUTO SENDER")
	chats := s.fetchChats(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if len(chats) == 0 {
		s.ui.Warning("No groups or channels found to send messages to")
		s.con.Pause()
		return nil
	}

	targets, err := s.chooseTargets(chats)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		s.ui.Warning("No chats selected to send messages to")
		s.con.Pause()
		return nil
	}
	s.ui.Info("Will send to %d chats", len(targets))

	opts, ok, err := s.askBroadcastOptions(len(targets))
	if err != nil {
		return err
	}
	if !ok {
		s.con.Pause()
		return nil
	}

	s.ui.Loading("Checking for last message...")
	msg, err := s.session.LastSavedMessage(ctx)
	if err != nil {
		return err
	}
	if msg == nil {
		s.ui.Error("No message found to forward. Please send a message to Saved Messages first.")
		s.con.Pause()
		return nil
	}
	s.ui.Success("Found message to forward: '%s'", PreviewText(msg))

	s.ui.Warning("Ready to send message %d times to %d chats", opts.Rounds, len(targets))
	s.ui.Warning("Delay between chats: %ds, Delay between rounds: %ds", opts.MessageDelay, opts.RoundDelay)
	line, err := s.con.Ask("Proceed? (Y/n): ")
	if err != nil {
		return err
	}
	if !ParseYesNo(line, true) {
		s.ui.Info("Operation cancelled")
		s.con.Pause()
		return nil
	}

	s.ui.Info("Starting auto-sending process:")
	engine := broadcast.NewEngine(s.session, s.Waiter, s.Log)
	view := &progressView{ui: s.ui, status: s.Status}
	reports, err := engine.Run(ctx, opts, targets, view)
	switch {
	case err == nil:
		s.ui.Success("Auto-sending completed")
		s.Log.Info("Рассылка завершена", zap.Int("rounds", len(reports)))
	case errors.Is(err, broadcast.ErrNoSourceMessage):
		s.ui.Warning("No messages found to forward")
	case ctx.Err() != nil:
		s.ui.Warning("Auto-sending interrupted after %d rounds", len(reports))
		return ctx.Err()
	default:
		s.Log.Error("Ошибка рассылки", zap.Int("completed_rounds", len(reports)), zap.Error(err))
		s.ui.Error("Error in auto-sending: %v", err)
	}
	s.con.Pause()
	return nil
}

// chooseTargets спрашивает фильтр и возвращает ID выбранных чатов.
func (s *Shell) chooseTargets(chats []models.Chat) ([]int64, error) {
	s.ui.Info("Select target chats:")
	s.ui.MenuItem(int(FilterAll), "All chats", false)
	s.ui.MenuItem(int(FilterGroups), "Groups only", false)
	s.ui.MenuItem(int(FilterChannels), "Channels only", false)
	s.ui.MenuItem(int(FilterCustom), "Custom selection", false)
	line, err := s.con.Ask("Enter your choice (default: 1): ")
	if err != nil {
		return nil, err
	}
	filter, err := ParseTargetFilter(line)
	if err != nil {
		s.ui.Error("Invalid input. Using all chats instead.")
		filter = FilterAll
	}
	if filter != FilterCustom {
		return SelectTargets(chats, filter), nil
	}

	s.printChatTable(chats)
	line, err = s.con.Ask("Enter chat IDs separated by commas: ")
	if err != nil {
		return nil, err
	}
	ids, err := ParseChatIDs(line, chats)
	if err != nil {
		s.ui.Error("Invalid input. Using all chats instead.")
		s.Log.Warn("Некорректный список ID чатов", zap.String("input", line))
		return SelectTargets(chats, FilterAll), nil
	}
	return ids, nil
}

// askBroadcastOptions запрашивает число раундов, паузы и при желании меняет
// паузу между сообщениями. ok=false означает, что ввод отклонён.
func (s *Shell) askBroadcastOptions(targets int) (opts broadcast.Options, ok bool, err error) {
	line, err := s.con.Ask("How many times to send the message: ")
	if err != nil {
		return opts, false, err
	}
	rounds, roundsErr := ParseRounds(line)
	line, err = s.con.Ask("Time delay between sending rounds (seconds): ")
	if err != nil {
		return opts, false, err
	}
	roundDelay, delayErr := ParseRoundDelay(line)
	switch {
	case errors.Is(roundsErr, ErrNotNumber) || errors.Is(delayErr, ErrNotNumber):
		s.ui.Error("Invalid input. Please enter numbers only.")
		return opts, false, nil
	case roundsErr != nil || delayErr != nil:
		s.ui.Error("Invalid values. Number of times must be positive and delay must be non-negative.")
		return opts, false, nil
	}

	s.ui.Info("Current delay between messages: %s", secondsLabel(s.delay))
	line, err = s.con.Ask("Change message delay? (y/N): ")
	if err != nil {
		return opts, false, err
	}
	if ParseYesNo(line, false) {
		if err := s.changeDelay(); err != nil {
			return opts, false, err
		}
	}

	opts = broadcast.Options{Rounds: rounds, RoundDelay: roundDelay, MessageDelay: s.delay}
	s.Log.Info("Параметры рассылки",
		zap.Int("rounds", rounds),
		zap.Int("round_delay", roundDelay),
		zap.Int("message_delay", s.delay),
		zap.Int("chats", targets),
	)
	return opts, true, nil
}

// progressView отображает ход рассылки и передаёт итоги раундов в статус.
type progressView struct {
	ui     *UI
	status StatusSink
}

var _ broadcast.Observer = (*progressView)(nil)

func (v *progressView) RoundStarted(round, rounds int, msg *models.SourceMessage, total int) {
	v.ui.Println()
	titleColor.Fprintf(v.ui.out, "Send round %d/%d\n", round, rounds)
	v.ui.Info("Found message (ID: %d) to forward", msg.ID)
	v.ui.Info("Sending to %d groups:", total)
}

func (v *progressView) ChatProcessed(done, total int, res models.SendResult) {
	v.ui.Progress(done, total, "Complete")
}

func (v *progressView) RoundFinished(r models.RoundReport) {
	v.ui.Info("Completed: %d successful, %d failed", r.Succeeded, r.Failed)
	if r.Failed > 0 {
		v.ui.Warning("Failed to send to:")
		for _, f := range r.Failures {
			v.ui.Printf("  - Chat ID: %d: %s\n", f.ChatID, f.Error)
		}
		if r.Omitted > 0 {
			v.ui.Printf("  ... and %d more (check logs for details)\n", r.Omitted)
		}
	}
	v.status.SetReport(r)
}

func (v *progressView) RoundDelayStarted(seconds int) {
	v.ui.Info("Waiting %s until next round", secondsLabel(seconds))
}

func (v *progressView) Countdown(remaining int) {
	v.ui.Countdown(remaining)
}
