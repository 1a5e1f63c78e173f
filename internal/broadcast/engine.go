package broadcast

import (
	"context"
	"errors"
	"fmt"

	"atg_sender/internal/common"
	"atg_sender/models"

	"github.com/gotd/td/tgerr"
	"go.uber.org/zap"
)

var (
	ErrNoSourceMessage     = errors.New("no message found to forward")
	ErrInvalidRounds       = errors.New("number of rounds must be positive")
	ErrInvalidRoundDelay   = errors.New("delay between rounds must be non-negative")
	ErrInvalidMessageDelay = errors.New("delay between messages must be at least 1 second")
	ErrNoTargets           = errors.New("no chats selected to send messages to")
)

// Forwarder — часть клиентской сессии, нужная рассылке.
type Forwarder interface {
	// LastSavedMessage возвращает самое новое сообщение из "Избранного"
	// или nil, если там пусто.
	LastSavedMessage(ctx context.Context) (*models.SourceMessage, error)
	Forward(ctx context.Context, chatID int64, msg *models.SourceMessage) error
}

// Options задаёт параметры рассылки. Все паузы в секундах.
type Options struct {
	Rounds       int
	RoundDelay   int
	MessageDelay int
}

// Validate проверяет параметры до начала первого раунда.
func (o Options) Validate(targets []int64) error {
	switch {
	case o.Rounds <= 0:
		return ErrInvalidRounds
	case o.RoundDelay < 0:
		return ErrInvalidRoundDelay
	case o.MessageDelay < 1:
		return ErrInvalidMessageDelay
	case len(targets) == 0:
		return ErrNoTargets
	}
	return nil
}

// Engine выполняет рассылку через переданную сессию.
type Engine struct {
	fwd    Forwarder
	waiter common.Waiter
	log    *zap.Logger
}

// NewEngine создаёт движок рассылки. Если log не задан, логирование отключается.
func NewEngine(fwd Forwarder, waiter common.Waiter, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{fwd: fwd, waiter: waiter, log: log.Named("broadcast")}
}

// Run выполняет opts.Rounds раундов рассылки по targets и возвращает отчёты
// завершённых раундов. Отсутствие сообщения в "Избранном" прерывает всю рассылку
// с ErrNoSourceMessage.
func (e *Engine) Run(ctx context.Context, opts Options, targets []int64, obs Observer) ([]models.RoundReport, error) {
	if err := opts.Validate(targets); err != nil {
		return nil, err
	}
	if obs == nil {
		obs = NopObserver{}
	}
	e.log.Info("Рассылка запущена",
		zap.Int("rounds", opts.Rounds),
		zap.Int("round_delay", opts.RoundDelay),
		zap.Int("message_delay", opts.MessageDelay),
		zap.Int("chats", len(targets)),
	)

	reports := make([]models.RoundReport, 0, opts.Rounds)
	for round := 1; round <= opts.Rounds; round++ {
		report, err := e.runRound(ctx, round, opts, targets, obs)
		if err != nil {
			return reports, err
		}
		reports = append(reports, report)
		obs.RoundFinished(report)
		e.log.Info("Раунд завершён",
			zap.Int("round", round),
			zap.Int("succeeded", report.Succeeded),
			zap.Int("failed", report.Failed),
		)

		if round < opts.Rounds {
			obs.RoundDelayStarted(opts.RoundDelay)
			if err := e.waiter.Wait(ctx, opts.RoundDelay, obs.Countdown); err != nil {
				return reports, err
			}
		}
	}
	return reports, nil
}

func (e *Engine) runRound(ctx context.Context, round int, opts Options, targets []int64, obs Observer) (models.RoundReport, error) {
	// Сообщение запрашивается заново в каждом раунде: новое сообщение,
	// отправленное в "Избранное" между раундами, станет источником для следующих.
	msg, err := e.fwd.LastSavedMessage(ctx)
	if err != nil {
		e.log.Error("Не удалось получить сообщение из Избранного", zap.Int("round", round), zap.Error(err))
		return models.RoundReport{}, fmt.Errorf("fetch saved message: %w", err)
	}
	if msg == nil {
		e.log.Warn("В Избранном нет сообщений для пересылки", zap.Int("round", round))
		return models.RoundReport{}, ErrNoSourceMessage
	}
	e.log.Info("Найдено сообщение для пересылки", zap.Int("round", round), zap.Int("message_id", msg.ID))
	obs.RoundStarted(round, opts.Rounds, msg, len(targets))

	results := make([]models.SendResult, 0, len(targets))
	for idx, chatID := range targets {
		res := models.SendResult{ChatID: chatID, Success: true}
		if err := e.fwd.Forward(ctx, chatID, msg); err != nil {
			res.Success = false
			res.Error = err.Error()
			fields := []zap.Field{zap.Int64("chat_id", chatID), zap.Error(err)}
			if rpcErr, ok := tgerr.As(err); ok {
				fields = append(fields, zap.String("rpc_error", rpcErr.Type))
			}
			e.log.Error("Не удалось переслать сообщение", fields...)
		} else {
			e.log.Info("Сообщение переслано", zap.Int64("chat_id", chatID))
		}
		results = append(results, res)
		obs.ChatProcessed(idx+1, len(targets), res)

		// Пауза выдерживается и после последнего чата раунда.
		if err := e.waiter.Wait(ctx, opts.MessageDelay, nil); err != nil {
			return models.RoundReport{}, err
		}
	}

	report := Summarize(results)
	report.Round = round
	report.Rounds = opts.Rounds
	report.MessageID = msg.ID
	return report, nil
}

// Summarize считает итоги раунда. В Failures попадают не более
// models.MaxReportedFailures первых ошибок, остальные учитываются в Omitted.
func Summarize(results []models.SendResult) models.RoundReport {
	report := models.RoundReport{Total: len(results)}
	for _, r := range results {
		if r.Success {
			report.Succeeded++
			continue
		}
		report.Failed++
		if len(report.Failures) < models.MaxReportedFailures {
			report.Failures = append(report.Failures, r)
		} else {
			report.Omitted++
		}
	}
	return report
}
