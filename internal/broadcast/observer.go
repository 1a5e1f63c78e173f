package broadcast

import "atg_sender/models"

// Observer получает события рассылки для отображения прогресса.
// Все методы вызываются из той же горутины, что и Engine.Run.
type Observer interface {
	RoundStarted(round, rounds int, msg *models.SourceMessage, total int)
	ChatProcessed(done, total int, res models.SendResult)
	RoundFinished(report models.RoundReport)
	RoundDelayStarted(seconds int)
	Countdown(remaining int)
}

// NopObserver игнорирует все события.
type NopObserver struct{}

func (NopObserver) RoundStarted(int, int, *models.SourceMessage, int) {}
func (NopObserver) ChatProcessed(int, int, models.SendResult)         {}
func (NopObserver) RoundFinished(models.RoundReport)                  {}
func (NopObserver) RoundDelayStarted(int)                             {}
func (NopObserver) Countdown(int)                                     {}
