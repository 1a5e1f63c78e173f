package common

import (
	"context"
	"time"
)

// Waiter выдерживает паузу заданной длины.
// tick, если задан, вызывается перед каждой секундой ожидания с числом оставшихся секунд.
type Waiter interface {
	Wait(ctx context.Context, seconds int, tick func(remaining int)) error
}

// SecondWaiter ждёт шагами по одной секунде и между шагами проверяет контекст,
// чтобы длинная пауза не мешала завершить процесс по сигналу.
type SecondWaiter struct {
	// Step — длина одного шага; нулевое значение означает одну секунду.
	Step time.Duration
}

// Wait реализует Waiter.
func (w SecondWaiter) Wait(ctx context.Context, seconds int, tick func(remaining int)) error {
	step := w.Step
	if step <= 0 {
		step = time.Second
	}
	for remaining := seconds; remaining > 0; remaining-- {
		if tick != nil {
			tick(remaining)
		}
		select {
		case <-ctx.Done():
			// Возвращаем ошибку контекста, чтобы прервать рассылку выше по стеку.
			return ctx.Err()
		case <-time.After(step):
		}
	}
	return nil
}
