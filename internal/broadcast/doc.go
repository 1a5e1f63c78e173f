// Package broadcast пересылает последнее сообщение из "Избранного" в список чатов
// заданное число раундов.
//
// Рассылка последовательная: в каждый момент выполняется не больше одного запроса
// к Telegram. Между чатами выдерживается фиксированная пауза, в том числе после
// последнего чата раунда; между раундами — отдельная пауза с обратным отсчётом.
// Ошибка отправки в один чат фиксируется в результате и не прерывает раунд.
// Повторов и адаптации к лимитам нет.
package broadcast
