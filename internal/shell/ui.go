package shell

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

const (
	appTitle   = "TELEGRAM AUTOMATION TOOL"
	frameWidth = 60
)

var (
	titleColor   = color.New(color.FgCyan, color.Bold)
	frameColor   = color.New(color.FgBlue)
	infoColor    = color.New(color.FgBlue)
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed)
	loadColor    = color.New(color.FgCyan)
	menuColor    = color.New(color.FgWhite)
	activeColor  = color.New(color.FgBlack, color.BgCyan)
)

// UI печатает оформленный вывод консоли. Цвета отключаются автоматически,
// если вывод не терминал (см. color.NoColor).
type UI struct {
	out io.Writer
}

func NewUI(out io.Writer) *UI {
	return &UI{out: out}
}

func (u *UI) Printf(format string, a ...any) {
	fmt.Fprintf(u.out, format, a...)
}

func (u *UI) Println(a ...any) {
	fmt.Fprintln(u.out, a...)
}

func (u *UI) Info(format string, a ...any) {
	infoColor.Fprintf(u.out, "ℹ "+format+"\n", a...)
}

func (u *UI) Success(format string, a ...any) {
	successColor.Fprintf(u.out, "✓ "+format+"\n", a...)
}

func (u *UI) Warning(format string, a ...any) {
	warnColor.Fprintf(u.out, "⚠ "+format+"\n", a...)
}

func (u *UI) Error(format string, a ...any) {
	errorColor.Fprintf(u.out, "✗ "+format+"\n", a...)
}

func (u *UI) Loading(format string, a ...any) {
	loadColor.Fprintf(u.out, "⟳ "+format+"\n", a...)
}

// Clear очищает экран. Без цветного терминала (тесты, перенаправленный вывод) ничего не делает.
func (u *UI) Clear() {
	if color.NoColor {
		return
	}
	fmt.Fprint(u.out, "\033[H\033[2J")
}

// Header очищает экран и печатает рамку с названием программы и раздела.
func (u *UI) Header(section string) {
	u.Clear()
	frameColor.Fprintln(u.out, "╔"+strings.Repeat("═", frameWidth-2)+"╗")
	titleColor.Fprintln(u.out, center(appTitle, frameWidth))
	if section != "" {
		menuColor.Fprintln(u.out, center(section, frameWidth))
	}
	frameColor.Fprintln(u.out, "╚"+strings.Repeat("═", frameWidth-2)+"╝")
	fmt.Fprintln(u.out)
}

func (u *UI) Footer() {
	fmt.Fprintln(u.out)
	frameColor.Fprintln(u.out, strings.Repeat("─", frameWidth))
}

// MenuItem печатает пункт меню; выбранный пункт подсвечивается.
func (u *UI) MenuItem(n int, text string, selected bool) {
	if selected {
		activeColor.Fprintf(u.out, " ► %d. %s ", n, text)
		fmt.Fprintln(u.out)
		return
	}
	menuColor.Fprintf(u.out, "   %d. %s\n", n, text)
}

// Progress перерисовывает строку прогресса текущего раунда.
func (u *UI) Progress(done, total int, suffix string) {
	fmt.Fprintf(u.out, "\r%s", progressBar(done, total, 30, suffix))
	if done >= total {
		fmt.Fprintln(u.out)
	}
}

// Countdown перерисовывает обратный отсчёт до следующего раунда.
func (u *UI) Countdown(remaining int) {
	infoColor.Fprintf(u.out, "\rℹ Next round in: %s", FormatCountdown(remaining))
	if remaining <= 1 {
		fmt.Fprintln(u.out)
	}
}

func progressBar(done, total, width int, suffix string) string {
	if total <= 0 {
		total = 1
	}
	filled := width * done / total
	pct := 100 * done / total
	return fmt.Sprintf("Progress: |%s%s| %d%% %s",
		strings.Repeat("█", filled), strings.Repeat("-", width-filled), pct, suffix)
}

// FormatCountdown форматирует секунды как ММ:СС.
func FormatCountdown(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func center(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	return strings.Repeat(" ", (width-n)/2) + s
}
