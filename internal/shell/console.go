package shell

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Console читает ответы оператора построчно. Реализует telegram.Prompter.
type Console struct {
	in  *bufio.Reader
	out io.Writer
	// readSecret читает строку без эха; nil, если ввод не терминал.
	readSecret func() ([]byte, error)
}

// NewConsole создаёт консоль поверх stdin/stdout процесса.
func NewConsole(in *os.File, out io.Writer) *Console {
	c := newConsole(in, out)
	fd := int(in.Fd())
	if term.IsTerminal(fd) {
		c.readSecret = func() ([]byte, error) { return term.ReadPassword(fd) }
	}
	return c
}

func newConsole(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewReader(in), out: out}
}

// Ask печатает подсказку и возвращает введённую строку без перевода строки.
// Конец ввода возвращается как io.EOF.
func (c *Console) Ask(prompt string) (string, error) {
	fmt.Fprint(c.out, prompt)
	line, err := c.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// AskSecret запрашивает строку, не отображая ввод на экране.
func (c *Console) AskSecret(prompt string) (string, error) {
	if c.readSecret == nil {
		return c.Ask(prompt)
	}
	fmt.Fprint(c.out, prompt)
	b, err := c.readSecret()
	fmt.Fprintln(c.out)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Pause ждёт Enter. Ошибку чтения игнорируем: следующий Ask её повторит.
func (c *Console) Pause() {
	_, _ = c.Ask("\nPress Enter to continue...")
}
