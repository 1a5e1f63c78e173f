package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"atg_sender/internal/config"
	"atg_sender/models"
	"atg_sender/pkg/storage"
	"atg_sender/pkg/telegram"

	"github.com/fatih/color"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	// Вывод сравнивается как обычный текст
	color.NoColor = true
}

// fakeSession отдаёт фиксированные чаты и сообщение, запоминая пересылки.
type fakeSession struct {
	name     string
	chats    []models.Chat
	msg      *models.SourceMessage
	fetchErr error
	sent     []int64
	closed   bool
}

func (f *fakeSession) LastSavedMessage(ctx context.Context) (*models.SourceMessage, error) {
	return f.msg, f.fetchErr
}

func (f *fakeSession) Forward(ctx context.Context, chatID int64, msg *models.SourceMessage) error {
	f.sent = append(f.sent, chatID)
	return nil
}

func (f *fakeSession) ListChats(ctx context.Context) ([]models.Chat, error) {
	return f.chats, nil
}

func (f *fakeSession) DisplayName() string {
	return f.name
}

func (f *fakeSession) Close() error {
	f.closed = true
	return nil
}

// countingWaiter не спит, а только запоминает паузы.
type countingWaiter struct {
	waits []int
}

func (w *countingWaiter) Wait(ctx context.Context, seconds int, tick func(int)) error {
	w.waits = append(w.waits, seconds)
	for r := seconds; r > 0; r-- {
		if tick != nil {
			tick(r)
		}
	}
	return nil
}

type statusRecorder struct {
	account string
	delay   int
	reports []models.RoundReport
}

func (r *statusRecorder) SetAccount(name string) {
	r.account = name
}

func (r *statusRecorder) SetMessageDelay(seconds int) {
	r.delay = seconds
}

func (r *statusRecorder) SetReport(rep models.RoundReport) {
	r.reports = append(r.reports, rep)
}

type testEnv struct {
	dir    string
	shell  *Shell
	out    *bytes.Buffer
	waiter *countingWaiter
	status *statusRecorder
	logs   *observer.ObservedLogs
	dials  []LoginRequest
}

func newTestEnv(t *testing.T, input string, dial func(req LoginRequest) (chatSession, error)) *testEnv {
	t.Helper()
	dir := t.TempDir()
	core, logs := observer.New(zap.DebugLevel)
	log := zap.New(core)

	env := &testEnv{
		dir:    dir,
		out:    &bytes.Buffer{},
		waiter: &countingWaiter{},
		status: &statusRecorder{},
		logs:   logs,
	}
	cfg := &config.Config{ConfigDir: dir, SessionDir: dir, ExportDir: filepath.Join(dir, "exports")}
	deps := Deps{
		Config:      cfg,
		Credentials: storage.NewCredentialStore(cfg.CredentialsFile(), log),
		Settings:    storage.NewSettingsStore(cfg.SettingsFile(), log),
		Sessions:    storage.FileSessions{Dir: dir},
		Log:         log,
		Status:      env.status,
		Waiter:      env.waiter,
	}
	if dial != nil {
		deps.Dial = func(ctx context.Context, req LoginRequest) (chatSession, error) {
			env.dials = append(env.dials, req)
			return dial(req)
		}
	}
	env.shell = New(deps, newConsole(strings.NewReader(input), env.out), env.out)
	return env
}

func (e *testEnv) run(t *testing.T) {
	t.Helper()
	if err := e.shell.Run(context.Background()); err != nil {
		t.Fatalf("Run вернул ошибку: %v\nвывод:\n%s", err, e.out.String())
	}
}

func lines(in ...string) string {
	return strings.Join(in, "\n") + "\n"
}

func threeGroups() *fakeSession {
	return &fakeSession{
		name: "Alice (@alice)",
		chats: []models.Chat{
			{ID: 100, Name: "A", Kind: models.ChatKindGroup},
			{ID: 200, Name: "B", Kind: models.ChatKindGroup},
			{ID: 300, Name: "C", Kind: models.ChatKindGroup},
		},
		msg: &models.SourceMessage{ID: 77, Text: "Hello"},
	}
}

func TestAutoSenderTwoRounds(t *testing.T) {
	input := lines(
		"3", // AutoSender
		"",  // все чаты
		"2", // раунды
		"2", // пауза между раундами
		"n", // паузу между сообщениями не меняем
		"",  // подтверждение
		"",  // Enter после рассылки
		"6", // выход
	)
	env := newTestEnv(t, input, nil)
	sess := threeGroups()
	env.shell.session = sess
	env.run(t)

	out := env.out.String()
	if n := strings.Count(out, "Completed: 3 successful, 0 failed"); n != 2 {
		t.Fatalf("итог раунда должен быть выведен дважды, выведен %d раз:\n%s", n, out)
	}
	wantSent := []int64{100, 200, 300, 100, 200, 300}
	if len(sess.sent) != len(wantSent) {
		t.Fatalf("ожидали %d пересылок, получили %v", len(wantSent), sess.sent)
	}
	for i := range wantSent {
		if sess.sent[i] != wantSent[i] {
			t.Fatalf("порядок пересылок: получили %v, ожидали %v", sess.sent, wantSent)
		}
	}
	// 6 пауз между сообщениями (по умолчанию 5 с) и одна пауза между раундами
	want := []int{5, 5, 5, 2, 5, 5, 5}
	if len(env.waiter.waits) != len(want) {
		t.Fatalf("паузы: получили %v, ожидали %v", env.waiter.waits, want)
	}
	for i := range want {
		if env.waiter.waits[i] != want[i] {
			t.Fatalf("паузы: получили %v, ожидали %v", env.waiter.waits, want)
		}
	}
	if !strings.Contains(out, "Found message to forward: 'Hello'") {
		t.Fatalf("нет превью сообщения:\n%s", out)
	}
	if !strings.Contains(out, "Next round in: 00:01") {
		t.Fatalf("нет обратного отсчёта:\n%s", out)
	}
	if len(env.status.reports) != 2 {
		t.Fatalf("в статус должны попасть 2 отчёта, получили %d", len(env.status.reports))
	}
	if !sess.closed {
		t.Fatalf("сессия должна закрываться при выходе")
	}
}

func TestAutoSenderCancelled(t *testing.T) {
	input := lines("3", "2", "1", "0", "", "n", "", "6")
	env := newTestEnv(t, input, nil)
	sess := threeGroups()
	env.shell.session = sess
	env.run(t)

	if len(sess.sent) != 0 {
		t.Fatalf("после отказа ничего не должно отправляться: %v", sess.sent)
	}
	if !strings.Contains(env.out.String(), "Operation cancelled") {
		t.Fatalf("нет сообщения об отмене:\n%s", env.out.String())
	}
}

func TestAutoSenderNoSavedMessage(t *testing.T) {
	input := lines("3", "", "1", "0", "", "", "6")
	env := newTestEnv(t, input, nil)
	sess := threeGroups()
	sess.msg = nil
	env.shell.session = sess
	env.run(t)

	if len(sess.sent) != 0 {
		t.Fatalf("без сообщения ничего не отправляется: %v", sess.sent)
	}
	if !strings.Contains(env.out.String(), "No message found to forward") {
		t.Fatalf("нет предупреждения об отсутствии сообщения:\n%s", env.out.String())
	}
}

func TestMenuActionErrorIsLoggedAndLoopContinues(t *testing.T) {
	input := lines("3", "", "1", "0", "", "", "6")
	env := newTestEnv(t, input, nil)
	sess := threeGroups()
	sess.fetchErr = errors.New("rpc timeout")
	env.shell.session = sess
	env.run(t)

	if !strings.Contains(env.out.String(), "An unexpected error occurred: rpc timeout") {
		t.Fatalf("ошибка должна показываться оператору:\n%s", env.out.String())
	}
	critical := env.logs.FilterField(zap.String("severity", "critical"))
	if critical.Len() != 1 {
		t.Fatalf("ожидали одну критическую запись в логе, получили %d", critical.Len())
	}
	if !strings.Contains(env.out.String(), "GOODBYE") {
		t.Fatalf("меню должно продолжить работу до выхода:\n%s", env.out.String())
	}
}

func TestActionsRequireLogin(t *testing.T) {
	env := newTestEnv(t, lines("2", "", "6"), nil)
	env.run(t)
	if !strings.Contains(env.out.String(), "Please login first") {
		t.Fatalf("нет требования войти:\n%s", env.out.String())
	}
}

func TestInvalidMenuChoice(t *testing.T) {
	env := newTestEnv(t, lines("abc", "", "9", "", "6"), nil)
	env.run(t)
	out := env.out.String()
	if !strings.Contains(out, "Invalid input. Please enter a number.") || !strings.Contains(out, "Invalid choice") {
		t.Fatalf("некорректный ввод должен сообщаться:\n%s", out)
	}
}

func TestRunStopsOnEOF(t *testing.T) {
	env := newTestEnv(t, "", nil)
	env.run(t)
}

func TestLoginNewAccountSavesCredentials(t *testing.T) {
	sess := threeGroups()
	input := lines("1", "work", "12345", "abcdef", "", "6")
	env := newTestEnv(t, input, func(req LoginRequest) (chatSession, error) {
		return sess, nil
	})
	env.run(t)

	if len(env.dials) != 1 || !env.dials[0].Interactive || env.dials[0].ApiID != 12345 || env.dials[0].Name != "work" {
		t.Fatalf("неожиданные подключения: %+v", env.dials)
	}
	out := env.out.String()
	if !strings.Contains(out, "Successfully logged in as Alice (@alice)") || !strings.Contains(out, "Credentials saved for future use") {
		t.Fatalf("нет сообщений об успешном входе:\n%s", out)
	}
	cred, ok := env.shell.Credentials.Get("work")
	if !ok || cred.ApiID != 12345 || cred.ApiHash != "abcdef" {
		t.Fatalf("ключи не сохранены: %+v, %v", cred, ok)
	}
	if env.status.account != "" {
		t.Fatalf("после выхода аккаунт в статусе должен сбрасываться, получили %q", env.status.account)
	}
}

func TestLoginExistingFallsBackToFreshLogin(t *testing.T) {
	sess := threeGroups()
	input := lines(
		"1",   // Login/Switch
		"1",   // сессия acc
		"",    // сохранённые ключи
		"acc", // имя для нового входа
		"",    // снова сохранённые ключи
		"",    // Enter
		"6",
	)
	env := newTestEnv(t, input, func(req LoginRequest) (chatSession, error) {
		if !req.Interactive {
			return nil, telegram.ErrNotAuthorized
		}
		return sess, nil
	})
	if err := os.WriteFile(storage.SessionFile(env.dir, "acc"), []byte("{}"), 0o600); err != nil {
		t.Fatalf("не удалось создать файл сессии: %v", err)
	}
	if !env.shell.Credentials.Save("acc", 1, "h") {
		t.Fatalf("не удалось сохранить ключи")
	}
	env.run(t)

	if len(env.dials) != 2 || env.dials[0].Interactive || !env.dials[1].Interactive {
		t.Fatalf("ожидали вход без кода, затем интерактивный: %+v", env.dials)
	}
	out := env.out.String()
	if !strings.Contains(out, "Failed to authenticate with saved session") {
		t.Fatalf("нет сообщения об ошибке авторизации:\n%s", out)
	}
	if !strings.Contains(out, "Last used:") {
		t.Fatalf("в списке сессий нет времени последнего использования:\n%s", out)
	}
	if strings.Contains(out, "Credentials saved for future use") {
		t.Fatalf("для известной сессии с сохранёнными ключами сообщение не выводится:\n%s", out)
	}
}

func TestLoginInvalidAPIID(t *testing.T) {
	env := newTestEnv(t, lines("1", "", "abc", "", "6"), func(req LoginRequest) (chatSession, error) {
		t.Fatalf("подключение не должно выполняться")
		return nil, nil
	})
	env.run(t)
	out := env.out.String()
	if !strings.Contains(out, "Invalid input. Please enter a number.") || !strings.Contains(out, "Failed to login") {
		t.Fatalf("нет сообщения о неверном API ID:\n%s", out)
	}
}

func TestSettingsMenu(t *testing.T) {
	// Пауза 0 отклоняется, пауза 2 принимается, затем сохранение и выход
	input := lines(
		"5",
		"1", "0", "",
		"1", "2", "",
		"2", "",
		"3",
		"6",
	)
	env := newTestEnv(t, input, nil)
	env.run(t)

	out := env.out.String()
	if !strings.Contains(out, "Delay must be at least 1 second") {
		t.Fatalf("нет отказа для паузы 0:\n%s", out)
	}
	if !strings.Contains(out, "anti-spam") {
		t.Fatalf("нет предупреждения о короткой паузе:\n%s", out)
	}
	if got := env.shell.Settings.Load(); got != 2 {
		t.Fatalf("сохранённая пауза: получили %d, ожидали 2", got)
	}
	if env.status.delay != 2 {
		t.Fatalf("статус должен знать новую паузу, получили %d", env.status.delay)
	}
}

func TestExportGroups(t *testing.T) {
	env := newTestEnv(t, lines("4", "", "6"), nil)
	env.shell.session = threeGroups()
	env.run(t)

	files, err := filepath.Glob(filepath.Join(env.dir, "exports", "groups_*.csv"))
	if err != nil || len(files) != 1 {
		t.Fatalf("ожидали один файл экспорта, получили %v, %v", files, err)
	}
	data, err := os.ReadFile(files[0])
	if err != nil {
		t.Fatalf("не удалось прочитать экспорт: %v", err)
	}
	if !strings.HasPrefix(string(data), "ID,Name,Type\n") {
		t.Fatalf("неожиданный заголовок CSV: %q", data)
	}
}

func TestRunStopsOnEOFInsideAction(t *testing.T) {
	env := newTestEnv(t, lines("5"), nil)
	env.run(t)
	if env.logs.FilterField(zap.String("severity", "critical")).Len() != 0 {
		t.Fatalf("конец ввода не должен считаться критической ошибкой")
	}
}

// failingReader возвращает ошибку заданное число раз, затем читает из r.
type failingReader struct {
	fails int
	err   error
	r     io.Reader
}

func (f *failingReader) Read(p []byte) (int, error) {
	if f.fails > 0 {
		f.fails--
		return 0, f.err
	}
	return f.r.Read(p)
}

func newEnvWithReader(t *testing.T, r io.Reader) *testEnv {
	t.Helper()
	env := newTestEnv(t, "", nil)
	env.shell.con = newConsole(r, env.out)
	return env
}

func TestReadErrorIsLoggedAndMenuContinues(t *testing.T) {
	r := &failingReader{fails: 1, err: errors.New("read /dev/stdin: resource temporarily unavailable"), r: strings.NewReader(lines("6"))}
	env := newEnvWithReader(t, r)
	env.run(t)

	if env.logs.FilterField(zap.String("severity", "critical")).Len() != 1 {
		t.Fatalf("ошибка чтения должна логироваться как критическая")
	}
	out := env.out.String()
	if !strings.Contains(out, "Failed to read input") || !strings.Contains(out, "GOODBYE") {
		t.Fatalf("меню должно продолжить работу после ошибки чтения:\n%s", out)
	}
}

func TestRepeatedReadErrorsStopMenu(t *testing.T) {
	broken := errors.New("bad file descriptor")
	r := &failingReader{fails: maxReadErrors, err: broken, r: strings.NewReader("")}
	env := newEnvWithReader(t, r)

	err := env.shell.Run(context.Background())
	if !errors.Is(err, broken) {
		t.Fatalf("после %d ошибок подряд ожидалась ошибка чтения, получено: %v", maxReadErrors, err)
	}
}
