package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"atg_sender/internal/common"
	"atg_sender/internal/config"
	"atg_sender/internal/logging"
	"atg_sender/models"
	"atg_sender/pkg/storage"
	"atg_sender/pkg/telegram"

	tgclient "github.com/gotd/td/telegram"
	"github.com/gotd/td/telegram/auth"
	"go.uber.org/zap"
)

// chatSession — подключённый аккаунт, с которым работают пункты меню.
type chatSession interface {
	LastSavedMessage(ctx context.Context) (*models.SourceMessage, error)
	Forward(ctx context.Context, chatID int64, msg *models.SourceMessage) error
	ListChats(ctx context.Context) ([]models.Chat, error)
	DisplayName() string
	Close() error
}

// LoginRequest описывает подключение к аккаунту.
type LoginRequest struct {
	Name    string
	ApiID   int
	ApiHash string
	// Interactive разрешает вход по телефону и коду, если сессия не авторизована.
	Interactive bool
}

// Dialer подключает сессию. В проде это telegram.Connect, в тестах — фейк.
type Dialer func(ctx context.Context, req LoginRequest) (chatSession, error)

// StatusSink получает снимок состояния для HTTP-статуса.
type StatusSink interface {
	SetAccount(name string)
	SetMessageDelay(seconds int)
	SetReport(r models.RoundReport)
}

type nopStatus struct{}

func (nopStatus) SetAccount(string)            {}
func (nopStatus) SetMessageDelay(int)          {}
func (nopStatus) SetReport(models.RoundReport) {}

// Deps — зависимости оболочки, собранные в main.
type Deps struct {
	Config      *config.Config
	Credentials *storage.CredentialStore
	Settings    *storage.SettingsStore
	Sessions    storage.SessionLister
	DB          *storage.DB
	Log         *zap.Logger
	Status      StatusSink
	Waiter      common.Waiter
	Dial        Dialer
	Now         func() time.Time
}

// Shell — интерактивное меню программы.
type Shell struct {
	Deps
	con *Console
	ui  *UI

	delay      int
	session    chatSession
	lastChoice int
}

// maxReadErrors — сколько ошибок чтения подряд терпит главное меню.
const maxReadErrors = 3

const (
	menuLogin = iota + 1
	menuGroups
	menuAutoSender
	menuExport
	menuSettings
	menuExit
)

var menuItems = []string{
	"Login/Switch Account",
	"Show Group List",
	"AutoSender",
	"Export Groups",
	"Settings",
	"Exit",
}

// New создаёт оболочку. Незаданные Status, Waiter, Now и Dial заменяются значениями по умолчанию.
func New(d Deps, con *Console, out io.Writer) *Shell {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Status == nil {
		d.Status = nopStatus{}
	}
	if d.Waiter == nil {
		d.Waiter = common.SecondWaiter{}
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	s := &Shell{Deps: d, con: con, ui: NewUI(out)}
	s.Log = d.Log.Named("shell")
	if s.Dial == nil {
		s.Dial = s.dialTelegram
	}
	return s
}

// Run крутит главное меню, пока оператор не выберет выход, ввод не закончится
// или ctx не будет отменён.
func (s *Shell) Run(ctx context.Context) error {
	s.delay = s.Settings.Load()
	s.Status.SetMessageDelay(s.delay)
	defer s.disconnect()

	readErrors := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.printMainMenu()
		line, err := s.con.Ask("Enter your choice: ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.Log.Info("Ввод закрыт, выходим")
				return nil
			}
			readErrors++
			logging.Critical(s.Log, "Ошибка чтения ввода", zap.Int("attempt", readErrors), zap.Error(err))
			// Несколько ошибок подряд означают, что ввод больше недоступен
			if readErrors >= maxReadErrors {
				return fmt.Errorf("read input: %w", err)
			}
			s.ui.Error("Failed to read input: %v", err)
			continue
		}
		readErrors = 0
		choice, err := ParseChoice(line, 1, len(menuItems))
		if err != nil {
			if errors.Is(err, ErrNotNumber) {
				s.ui.Error("Invalid input. Please enter a number.")
			} else {
				s.ui.Error("Invalid choice. Please try again.")
			}
			s.Log.Warn("Некорректный выбор в меню", zap.String("input", line))
			s.con.Pause()
			continue
		}
		s.lastChoice = choice
		if choice == menuExit {
			s.exit()
			return nil
		}
		if err := s.runAction(ctx, choice); err != nil {
			if errors.Is(err, io.EOF) {
				s.Log.Info("Ввод закрыт, выходим")
				return nil
			}
			return err
		}
	}
}

// runAction выполняет пункт меню. Непредвиденные ошибки и паники логируются
// как критические, после чего меню продолжает работу. Наружу возвращаются
// только отмена ctx и конец ввода.
func (s *Shell) runAction(ctx context.Context, choice int) (ret error) {
	defer func() {
		if r := recover(); r != nil {
			logging.Critical(s.Log, "Паника в пункте меню", zap.Int("choice", choice), zap.Any("panic", r))
			s.ui.Error("An unexpected error occurred: %v", r)
			s.ui.Warning("The error has been logged. Please check the logs for details.")
			s.con.Pause()
			ret = nil
		}
	}()

	var err error
	switch choice {
	case menuLogin:
		err = s.login(ctx)
	case menuGroups:
		err = s.showGroups(ctx)
	case menuAutoSender:
		err = s.autoSender(ctx)
	case menuExport:
		err = s.exportGroups(ctx)
	case menuSettings:
		err = s.settingsMenu(ctx)
	}
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if errors.Is(err, io.EOF) {
		return err
	}
	logging.Critical(s.Log, "Непредвиденная ошибка в пункте меню", zap.Int("choice", choice), zap.Error(err))
	s.ui.Error("An unexpected error occurred: %v", err)
	s.ui.Warning("The error has been logged. Please check the logs for details.")
	s.con.Pause()
	return nil
}

func (s *Shell) printMainMenu() {
	s.ui.Header("MAIN MENU")
	if s.session != nil {
		successColor.Fprintf(s.ui.out, "● Logged in as: %s\n\n", s.session.DisplayName())
	} else {
		warnColor.Fprint(s.ui.out, "● Not logged in\n\n")
	}
	for i, item := range menuItems {
		s.ui.MenuItem(i+1, item, s.lastChoice == i+1)
	}
	s.ui.Footer()
}

// requireSession сообщает оператору, если аккаунт не подключён.
func (s *Shell) requireSession() bool {
	if s.session != nil {
		return true
	}
	s.ui.Error("Please login first")
	s.con.Pause()
	return false
}

func (s *Shell) disconnect() {
	if s.session == nil {
		return
	}
	name := s.session.DisplayName()
	if err := s.session.Close(); err != nil {
		s.Log.Warn("Ошибка при отключении сессии", zap.String("account", name), zap.Error(err))
	} else {
		s.Log.Info("Сессия отключена", zap.String("account", name))
	}
	s.session = nil
	s.Status.SetAccount("")
}

func (s *Shell) exit() {
	s.disconnect()
	s.ui.Header("GOODBYE")
	s.ui.Info("Thank you for using Telegram Automation Tool")
	s.ui.Loading("Exiting application...")
	s.Log.Info("Пользователь завершил работу")
}

// dialTelegram создаёт клиент gotd по настройкам из конфигурации и подключает его.
func (s *Shell) dialTelegram(ctx context.Context, req LoginRequest) (chatSession, error) {
	opts := telegram.ClientOptions{
		SessionName: req.Name,
		DB:          s.DB,
		Logger:      s.Log,
	}
	if s.Config != nil {
		opts.SessionDir = s.Config.SessionDir
		opts.Proxy = telegram.Proxy{Addr: s.Config.Proxy.Addr, Login: s.Config.Proxy.Login, Password: s.Config.Proxy.Password}
		opts.Device = tgclient.DeviceConfig{
			DeviceModel:   s.Config.Device.DeviceModel,
			SystemVersion: s.Config.Device.SystemVersion,
			AppVersion:    s.Config.Device.AppVersion,
		}
	}
	client, err := telegram.NewClient(req.ApiID, req.ApiHash, opts)
	if err != nil {
		return nil, fmt.Errorf("new client: %w", err)
	}
	var authenticator auth.UserAuthenticator
	if req.Interactive {
		authenticator = telegram.TerminalAuth{In: s.con}
	}
	sess, err := telegram.Connect(ctx, req.Name, client, authenticator, s.Log)
	if err != nil {
		return nil, err
	}
	return sess, nil
}
