package shell

import (
	"context"
	"errors"

	"atg_sender/models"
	"atg_sender/pkg/storage"
	"atg_sender/pkg/telegram"

	"go.uber.org/zap"
)

const defaultSessionName = "my_account"

// login — пункт "Login/Switch Account". Текущая сессия отключается до выбора новой.
func (s *Shell) login(ctx context.Context) error {
	s.disconnect()
	s.ui.Header("ACCOUNT LOGIN")

	names, err := s.Sessions.ListSessions(ctx)
	if err != nil {
		s.Log.Error("Не удалось получить список сессий", zap.Error(err))
		names = nil
	}

	if len(names) == 0 {
		s.Log.Info("Сохранённых сессий нет, создаём новую")
		err = s.loginNew(ctx)
	} else {
		err = s.chooseSession(ctx, names)
	}
	if err != nil {
		return err
	}
	if s.session == nil {
		s.ui.Error("Failed to login")
	}
	s.con.Pause()
	return nil
}

func (s *Shell) chooseSession(ctx context.Context, names []string) error {
	s.ui.Info("Available accounts:")
	for i, name := range names {
		label := name
		if cred, ok := s.Credentials.Get(name); ok && !cred.LastUsed.IsZero() {
			label += " (Last used: " + cred.LastUsed.Format(storage.TimeLayout) + ")"
		}
		s.ui.MenuItem(i+1, label, false)
	}
	createNew := len(names) + 1
	s.ui.MenuItem(createNew, "Create new account", false)
	s.ui.Footer()

	line, err := s.con.Ask("Select an account or create new (default: Create new): ")
	if err != nil {
		return err
	}
	if line == "" {
		return s.loginNew(ctx)
	}
	idx, err := ParseChoice(line, 1, createNew)
	if err != nil {
		s.ui.Error("Invalid choice. Creating new account.")
		s.Log.Warn("Некорректный выбор сессии", zap.String("input", line))
		return s.loginNew(ctx)
	}
	if idx == createNew {
		return s.loginNew(ctx)
	}
	return s.loginExisting(ctx, names[idx-1])
}

// loginExisting подключает известную сессию без интерактивного входа.
// Если сессия больше не авторизована, оператору предлагается войти заново.
func (s *Shell) loginExisting(ctx context.Context, name string) error {
	cred, found := s.Credentials.Get(name)
	apiID, apiHash, useSaved, ok, err := s.askCredentials(name, cred, found)
	if err != nil || !ok {
		return err
	}

	s.ui.Loading("Connecting to Telegram as %s...", name)
	sess, err := s.Dial(ctx, LoginRequest{Name: name, ApiID: apiID, ApiHash: apiHash})
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.Log.Error("Не удалось войти в сохранённую сессию", zap.String("session", name), zap.Error(err))
		s.ui.Error("Failed to authenticate with saved session")
		if errors.Is(err, telegram.ErrNotAuthorized) {
			s.ui.Info("Starting a fresh login")
		} else {
			s.ui.Error("Login error: %v", err)
		}
		return s.loginNew(ctx)
	}
	s.attach(sess, name)
	s.saveCredentials(name, apiID, apiHash, !found || !useSaved)
	return nil
}

// loginNew создаёт или переавторизует сессию с входом по телефону и коду.
func (s *Shell) loginNew(ctx context.Context) error {
	line, err := s.con.Ask("Enter session name (default: " + defaultSessionName + "): ")
	if err != nil {
		return err
	}
	name, err := ParseSessionName(line, defaultSessionName)
	if err != nil {
		s.ui.Error("Invalid session name: %v", err)
		return nil
	}
	existed, err := s.Sessions.Exists(ctx, name)
	if err != nil {
		s.Log.Warn("Не удалось проверить наличие сессии", zap.String("session", name), zap.Error(err))
	}

	cred, found := s.Credentials.Get(name)
	apiID, apiHash, useSaved, ok, err := s.askCredentials(name, cred, found)
	if err != nil || !ok {
		return err
	}

	s.ui.Loading("Connecting to Telegram...")
	sess, err := s.Dial(ctx, LoginRequest{Name: name, ApiID: apiID, ApiHash: apiHash, Interactive: true})
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.Log.Error("Ошибка входа", zap.String("session", name), zap.Error(err))
		s.ui.Error("Login error: %v", err)
		return nil
	}
	s.attach(sess, name)
	s.saveCredentials(name, apiID, apiHash, !existed || !found || !useSaved)
	return nil
}

// askCredentials предлагает сохранённые ключи или запрашивает api_id и api_hash.
// ok=false означает, что ввод некорректен и вход отменён.
func (s *Shell) askCredentials(name string, cred models.Credential, found bool) (apiID int, apiHash string, useSaved, ok bool, err error) {
	if found {
		s.ui.Info("Found saved credentials for %s", name)
		line, err := s.con.Ask("Use saved credentials? (Y/n): ")
		if err != nil {
			return 0, "", false, false, err
		}
		if ParseYesNo(line, true) {
			return cred.ApiID, cred.ApiHash, true, true, nil
		}
	}

	line, err := s.con.Ask("Enter API ID: ")
	if err != nil {
		return 0, "", false, false, err
	}
	apiID, perr := ParseAPIID(line)
	if perr != nil {
		s.ui.Error("Invalid input. Please enter a number.")
		return 0, "", false, false, nil
	}
	line, err = s.con.Ask("Enter API Hash: ")
	if err != nil {
		return 0, "", false, false, err
	}
	apiHash, perr = ParseAPIHash(line)
	if perr != nil {
		s.ui.Error("API Hash must not be empty")
		return 0, "", false, false, nil
	}
	return apiID, apiHash, false, true, nil
}

func (s *Shell) attach(sess chatSession, name string) {
	s.session = sess
	display := sess.DisplayName()
	s.ui.Success("Successfully logged in as %s", display)
	s.Log.Info("Вход выполнен", zap.String("session", name), zap.String("account", display))
	s.Status.SetAccount(display)
}

// saveCredentials всегда обновляет время последнего использования. announce
// включает сообщение для оператора, когда запись новая или изменилась.
func (s *Shell) saveCredentials(name string, apiID int, apiHash string, announce bool) {
	if !s.Credentials.Save(name, apiID, apiHash) {
		s.ui.Warning("Could not save credentials for %s, you will be asked for them next time", name)
		return
	}
	if announce {
		s.ui.Success("Credentials saved for future use")
	}
}
