package telegram

import (
	"fmt"

	"atg_sender/pkg/storage"

	"github.com/gotd/td/session"
	"github.com/gotd/td/telegram"
	"github.com/gotd/td/telegram/dcs"
	"go.uber.org/zap"
	"golang.org/x/net/proxy"
)

// Proxy описывает SOCKS5-прокси; пустой Addr означает прямое подключение.
type Proxy struct {
	Addr     string
	Login    string
	Password string
}

// ClientOptions задаёт, где хранится сессия и как подключаться к Telegram.
type ClientOptions struct {
	SessionName string
	SessionDir  string
	// DB, если задан, хранит сессию в Postgres вместо файла.
	DB     *storage.DB
	Proxy  Proxy
	Device telegram.DeviceConfig
	Logger *zap.Logger
}

// NewClient создаёт клиент Telegram с хранилищем сессии в файле
// <SessionDir>/<SessionName>.session или в БД.
func NewClient(apiID int, apiHash string, o ClientOptions) (*telegram.Client, error) {
	var store session.Storage = &session.FileStorage{Path: storage.SessionFile(o.SessionDir, o.SessionName)}
	if o.DB != nil {
		store = &DBSessionStorage{DB: o.DB, Name: o.SessionName}
	}

	opts := telegram.Options{
		SessionStorage: store,
		Device:         o.Device,
	}
	if o.Logger != nil {
		// Внутренний лог gotd очень подробный, в файл пишем только предупреждения и ошибки
		opts.Logger = o.Logger.Named("gotd").WithOptions(zap.IncreaseLevel(zap.WarnLevel))
	}
	if o.Proxy.Addr != "" {
		var auth *proxy.Auth
		if o.Proxy.Login != "" || o.Proxy.Password != "" {
			auth = &proxy.Auth{User: o.Proxy.Login, Password: o.Proxy.Password}
		}
		d, err := proxy.SOCKS5("tcp", o.Proxy.Addr, auth, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("proxy dialer: %w", err)
		}
		dc, ok := d.(proxy.ContextDialer)
		if !ok {
			return nil, fmt.Errorf("proxy dialer missing context")
		}
		opts.Resolver = dcs.Plain(dcs.PlainOptions{Dial: dc.DialContext})
		if o.Logger != nil {
			o.Logger.Info("Подключение через прокси", zap.String("session", o.SessionName), zap.String("proxy", o.Proxy.Addr))
		}
	}
	return telegram.NewClient(apiID, apiHash, opts), nil
}
