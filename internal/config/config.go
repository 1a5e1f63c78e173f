// Package config собирает настройки запуска из .env и переменных окружения.
package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config описывает пути к файлам и необязательные параметры подключения.
type Config struct {
	ConfigDir  string // Каталог credentials.json и settings.json
	SessionDir string // Каталог файлов сессий <имя>.session
	ExportDir  string // Каталог CSV-выгрузок
	LogDir     string // Каталог логов, по файлу на запуск

	LogLevel   string
	LogConsole bool

	// DatabaseURL включает хранение сессий Telegram в Postgres вместо файлов.
	DatabaseURL string

	Proxy  Proxy
	Device Device

	// StatusAddr включает HTTP-сервер статуса, например ":8080".
	StatusAddr  string
	StatusToken string
}

// Proxy задаёт SOCKS5-прокси для подключения к Telegram.
type Proxy struct {
	Addr     string
	Login    string
	Password string
}

// Device передаётся в Telegram при создании сессии.
type Device struct {
	DeviceModel   string
	SystemVersion string
	AppVersion    string
}

// Load читает .env (если он есть) и переменные окружения.
func Load() *Config {
	// Отсутствие .env не ошибка: все параметры имеют значения по умолчанию
	_ = godotenv.Load()

	return &Config{
		ConfigDir:   getEnv("ATG_CONFIG_DIR", "config"),
		SessionDir:  getEnv("ATG_SESSION_DIR", "."),
		ExportDir:   getEnv("ATG_EXPORT_DIR", "exports"),
		LogDir:      getEnv("ATG_LOG_DIR", "logs"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogConsole:  getEnvAsBool("LOG_CONSOLE", false),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		Proxy: Proxy{
			Addr:     getEnv("PROXY_ADDR", ""),
			Login:    getEnv("PROXY_LOGIN", ""),
			Password: getEnv("PROXY_PASSWORD", ""),
		},
		Device: Device{
			DeviceModel:   getEnv("DEVICE_MODEL", ""),
			SystemVersion: getEnv("SYSTEM_VERSION", ""),
			AppVersion:    getEnv("APP_VERSION", ""),
		},
		StatusAddr:  getEnv("STATUS_ADDR", ""),
		StatusToken: getEnv("STATUS_TOKEN", ""),
	}
}

// CredentialsFile возвращает путь к файлу сохранённых ключей API.
func (c *Config) CredentialsFile() string {
	return filepath.Join(c.ConfigDir, "credentials.json")
}

// SettingsFile возвращает путь к файлу настроек.
func (c *Config) SettingsFile() string {
	return filepath.Join(c.ConfigDir, "settings.json")
}

func getEnv(key, defaultVal string) string {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsBool(key string, defaultVal bool) bool {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.ParseBool(valStr)
	if err != nil {
		// Логгер ещё не создан, поэтому пишем через стандартный log
		log.Printf("[CONFIG WARN] %s должно быть true/false, используется %v", key, defaultVal)
		return defaultVal
	}
	return val
}
