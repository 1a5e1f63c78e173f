package telegram

import (
	"context"
	"errors"
	"strings"

	"github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/tg"
)

// ErrSignUpNotSupported возвращается, если номер ещё не зарегистрирован в Telegram.
var ErrSignUpNotSupported = errors.New("sign up is not supported, register the phone in an official app first")

// Prompter запрашивает у оператора строку. AskSecret не отображает ввод.
type Prompter interface {
	Ask(prompt string) (string, error)
	AskSecret(prompt string) (string, error)
}

// TerminalAuth реализует auth.UserAuthenticator через консольные запросы.
type TerminalAuth struct {
	In Prompter
}

var _ auth.UserAuthenticator = TerminalAuth{}

func (a TerminalAuth) Phone(ctx context.Context) (string, error) {
	phone, err := a.In.Ask("Enter phone number (international format, e.g. +15551234567): ")
	return strings.TrimSpace(phone), err
}

func (a TerminalAuth) Password(ctx context.Context) (string, error) {
	return a.In.AskSecret("Enter 2FA password: ")
}

func (a TerminalAuth) Code(ctx context.Context, _ *tg.AuthSentCode) (string, error) {
	code, err := a.In.Ask("Enter the login code you received: ")
	return strings.TrimSpace(code), err
}

func (a TerminalAuth) AcceptTermsOfService(ctx context.Context, tos tg.HelpTermsOfService) error {
	return nil
}

// SignUp не поддерживается: инструмент работает только с существующими аккаунтами.
func (a TerminalAuth) SignUp(ctx context.Context) (auth.UserInfo, error) {
	return auth.UserInfo{}, ErrSignUpNotSupported
}
