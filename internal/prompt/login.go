package prompt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
)

// ErrLoginCancelled is returned when the login form is aborted.
var ErrLoginCancelled = errors.New("login cancelled")

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

// NewLoginForm asks for whichever of username and password is still empty.
func NewLoginForm(username, password *string) *huh.Form {
	var fields []huh.Field
	if *username == "" {
		fields = append(fields, huh.NewInput().
			Title("Username").
			Value(username).
			Validate(required("username")))
	}
	if *password == "" {
		fields = append(fields, huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(password).
			Validate(required("password")))
	}
	return huh.NewForm(huh.NewGroup(fields...))
}

// AskCredentials fills in missing login credentials interactively.
func AskCredentials(ctx context.Context, username, password *string) error {
	if *username != "" && *password != "" {
		return nil
	}
	if err := NewLoginForm(username, password).RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrLoginCancelled
		}
		return fmt.Errorf("login form error: %w", err)
	}
	return nil
}
