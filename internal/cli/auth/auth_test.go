package auth

import (
	"strings"
	"testing"

	"github.com/julianstephens/weekmenu/internal/cli/clitest"
)

func TestLoginCmd(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		wantErr  string
	}{
		{
			name:     "valid credentials",
			username: clitest.Username,
			password: clitest.Password,
		},
		{
			name:     "wrong password",
			username: clitest.Username,
			password: "nope",
			wantErr:  "Invalid username or password",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := clitest.NewServer(t, nil)
			env := clitest.NewContext(t, server, clitest.Options{LoggedOut: true})

			err := (&LoginCmd{Username: tt.username, Password: tt.password}).Run(env.Ctx)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("Run() error = %v, want %q", err, tt.wantErr)
				}
				if env.Ctx.Session.Authenticated() {
					t.Error("session should stay logged out")
				}
				return
			}
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if !env.Ctx.Session.Authenticated() {
				t.Error("session should be authenticated")
			}
			token, err := env.Ctx.Session.Store().Get()
			if err != nil || token != clitest.Token {
				t.Errorf("stored token = %q, %v", token, err)
			}
			if !strings.Contains(env.Out.String(), "Logged in as cook") {
				t.Errorf("output = %q", env.Out.String())
			}
		})
	}
}

func TestLogoutCmd(t *testing.T) {
	server := clitest.NewServer(t, nil)
	env := clitest.NewContext(t, server, clitest.Options{})

	if err := (&LogoutCmd{}).Run(env.Ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if env.Ctx.Session.Authenticated() {
		t.Error("session should be logged out")
	}
	if _, err := env.Ctx.Session.Store().Get(); err == nil {
		t.Error("token should be cleared")
	}

	env.Out.Reset()
	if err := (&LogoutCmd{}).Run(env.Ctx); err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	if !strings.Contains(env.Out.String(), "Not logged in") {
		t.Errorf("output = %q", env.Out.String())
	}
}
