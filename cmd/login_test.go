package cmd

import (
	"os"
	"strings"
	"testing"
)

func TestLoginCmd(t *testing.T) {
	app, out, _ := newTestApp(t, "42\n")

	if err := app.Run([]string{"login"}); err != nil {
		t.Fatalf("Run(login) error = %v", err)
	}
	data, err := os.ReadFile(app.cfg.SessionPath())
	if err != nil || string(data) != "42" {
		t.Errorf("session file = %q, %v", data, err)
	}
	if !strings.Contains(out.String(), "Logged in as user 42") {
		t.Errorf("output = %q", out.String())
	}
}

func TestLoginCmd_AlreadyLoggedIn(t *testing.T) {
	app, out, _ := newTestApp(t, "99\n")
	seedInstall(t, app, "42")

	if err := app.Run([]string{"login"}); err != nil {
		t.Fatalf("Run(login) error = %v", err)
	}
	if !strings.Contains(out.String(), "Already logged in as user 42") {
		t.Errorf("output = %q", out.String())
	}
	data, _ := os.ReadFile(app.cfg.SessionPath())
	if string(data) != "42" {
		t.Errorf("session changed to %q", data)
	}
}

func TestLoginCmd_Invalid(t *testing.T) {
	app, _, _ := newTestApp(t, "forty-two\n")

	if err := app.Run([]string{"login"}); err == nil {
		t.Fatal("Run(login) should fail on non-numeric input")
	}
	if _, err := os.Stat(app.cfg.SessionPath()); !os.IsNotExist(err) {
		t.Error("session file must not be created")
	}
}

func TestLogoutCmd(t *testing.T) {
	app, out, _ := newTestApp(t, "")
	seedInstall(t, app, "42")

	if err := app.Run([]string{"logout"}); err != nil {
		t.Fatalf("Run(logout) error = %v", err)
	}
	if _, err := os.Stat(app.cfg.SessionPath()); !os.IsNotExist(err) {
		t.Error("session file should be removed")
	}
	if !strings.Contains(out.String(), "Logged out") {
		t.Errorf("output = %q", out.String())
	}

	out.Reset()
	if err := app.Run([]string{"logout"}); err != nil {
		t.Fatalf("second logout error = %v", err)
	}
	if !strings.Contains(out.String(), "Not logged in") {
		t.Errorf("output = %q", out.String())
	}
}

func TestStatusCmd(t *testing.T) {
	app, out, _ := newTestApp(t, "")
	seedInstall(t, app, "42")

	if err := app.Run([]string{"status"}); err != nil {
		t.Fatalf("Run(status) error = %v", err)
	}
	for _, want := range []string{"✓ Configuration", "/tmp/vec", "✓ Backend", "Logged in as user 42"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("status missing %q:\n%s", want, out.String())
		}
	}
}

func TestStatusCmd_NothingInstalled(t *testing.T) {
	app, out, _ := newTestApp(t, "")

	if err := app.Run([]string{"status"}); err != nil {
		t.Fatalf("Run(status) error = %v", err)
	}
	for _, want := range []string{"Configuration: not found", "genpod install", "runtime environment missing", "Not logged in"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("status missing %q:\n%s", want, out.String())
		}
	}
}
