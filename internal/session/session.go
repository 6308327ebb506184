package session

import (
	"errors"

	"github.com/genpod/genpod-cli/internal/display"
	"github.com/genpod/genpod-cli/internal/logging"
)

// Asker reads one answer from the user
type Asker interface {
	Ask(label string) (string, error)
}

// LoginPrompt is shown when asking for the user id
const LoginPrompt = "Enter your user ID: "

// Session is the logged-in state handed to every command handler.
// The file is always written before memory changes, and both are
// cleared together.
type Session struct {
	store   Store
	asker   Asker
	printer *display.Printer
	log     *logging.FieldLogger
	userID  string
}

// New creates a Session with nothing loaded
func New(store Store, asker Asker, printer *display.Printer) *Session {
	return &Session{
		store:   store,
		asker:   asker,
		printer: printer,
		log:     logging.Component("session"),
	}
}

// UserID returns the loaded id, or "" when logged out
func (s *Session) UserID() string {
	return s.userID
}

// LoggedIn reports whether an id is loaded
func (s *Session) LoggedIn() bool {
	return s.userID != ""
}

// Login prompts for a numeric id and persists it. Invalid input leaves
// both the file and memory untouched.
func (s *Session) Login() error {
	raw, err := s.asker.Ask(LoginPrompt)
	if err != nil {
		return err
	}

	id, err := ParseUserID(raw)
	if err != nil {
		s.printer.Failure("Invalid user ID: please enter a number")
		s.log.Warn("login rejected", logging.Fields{"input_len": len(raw)})
		return err
	}

	if err := s.store.Save(id); err != nil {
		s.printer.Failure("Could not save session: %v", err)
		return err
	}
	s.userID = id

	s.printer.Success("Logged in as user %s", id)
	s.log.Info("login", logging.Fields{"user_id": id})
	return nil
}

// Logout removes the session. Being logged out already is not an error.
func (s *Session) Logout() error {
	removed, err := s.store.Clear()
	if err != nil {
		s.printer.Failure("Could not log out: %v", err)
		return err
	}
	s.userID = ""

	if !removed {
		s.printer.Info("Not logged in")
		return nil
	}
	s.printer.Success("Logged out")
	s.log.Info("logout")
	return nil
}

// EnsureLoggedIn loads a stored session or prompts for login
func (s *Session) EnsureLoggedIn() error {
	id, err := s.store.Load()
	if err == nil {
		s.userID = id
		s.printer.Info("Logged in as user %s", id)
		s.log.Debug("session restored", logging.Fields{"user_id": id})
		return nil
	}

	if !errors.Is(err, ErrNoSession) {
		s.printer.Warn("Ignoring stored session: %v", err)
		s.log.Warn("unreadable session", logging.Fields{"error": err.Error()})
	}
	return s.Login()
}

// Require reports whether a user is logged in, printing a hint if not
func (s *Session) Require() bool {
	if s.userID != "" {
		return true
	}
	s.printer.Failure("Not logged in. Use .login first")
	return false
}
