package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/genpod/genpod-cli/internal/backend"
	"github.com/genpod/genpod-cli/internal/constants"
	"github.com/genpod/genpod-cli/internal/display"
	"github.com/genpod/genpod-cli/internal/logging"
	"github.com/genpod/genpod-cli/internal/session"
)

// command is one row of the REPL command table. The table drives
// dispatch, .help and completion.
type command struct {
	name        string
	aliases     []string
	params      []string
	description string

	// needsSession commands run only when a user is logged in
	needsSession bool

	// run returns true when the shell should terminate
	run func(s *Shell, args []string) bool
}

// usage returns the command with its parameters, e.g. ".generate <project_id>"
func (c *command) usage() string {
	if len(c.params) == 0 {
		return c.name
	}
	return c.name + " " + strings.Join(c.params, " ")
}

// names returns the command name followed by its aliases
func (c *command) names() []string {
	return append([]string{c.name}, c.aliases...)
}

// backendCommand builds a handler that forwards the arguments followed by
// the logged-in user id to a backend subcommand
func backendCommand(subcommand string) func(s *Shell, args []string) bool {
	return func(s *Shell, args []string) bool {
		forwarded := append(append([]string(nil), args...), s.session.UserID())
		s.invoke(subcommand, forwarded...)
		return false
	}
}

func newCommandTable() []*command {
	return []*command{
		{
			name:         ".generate",
			params:       []string{"<project_id>"},
			description:  "Generate a project",
			needsSession: true,
			run:          backendCommand("generate"),
		},
		{
			name:         ".resume",
			description:  "Resume the last generation",
			needsSession: true,
			run:          backendCommand("resume"),
		},
		{
			name:         ".add_project",
			description:  "Add a new project",
			needsSession: true,
			run:          backendCommand("add_project"),
		},
		{
			name:         ".progress",
			params:       []string{"<project_id>", "<service_id>"},
			description:  "Show microservice progress",
			needsSession: true,
			run:          backendCommand("microservice_status"),
		},
		{
			name:        ".version",
			description: "Show version",
			run: func(s *Shell, args []string) bool {
				s.printer.Println(versionString())
				return false
			},
		},
		{
			name:        ".clear",
			description: "Clear the screen",
			run: func(s *Shell, args []string) bool {
				s.printer.Clear()
				s.printer.Banner()
				return false
			},
		},
		{
			name:        ".login",
			description: "Log in with a user ID",
			run: func(s *Shell, args []string) bool {
				// Login reports its own failures
				_ = s.session.Login()
				return false
			},
		},
		{
			name:        ".logout",
			description: "Log out",
			run: func(s *Shell, args []string) bool {
				_ = s.session.Logout()
				return false
			},
		},
		{
			name:        ".help",
			description: "Show this help",
			run: func(s *Shell, args []string) bool {
				s.showHelp()
				return false
			},
		},
		{
			name:        ".exit",
			aliases:     []string{".quit"},
			description: "Exit genpod",
			run: func(s *Shell, args []string) bool {
				s.Farewell()
				return true
			},
		},
	}
}

// Shell dispatches REPL lines against the command table
type Shell struct {
	session  *session.Session
	invoker  backend.Invoker
	printer  *display.Printer
	commands []*command
	index    map[string]*command
	ctx      context.Context
	exited   bool
	log      *logging.FieldLogger

	// markdown renders .help through glamour
	markdown bool
}

// NewShell creates a Shell
func NewShell(ctx context.Context, sess *session.Session, invoker backend.Invoker, printer *display.Printer) *Shell {
	s := &Shell{
		session:  sess,
		invoker:  invoker,
		printer:  printer,
		commands: newCommandTable(),
		ctx:      ctx,
		log:      logging.Component("shell"),
		markdown: display.IsTerminal(printer.Writer()),
	}
	s.index = make(map[string]*command)
	for _, c := range s.commands {
		for _, n := range c.names() {
			s.index[n] = c
		}
	}
	return s
}

// Exited reports whether an exit command has run
func (s *Shell) Exited() bool {
	return s.exited
}

// Farewell prints the goodbye line
func (s *Shell) Farewell() {
	s.printer.Info("Goodbye!")
}

// Dispatch handles one input line and reports whether the shell should
// terminate
func (s *Shell) Dispatch(line string) bool {
	if s.exited {
		return true
	}

	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	name, args := fields[0], fields[1:]
	c, ok := s.index[name]
	if !ok {
		s.printer.Failure("Unknown command: %s", name)
		s.printer.Info("Type .help to see available commands")
		s.log.Debug("unknown command", logging.Fields{"command": name})
		return false
	}

	if c.needsSession && !s.session.Require() {
		return false
	}

	if len(args) < len(c.params) {
		s.printer.Failure("Missing %s", c.params[len(args)])
		s.printer.Info("Usage: %s", c.usage())
		return false
	}
	if len(args) > len(c.params) {
		s.printer.Warn("Ignoring extra arguments: %s", strings.Join(args[len(c.params):], " "))
		args = args[:len(c.params)]
	}

	s.log.Info("dispatch", logging.Fields{"command": c.name, "args": args})
	if c.run(s, args) {
		s.exited = true
	}
	return s.exited
}

// invoke runs a backend subcommand and reports its exit status
func (s *Shell) invoke(subcommand string, args ...string) {
	// The child shares the terminal and gets Ctrl+C itself; the shell
	// must survive it.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	defer signal.Stop(sigCh)

	res, err := s.invoker.Invoke(s.ctx, subcommand, args...)
	if err != nil {
		s.printer.Failure("Could not run backend: %v", err)
		return
	}
	if !res.Success() {
		s.printer.Failure("%s failed with exit status %d", subcommand, res.ExitCode)
		return
	}
	s.printer.Success("%s completed", subcommand)
}

// showHelp prints the command reference from the table
func (s *Shell) showHelp() {
	if s.markdown {
		s.printer.Markdown(s.helpMarkdown())
		return
	}
	s.printer.Println("Commands:")
	for _, c := range s.commands {
		s.printer.Printf("  %-32s %s\n", strings.Join(append([]string{c.usage()}, c.aliases...), ", "), c.description)
	}
}

func (s *Shell) helpMarkdown() string {
	var sb strings.Builder
	sb.WriteString("# Commands\n\n| Command | Description |\n|---|---|\n")
	for _, c := range s.commands {
		fmt.Fprintf(&sb, "| `%s` | %s |\n", strings.Join(append([]string{c.usage()}, c.aliases...), "`, `"), c.description)
	}
	return sb.String()
}

func versionString() string {
	return fmt.Sprintf("%s version %s", constants.AppName, constants.Version)
}
