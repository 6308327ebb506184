package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/elk-language/go-prompt"
	istrings "github.com/elk-language/go-prompt/strings"

	"github.com/genpod/genpod-cli/internal/backend"
	"github.com/genpod/genpod-cli/internal/config"
	"github.com/genpod/genpod-cli/internal/history"
	"github.com/genpod/genpod-cli/internal/logging"
	"github.com/genpod/genpod-cli/internal/session"
)

const promptPrefix = "genpod> "

// runInteractive prepares the environment and runs the REPL until an exit
// command or end of input. The backend runtime is released on every path
// out once activated.
func (app *App) runInteractive() error {
	if err := app.cfg.Validate(); err != nil {
		return err
	}
	defer app.setupLogging()()
	log := logging.Component("repl")

	locator := config.NewLocator(app.cfg.ConfigPath)
	if _, err := locator.Locate(); err != nil {
		if errors.Is(err, config.ErrConfigMissing) {
			app.errPrinter.Failure("Configuration file not found: %s", locator.Path())
			app.errPrinter.Info("Run 'genpod install' to create it")
			log.Error("config missing", err)
			return errReported
		}
		return err
	}

	rt := backend.NewRuntime(app.cfg.Home)
	if err := rt.Check(); err != nil {
		app.errPrinter.Failure("%v", err)
		log.Error("runtime check failed", err, logging.Fields{"home": app.cfg.Home})
		return errReported
	}
	if err := rt.Activate(); err != nil {
		return err
	}
	defer func() {
		if err := rt.Release(); err != nil {
			log.Warn("failed to release runtime", logging.Fields{"error": err.Error()})
		}
	}()

	app.printer.Banner()

	sess := session.New(session.NewFileStore(app.cfg.SessionPath()), app.prompter(), app.printer)
	if err := sess.EnsureLoggedIn(); err != nil {
		app.errPrinter.Failure("Login failed: %v", err)
		return errReported
	}

	hist := history.NewHistory(app.cfg.HistoryPath())
	if err := hist.Load(); err != nil {
		app.printer.Warn("Could not load history: %v", err)
	}
	defer func() {
		if err := hist.Save(); err != nil {
			log.Warn("failed to save history", logging.Fields{"error": err.Error()})
		}
	}()

	shell := NewShell(context.Background(), sess, app.newInvoker(rt), app.printer)
	log.Info("repl started", logging.Fields{"user_id": sess.UserID()})

	if app.isTerminal() {
		app.runPrompt(shell, hist)
	} else {
		app.runLineLoop(shell, hist)
	}

	log.Info("repl stopped")
	return nil
}

// runLineLoop reads lines from the shared input reader. Used when stdin
// is not a terminal.
func (app *App) runLineLoop(shell *Shell, hist history.HistoryManager) {
	p := app.prompter()
	for !shell.Exited() {
		fmt.Fprint(app.out, promptPrefix)
		line, err := p.ReadLine()
		if err != nil {
			fmt.Fprintln(app.out)
			shell.Farewell()
			return
		}
		hist.Add(line)
		shell.Dispatch(line)
	}
}

// runPrompt runs the go-prompt line editor with completion and history
func (app *App) runPrompt(shell *Shell, hist history.HistoryManager) {
	p := prompt.New(
		func(input string) {
			if shell.Exited() {
				return
			}
			hist.Add(input)
			shell.Dispatch(input)
		},
		prompt.WithCompleter(shell.completer),
		prompt.WithPrefix(promptPrefix),
		prompt.WithTitle("genpod"),
		prompt.WithPrefixTextColor(prompt.Green),
		prompt.WithHistory(hist.Entries()),
		prompt.WithSuggestionBGColor(prompt.DarkBlue),
		prompt.WithSuggestionTextColor(prompt.White),
		prompt.WithSelectedSuggestionBGColor(prompt.Cyan),
		prompt.WithSelectedSuggestionTextColor(prompt.Black),
		prompt.WithDescriptionBGColor(prompt.DarkBlue),
		prompt.WithDescriptionTextColor(prompt.LightGray),
		prompt.WithSelectedDescriptionBGColor(prompt.Cyan),
		prompt.WithSelectedDescriptionTextColor(prompt.Black),
		prompt.WithMaxSuggestion(12),
		prompt.WithCompletionOnDown(),
		prompt.WithExitChecker(func(in string, breakline bool) bool {
			return shell.Exited()
		}),
		prompt.WithKeyBind(prompt.KeyBind{
			Key: prompt.ControlC,
			Fn: func(p *prompt.Prompt) bool {
				fmt.Fprintln(app.out)
				shell.Dispatch(".exit")
				return false
			},
		}),
		prompt.WithKeyBind(prompt.KeyBind{
			Key: prompt.ControlD,
			Fn: func(p *prompt.Prompt) bool {
				if p.Buffer().Text() == "" {
					fmt.Fprintln(app.out)
					shell.Dispatch(".exit")
				}
				return false
			},
		}),
	)

	p.Run()
}

// completer suggests dot-commands from the command table
func (s *Shell) completer(d prompt.Document) ([]prompt.Suggest, istrings.RuneNumber, istrings.RuneNumber) {
	text := d.TextBeforeCursor()
	endIndex := d.CurrentRuneIndex()
	w := d.GetWordBeforeCursor()
	startIndex := endIndex - istrings.RuneCountInString(w)

	// Only the first word is a command
	if !strings.HasPrefix(text, ".") || strings.Contains(text, " ") {
		return []prompt.Suggest{}, startIndex, endIndex
	}

	return prompt.FilterHasPrefix(s.suggestions(), w, true), startIndex, endIndex
}

// suggestions lists every command name and alias with its description
func (s *Shell) suggestions() []prompt.Suggest {
	var out []prompt.Suggest
	for _, c := range s.commands {
		for _, n := range c.names() {
			desc := c.description
			if len(c.params) > 0 {
				desc = strings.Join(c.params, " ") + "  " + desc
			}
			out = append(out, prompt.Suggest{Text: n, Description: desc})
		}
	}
	return out
}
