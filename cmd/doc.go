// Package cmd implements the CLI commands for genpod.
//
// # Architecture
//
//   - root.go: App struct, cobra root command, flag handling and logging setup
//   - install.go: the install subcommand
//   - login.go: session subcommands (login, logout, status)
//   - interactive.go: REPL startup and the two front-ends (go-prompt on a
//     terminal, a plain line loop otherwise)
//   - commands.go: the dot-command table and Shell dispatch
//
// # Command table
//
// Every REPL command is one entry in newCommandTable. Dispatch, .help and
// completion all read that table, so adding a command there is enough.
//
// # Usage
//
//	func main() {
//	    cmd.Execute()
//	}
package cmd
