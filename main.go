package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/teranth/ltm/cli"
	"github.com/teranth/ltm/db"
	"github.com/teranth/ltm/render"
	"github.com/teranth/ltm/timer"
	"github.com/teranth/ltm/ui"
)

const usage = `ltm - personal ticket and time tracking

Usage:
  ltm <command> [args] [--json] [--json-pretty] [--force]

Common commands:
  ltm init                                 Initialize the database
  ltm ticket create <project> <name>       Create a ticket
  ltm ticket list [--project P] [--status S] [--sort X]
  ltm ticket show <id>
  ltm update status <id> <status>          Change a ticket's status
  ltm comment add <id> <text>
  ltm time log <id> <duration>             Log time, e.g. 2h30m or 1.5h
  ltm time start <id> / stop / pause / resume / cancel
  ltm project list
  ltm ui                                   Interactive ticket browser
`

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	database, err := db.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing database: %v\n", err)
		return 1
	}
	defer database.Close()

	if len(args) > 0 && args[0] == "ui" {
		return runBrowser(database)
	}

	out := render.New(os.Stdout, os.Stderr)
	for _, arg := range args {
		switch arg {
		case "--json":
			out.JSON = true
		case "--json-pretty":
			out.JSON = true
			out.Pretty = true
		}
	}

	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		return 1
	}

	dispatcher, err := cli.NewDispatcher(database, timer.NewStore(nil), confirm)
	if err != nil {
		out.Failure(err)
		return 1
	}

	res, err := dispatcher.Run(args)
	if err != nil {
		out.Failure(err)
		return 1
	}
	out.Result(res)
	return 0
}

func runBrowser(database *db.DB) int {
	app, err := ui.NewApp(database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating app: %v\n", err)
		return 1
	}

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running app: %v\n", err)
		return 1
	}
	return 0
}

func confirm(what string) bool {
	fmt.Fprintf(os.Stderr, "❓ Are you sure you want to %s? [y/N] ", what)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	line = strings.ToLower(strings.TrimSpace(line))
	return line == "y" || line == "yes"
}
