package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/micro/micro/v3/service/errors"
	"github.com/urfave/cli/v2"
)

// DefaultApp is the command line application.
var DefaultApp = &cli.App{
	Name:        name,
	Usage:       description,
	Description: "Builds LINE Messaging API messages from JSON or YAML definitions.\n\n	 Use `linemsg [command] --help` to see command specific help.",
	Version:     Version(),
}

func init() {
	DefaultApp.Flags = append(DefaultApp.Flags, Flags...)
	DefaultApp.Before = before
	DefaultApp.After = after
}

// Register CLI commands
func Register(cmds ...*cli.Command) {
	app := DefaultApp
	app.Commands = append(app.Commands, cmds...)

	// sort the commands so they're listed in order on the cli
	sort.Slice(app.Commands, func(i, j int) bool {
		return app.Commands[i].Name < app.Commands[j].Name
	})
}

// Run the default command
func Run() {
	if err := DefaultApp.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, formatErr(err))
		os.Exit(1)
	}
}

func formatErr(err error) string {
	re, ok := err.(*errors.Error)
	if !ok {
		return err.Error()
	}
	return fmt.Sprintf("(%d) %s: %s", re.Code, re.Id, re.Detail)
}
