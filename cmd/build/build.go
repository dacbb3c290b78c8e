package build

import (
	"fmt"
	"log/slog"

	json "github.com/goccy/go-json"
	"github.com/urfave/cli/v2"

	"github.com/jollygene/linemsg/catalog"
	"github.com/jollygene/linemsg/cmd"
	"github.com/jollygene/linemsg/linebot"
)

// Flags of the build command
var Flags = append([]cli.Flag{
	&cli.BoolFlag{
		Name:  "compact",
		Usage: "Print JSON on a single line",
	},
}, cmd.InputFlags...)

// Build prints the Messaging API JSON of the input messages.
func Build(ctx *cli.Context) error {
	messages, err := cmd.Messages(ctx, linebot.New(
		linebot.WithLogger(slog.Default()),
	))
	if err != nil {
		return err
	}
	var data []byte
	if ctx.Bool("compact") {
		data, err = json.Marshal(messages)
	} else {
		data, err = json.MarshalIndent(messages, "", "  ")
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.Output(ctx), string(data))
	return err
}

// Validate checks the input messages and reports their count.
func Validate(ctx *cli.Context) error {
	messages, err := cmd.Messages(ctx, linebot.New())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.Output(ctx), "ok: %d message(s)\n", len(messages))
	return err
}

// List prints the catalog definition names.
func List(ctx *cli.Context) error {
	defs, err := catalog.Open(ctx.String("catalog"), nil)
	if err != nil {
		return err
	}
	names, err := defs.Names()
	if err != nil {
		return err
	}
	out := cmd.Output(ctx)
	for _, name := range names {
		fmt.Fprintln(out, name)
	}
	return nil
}

func init() {
	cmd.Register(
		&cli.Command{
			Name:      "build",
			Usage:     "Build messages and print their Messaging API JSON",
			ArgsUsage: "[file|-]",
			Flags:     Flags,
			Action:    Build,
		},
		&cli.Command{
			Name:      "validate",
			Usage:     "Validate messages definition",
			ArgsUsage: "[file|-]",
			Flags:     cmd.InputFlags,
			Action:    Validate,
		},
		&cli.Command{
			Name:   "list",
			Usage:  "List catalog definition names",
			Action: List,
		},
	)
}
