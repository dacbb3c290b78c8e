package cmd

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/micro/micro/v3/service/errors"
	"github.com/urfave/cli/v2"

	"github.com/jollygene/linemsg/catalog"
	"github.com/jollygene/linemsg/internal/node"
	"github.com/jollygene/linemsg/linebot"
)

// InputFlags select the messages definition of a command:
// a file argument (stdin by default) or a catalog --name.
var InputFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Input format: json or yaml; default by file extension, else json",
	},
	&cli.StringFlag{
		Name:    "name",
		Aliases: []string{"n"},
		Usage:   "Catalog definition name, instead of the file argument",
	},
	&cli.StringFlag{
		Name:  "data",
		Usage: "JSON file with catalog definition template data",
	},
}

// Messages builds messages from the command input.
// One message object or a list of them.
func Messages(ctx *cli.Context, messages *linebot.MessageBuilder) ([]messaging_api.MessageInterface, error) {
	if name := ctx.String("name"); name != "" {
		defs, err := catalog.Open(ctx.String("catalog"), messages)
		if err != nil {
			return nil, err
		}
		var data any
		if path := ctx.String("data"); path != "" {
			text, err := os.ReadFile(path)
			if err != nil {
				return nil, err
			}
			if err = json.Unmarshal(text, &data); err != nil {
				return nil, errors.BadRequest(
					"linebot.json.invalid",
					"data: %v", err,
				)
			}
		}
		return defs.Messages(name, data)
	}

	path := ctx.Args().First()
	text, err := readInput(ctx, path)
	if err != nil {
		return nil, err
	}
	var tree any
	switch format(ctx.String("format"), path) {
	case "yaml":
		tree, err = node.ParseYAML(text)
	default:
		tree, err = node.ParseJSON(text)
	}
	if err != nil {
		return nil, err
	}
	if obj, ok := node.AsObject(tree); ok {
		msg, err := messages.Build(obj)
		if err != nil {
			return nil, err
		}
		return []messaging_api.MessageInterface{msg}, nil
	}
	list, err := node.AsList(tree)
	if err != nil {
		return nil, err
	}
	return messages.BuildBatch(list)
}

// readInput reads the file at path; empty or "-" is the app input
func readInput(ctx *cli.Context, path string) ([]byte, error) {
	if path != "" && path != "-" {
		return os.ReadFile(path)
	}
	if ctx.App != nil && ctx.App.Reader != nil {
		return io.ReadAll(ctx.App.Reader)
	}
	return io.ReadAll(os.Stdin)
}

// Output is the command output: the app Writer, else stdout.
func Output(ctx *cli.Context) io.Writer {
	if ctx.App != nil && ctx.App.Writer != nil {
		return ctx.App.Writer
	}
	return os.Stdout
}

func format(set, path string) string {
	if set != "" {
		return strings.ToLower(set)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	}
	return "json"
}
