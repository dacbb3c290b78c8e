package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/jollygene/linemsg/log"
	"github.com/jollygene/linemsg/otel"
)

// Flags common to all commands
var Flags = []cli.Flag{
	&cli.StringFlag{
		Name:    "log-level",
		Usage:   "Log level: trace, debug, info, warn, error; optional +N/-N offset",
		EnvVars: []string{"LINEMSG_LOG_LEVEL"},
	},
	&cli.StringFlag{
		Name:    "catalog",
		Usage:   "Directory of named message definitions",
		EnvVars: []string{"LINEMSG_CATALOG"},
		Value:   ".",
	},
	&cli.StringFlag{
		Name:    "trace",
		Usage:   "Traces exporter: console or none",
		EnvVars: []string{"OTEL_TRACES_EXPORTER"},
		Value:   "none",
	},
}

func before(ctx *cli.Context) error {
	if err := log.SetLevel(ctx.String("log-level")); err != nil {
		return err
	}
	return otel.Configure(ctx.Context,
		otel.Exporter(ctx.String("trace")),
		otel.ServiceName(name),
		otel.ServiceVersion(Version()),
	)
}

func after(ctx *cli.Context) error {
	return otel.Shutdown(ctx.Context)
}
