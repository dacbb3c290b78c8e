package send

import (
	"context"
	"log/slog"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/jollygene/linemsg/cmd"
	"github.com/jollygene/linemsg/linebot"
	"github.com/jollygene/linemsg/reply"
)

// Flags of the reply command
var Flags = append([]cli.Flag{
	&cli.StringFlag{
		Name:     "channel-token",
		Usage:    "LINE channel access token",
		EnvVars:  []string{"LINE_CHANNEL_TOKEN"},
		Required: true,
	},
	&cli.StringFlag{
		Name:    "endpoint",
		Usage:   "LINE Messaging API endpoint; default: https://api.line.me",
		EnvVars: []string{"LINE_API_ENDPOINT"},
	},
	&cli.StringFlag{
		Name:     "reply-token",
		Aliases:  []string{"t"},
		Usage:    "Reply token of the webhook event",
		Required: true,
	},
	&cli.BoolFlag{
		Name:  "silent",
		Usage: "Disable push notification",
	},
	&cli.DurationFlag{
		Name:  "timeout",
		Usage: "Request timeout",
		Value: 10 * time.Second,
	},
}, cmd.InputFlags...)

// Run builds the input messages and replies with them.
func Run(ctx *cli.Context) error {
	log := slog.Default()
	messages, err := cmd.Messages(ctx, linebot.New(
		linebot.WithLogger(log),
	))
	if err != nil {
		return err
	}
	client, err := reply.Dial(
		ctx.String("channel-token"),
		ctx.String("endpoint"),
		reply.WithLogger(log),
		reply.NotificationDisabled(ctx.Bool("silent")),
	)
	if err != nil {
		return err
	}
	deadline, cancel := context.WithTimeout(
		ctx.Context, ctx.Duration("timeout"),
	)
	defer cancel()

	err = client.Reply(deadline, ctx.String("reply-token"), messages...)
	if err != nil {
		return err
	}
	log.Info("replied", slog.Int("messages", len(messages)))
	return nil
}

func init() {
	cmd.Register(&cli.Command{
		Name:      "reply",
		Usage:     "Build messages and send them as a reply",
		ArgsUsage: "[file|-]",
		Flags:     Flags,
		Action:    Run,
	})
}
