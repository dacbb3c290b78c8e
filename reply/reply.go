// Package reply delivers built messages
// in response to a webhook event reply token.
package reply

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/micro/micro/v3/service/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jollygene/linemsg/otel"
)

var tracer = otel.Tracer("github.com/jollygene/linemsg/reply")

// MaxMessages per single reply request.
const MaxMessages = 5

// API is the part of the Messaging API client used to reply.
// Satisfied by *messaging_api.MessagingApiAPI.
type API interface {
	ReplyMessageWithHttpInfo(req *messaging_api.ReplyMessageRequest) (*http.Response, *messaging_api.ReplyMessageResponse, error)
}

// contextual API clients bind requests to ctx.
// Binding mutates the client, so a shared one serves a single request at a time.
type contextual interface {
	WithContext(ctx context.Context) *messaging_api.MessagingApiAPI
}

// connect returns the API to send one request bound to ctx.
// The release func ends the use of it.
type connect func(ctx context.Context) (api API, release func(), err error)

// shared binds every request to the same api.
func shared(api API) connect {
	bind, ok := api.(contextual)
	if !ok {
		return func(context.Context) (API, func(), error) {
			return api, func() {}, nil
		}
	}
	var mu sync.Mutex
	return func(ctx context.Context) (API, func(), error) {
		mu.Lock()
		return bind.WithContext(ctx), mu.Unlock, nil
	}
}

// Option configures Client.
type Option func(*Client)

// WithLogger sets the client logger.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// NotificationDisabled sends replies silently.
func NotificationDisabled(disabled bool) Option {
	return func(c *Client) {
		c.silent = disabled
	}
}

// Client sends reply messages. Safe for concurrent use.
type Client struct {
	connect connect
	log     *slog.Logger
	silent  bool
}

func newClient(connect connect, opts []Option) *Client {
	c := &Client{
		connect: connect,
		log:     slog.Default(),
	}
	for _, setup := range opts {
		setup(c)
	}
	return c
}

// New returns a reply Client over api.
// Requests over a *messaging_api.MessagingApiAPI are serialized;
// use Dial for concurrent replies.
func New(api API, opts ...Option) *Client {
	return newClient(shared(api), opts)
}

// Dial returns a reply Client over a new Messaging API client.
// Empty endpoint means the default LINE API endpoint.
func Dial(channelToken, endpoint string, opts ...Option) (*Client, error) {
	setup := []messaging_api.MessagingApiAPIOption{
		messaging_api.WithHTTPClient(&http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}),
	}
	if endpoint != "" {
		setup = append(setup, messaging_api.WithEndpoint(endpoint))
	}
	if _, err := messaging_api.NewMessagingApiAPI(channelToken, setup...); err != nil {
		return nil, errors.InternalServerError(
			"linebot.reply.client.error",
			"reply: %v", err,
		)
	}
	// one SDK client per request over the shared HTTP client
	return newClient(func(ctx context.Context) (API, func(), error) {
		api, err := messaging_api.NewMessagingApiAPI(channelToken, setup...)
		if err != nil {
			return nil, nil, err
		}
		return api.WithContext(ctx), func() {}, nil
	}, opts), nil
}

// Reply sends messages to the conversation of the replyToken.
// A response other than 2xx is an error with the raw response
// body as detail and the HTTP status as code. No retries.
func (c *Client) Reply(ctx context.Context, replyToken string, messages ...messaging_api.MessageInterface) (err error) {
	if replyToken == "" {
		return errors.BadRequest(
			"linebot.reply.token.required",
			"reply: token required",
		)
	}
	if n := len(messages); n == 0 || n > MaxMessages {
		return errors.BadRequest(
			"linebot.reply.messages.invalid",
			"reply: %d messages; expect 1..%d", n, MaxMessages,
		)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	id := uuid.NewString()
	ctx, span := tracer.Start(ctx, "linebot.reply",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("linebot.reply.id", id),
			attribute.Int("linebot.reply.messages", len(messages)),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, errors.FromError(err).Id)
		}
		span.End()
	}()

	log := c.log.With(
		slog.String("id", id),
		slog.Int("messages", len(messages)),
	)

	api, release, err := c.connect(ctx)
	if err != nil {
		log.Error("linebot: reply failed", slog.Any("error", err))
		return errors.InternalServerError(
			"linebot.reply.client.error",
			"reply: %v", err,
		)
	}
	defer release()

	res, _, err := api.ReplyMessageWithHttpInfo(&messaging_api.ReplyMessageRequest{
		ReplyToken:           replyToken,
		Messages:             messages,
		NotificationDisabled: c.silent,
	})
	if res != nil && res.Body != nil {
		defer res.Body.Close()
	}
	if res != nil {
		span.SetAttributes(attribute.Int("http.response.status_code", res.StatusCode))
	}
	if res != nil && (res.StatusCode < 200 || res.StatusCode > 299) {
		var body []byte
		if res.Body != nil {
			body, _ = io.ReadAll(res.Body)
		}
		log.Error("linebot: reply failed",
			slog.Int("status", res.StatusCode),
			slog.String("request", res.Header.Get("X-Line-Request-Id")),
			slog.String("body", string(body)),
		)
		return errors.New(
			"linebot.reply.failed",
			string(body), int32(res.StatusCode),
		)
	}
	if err != nil {
		log.Error("linebot: reply failed", slog.Any("error", err))
		return errors.InternalServerError(
			"linebot.reply.failed",
			"reply: %v", err,
		)
	}
	var requestID string
	if res != nil {
		requestID = res.Header.Get("X-Line-Request-Id")
	}
	log.Debug("linebot: reply sent",
		slog.String("request", requestID),
	)
	return nil
}
