package reply

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/micro/micro/v3/service/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	status int
	body   string
	err    error
	got    *messaging_api.ReplyMessageRequest
}

func (f *fakeAPI) ReplyMessageWithHttpInfo(req *messaging_api.ReplyMessageRequest) (*http.Response, *messaging_api.ReplyMessageResponse, error) {
	f.got = req
	res := &http.Response{
		StatusCode: f.status,
		Header:     http.Header{"X-Line-Request-Id": {"req-1"}},
		Body:       io.NopCloser(strings.NewReader(f.body)),
	}
	return res, &messaging_api.ReplyMessageResponse{}, f.err
}

func text(s string) messaging_api.MessageInterface {
	return &messaging_api.TextMessage{Text: s}
}

func TestClient_Reply(t *testing.T) {
	api := &fakeAPI{status: http.StatusOK, body: "{}"}
	c := New(api, NotificationDisabled(true))

	err := c.Reply(context.Background(), "token", text("hello"), text("world"))
	require.NoError(t, err)
	require.NotNil(t, api.got)
	assert.Equal(t, "token", api.got.ReplyToken)
	assert.Len(t, api.got.Messages, 2)
	assert.True(t, api.got.NotificationDisabled)
}

func TestClient_Reply_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		messages int
		wantID   string
	}{
		{"no token", "", 1, "linebot.reply.token.required"},
		{"no messages", "token", 0, "linebot.reply.messages.invalid"},
		{"too many", "token", MaxMessages + 1, "linebot.reply.messages.invalid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{status: http.StatusOK}
			messages := make([]messaging_api.MessageInterface, tt.messages)
			for i := range messages {
				messages[i] = text("m")
			}
			err := New(api).Reply(context.Background(), tt.token, messages...)
			require.Error(t, err)
			re := errors.FromError(err)
			assert.Equal(t, tt.wantID, re.Id)
			assert.EqualValues(t, http.StatusBadRequest, re.Code)
			assert.Nil(t, api.got, "must not call API")
		})
	}
}

func TestClient_Reply_Failed(t *testing.T) {
	const body = `{"message":"Invalid reply token"}`
	api := &fakeAPI{
		status: http.StatusBadRequest,
		body:   body,
		err:    errors.New("sdk", "unexpected status code: 400", 0),
	}
	err := New(api).Reply(context.Background(), "expired", text("late"))
	require.Error(t, err)
	re := errors.FromError(err)
	assert.Equal(t, "linebot.reply.failed", re.Id)
	assert.Equal(t, body, re.Detail)
	assert.EqualValues(t, http.StatusBadRequest, re.Code)
}

func TestClient_Reply_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	api := &fakeAPI{status: http.StatusOK}
	err := New(api).Reply(ctx, "token", text("m"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, api.got)
}

func replyServer(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Path != "/v2/bot/message/reply" || r.Header.Get("Authorization") != "Bearer channel-token" {
			http.Error(w, `{"message":"unexpected request"}`, http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"sentMessages":[]}`)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

// replyAll sends one reply per worker, each with its own deadline.
func replyAll(c *Client, workers int) []error {
	var (
		wg   sync.WaitGroup
		errs = make([]error, workers)
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), time.Duration(i+1)*time.Second)
			defer cancel()
			errs[i] = c.Reply(ctx, fmt.Sprintf("token-%d", i), text("hello"))
		}(i)
	}
	wg.Wait()
	return errs
}

func TestClient_Reply_Concurrent(t *testing.T) {
	srv, calls := replyServer(t)
	c, err := Dial("channel-token", srv.URL)
	require.NoError(t, err)

	for _, err := range replyAll(c, 8) {
		assert.NoError(t, err)
	}
	assert.EqualValues(t, 8, calls.Load())
}

func TestClient_Reply_SharedAPI(t *testing.T) {
	srv, calls := replyServer(t)
	api, err := messaging_api.NewMessagingApiAPI("channel-token", messaging_api.WithEndpoint(srv.URL))
	require.NoError(t, err)
	c := New(api)

	for _, err := range replyAll(c, 4) {
		assert.NoError(t, err)
	}
	assert.EqualValues(t, 4, calls.Load())
}
