package send

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/micro/micro/v3/service/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/jollygene/linemsg/cmd"
)

type replyRequest struct {
	ReplyToken           string           `json:"replyToken"`
	Messages             []map[string]any `json:"messages"`
	NotificationDisabled bool             `json:"notificationDisabled"`
}

func run(stdin string, args ...string) error {
	app := &cli.App{
		Name:     "linemsg",
		Flags:    cmd.Flags,
		Commands: append([]*cli.Command{}, cmd.DefaultApp.Commands...),
		Reader:   strings.NewReader(stdin),
		Writer:   &bytes.Buffer{},
	}
	return app.Run(append([]string{"linemsg"}, args...))
}

func TestRun(t *testing.T) {
	var got replyRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if r.Header.Get("Authorization") != "Bearer secret" || json.Unmarshal(body, &got) != nil {
			http.Error(w, `{"message":"bad request"}`, http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"sentMessages":[]}`)
	}))
	defer srv.Close()

	err := run(`{"type": "text", "text": "hello"}`,
		"reply",
		"--channel-token", "secret",
		"--endpoint", srv.URL,
		"--reply-token", "nHuyWiB7yP5Zw52FIkcQobQuGDXCTA",
		"--silent",
	)
	require.NoError(t, err)
	assert.Equal(t, "nHuyWiB7yP5Zw52FIkcQobQuGDXCTA", got.ReplyToken)
	assert.True(t, got.NotificationDisabled)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "text", got.Messages[0]["type"])
	assert.Equal(t, "hello", got.Messages[0]["text"])
}

func TestRun_Failed(t *testing.T) {
	const body = `{"message":"Invalid reply token"}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, body)
	}))
	defer srv.Close()

	err := run(`{"type": "text", "text": "hello"}`,
		"reply", "--channel-token", "secret", "--endpoint", srv.URL, "-t", "expired",
	)
	require.Error(t, err)
	re := errors.FromError(err)
	assert.Equal(t, "linebot.reply.failed", re.Id)
	assert.EqualValues(t, http.StatusBadRequest, re.Code)
	assert.Equal(t, body, re.Detail)

	// nothing is sent for invalid input
	err = run(`{"type": "text"}`,
		"reply", "--channel-token", "secret", "--endpoint", srv.URL, "-t", "token",
	)
	assert.Equal(t, "linebot.message.text.invalid", errors.FromError(err).Id)
}
