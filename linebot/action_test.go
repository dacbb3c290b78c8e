package linebot

import (
	"math"
	"strings"
	"testing"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/micro/micro/v3/service/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func errorID(err error) string {
	if err == nil {
		return ""
	}
	return errors.FromError(err).Id
}

func TestActionBuilder_Build(t *testing.T) {
	actions := NewActionBuilder()
	tests := []struct {
		name    string
		input   Node
		want    messaging_api.ActionInterface
		wantErr string
	}{
		{
			name:  "message",
			input: Node{"type": "message", "label": "Yes", "text": "yes"},
			want:  &messaging_api.MessageAction{Label: "Yes", Text: "yes"},
		},
		{
			name: "postback",
			input: Node{
				"type": "postback", "label": "Buy",
				"data": "action=buy&itemid=111", "displayText": "Buy",
			},
			want: &messaging_api.PostbackAction{
				Label: "Buy", Data: "action=buy&itemid=111", DisplayText: "Buy",
			},
		},
		{
			name:    "postback without data",
			input:   Node{"type": "postback", "label": "Buy", "displayText": "Buy"},
			wantErr: "linebot.action.postback.invalid",
		},
		{
			name: "uri with alt uri",
			input: Node{
				"type": "uri", "label": "Menu", "uri": "https://example.com/menu",
				"altUri": Node{"desktop": "https://example.com/desktop"},
			},
			want: &messaging_api.UriAction{
				Label:  "Menu",
				Uri:    "https://example.com/menu",
				AltUri: &messaging_api.AltUri{Desktop: "https://example.com/desktop"},
			},
		},
		{
			name:    "uri with bad scheme",
			input:   Node{"type": "uri", "uri": "ftp://example.com"},
			wantErr: "linebot.action.uri.invalid",
		},
		{
			name: "datetimepicker",
			input: Node{
				"type": "datetimepicker", "data": "storeId=12345", "mode": "datetime",
				"initial": "2017-12-25t00:00", "max": "2018-01-24t23:59", "min": "2017-12-25t00:00",
			},
			want: &messaging_api.DatetimePickerAction{
				Data: "storeId=12345", Mode: messaging_api.DatetimePickerActionMODE("datetime"),
				Initial: "2017-12-25t00:00", Max: "2018-01-24t23:59", Min: "2017-12-25t00:00",
			},
		},
		{
			name:    "datetimepicker bad mode",
			input:   Node{"type": "datetimepicker", "data": "x", "mode": "week"},
			wantErr: "linebot.action.datetimepicker.invalid",
		},
		{
			name:  "camera",
			input: Node{"type": "camera", "label": "Camera"},
			want:  &messaging_api.CameraAction{Label: "Camera"},
		},
		{
			name:  "cameraRoll",
			input: Node{"type": "cameraRoll", "label": "Roll"},
			want:  &messaging_api.CameraRollAction{Label: "Roll"},
		},
		{
			name:  "location",
			input: Node{"type": "location", "label": "Where"},
			want:  &messaging_api.LocationAction{Label: "Where"},
		},
		{
			name:    "label too long",
			input:   Node{"type": "camera", "label": strings.Repeat("x", 21)},
			wantErr: "linebot.action.camera.invalid",
		},
		{
			name:    "unknown type",
			input:   Node{"type": "richmenuswitch"},
			wantErr: "linebot.action.type.invalid",
		},
		{
			name:    "no type",
			input:   Node{"label": "x"},
			wantErr: "linebot.action.invalid",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := actions.Build(tt.input)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Nil(t, got)
				assert.Equal(t, tt.wantErr, errorID(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestActionBuilder_URILabel(t *testing.T) {
	const uri = "https://example.com/a/very/long/path"
	got, err := NewActionBuilder().Build(Node{"type": "uri", "uri": uri})
	require.NoError(t, err)
	action, ok := got.(*messaging_api.UriAction)
	require.True(t, ok)
	assert.Equal(t, uri[:20], action.Label)
	assert.Equal(t, uri, action.Uri)

	got, err = NewActionBuilder().Build(Node{"type": "uri", "uri": "tel://0123"})
	require.NoError(t, err)
	assert.Equal(t, "tel://0123", got.(*messaging_api.UriAction).Label)
}

func TestActionBuilder_Imagemap(t *testing.T) {
	actions := NewActionBuilder()
	area := Node{"x": int64(0), "y": int64(0), "width": int64(520), "height": int64(1040)}

	uri, err := actions.BuildImagemapURI(Node{"type": "uri", "linkUri": "https://example.com/", "area": area})
	require.NoError(t, err)
	assert.Equal(t, &messaging_api.UriImagemapAction{
		LinkUri: "https://example.com/",
		Area:    &messaging_api.ImagemapArea{X: 0, Y: 0, Width: 520, Height: 1040},
	}, uri)

	msg, err := actions.BuildImagemapMessage(Node{"type": "message", "text": "hello", "area": area})
	require.NoError(t, err)
	assert.Equal(t, "hello", msg.Text)

	_, err = actions.BuildImagemapMessage(Node{"type": "message", "text": "hello"})
	assert.Equal(t, "linebot.imagemap.action.message.invalid", errorID(err))

	_, err = actions.BuildImagemapURI(Node{
		"type": "uri", "linkUri": "https://example.com/",
		"area": Node{"x": 1.5, "y": int64(0), "width": int64(1), "height": int64(1)},
	})
	assert.Equal(t, "linebot.imagemap.action.uri.invalid", errorID(err))
}

func TestActionBuilder_Imagemap_AreaRange(t *testing.T) {
	actions := NewActionBuilder()
	area := func(key string, value any) Node {
		n := Node{"x": int64(0), "y": int64(0), "width": int64(520), "height": int64(1040)}
		n[key] = value
		return n
	}
	tests := []struct {
		name string
		area Node
	}{
		{"x wraps int32", area("x", int64(4294967297))},
		{"width over int32", area("width", int64(math.MaxInt32)+1)},
		{"negative y", area("y", int64(-1))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := actions.BuildImagemapURI(Node{"type": "uri", "linkUri": "https://example.com/", "area": tt.area})
			assert.Nil(t, got)
			assert.Equal(t, "linebot.imagemap.action.uri.invalid", errorID(err))
		})
	}

	got, err := actions.BuildImagemapURI(Node{"type": "uri", "linkUri": "https://example.com/", "area": area("x", int64(math.MaxInt32))})
	require.NoError(t, err)
	assert.EqualValues(t, math.MaxInt32, got.Area.X)
}
