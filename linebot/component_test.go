package linebot

import (
	"fmt"
	"testing"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newComponentBuilder() *ComponentBuilder {
	return NewComponentBuilder(NewActionBuilder())
}

func textNode(s string) Node {
	return Node{"type": "text", "text": s}
}

func TestComponentBuilder_BuildBox(t *testing.T) {
	for _, size := range []int{0, 1, 3, 7} {
		t.Run(fmt.Sprintf("%d children", size), func(t *testing.T) {
			contents := make([]any, size)
			for i := range contents {
				contents[i] = textNode(fmt.Sprintf("line %d", i))
			}
			input := Node{"type": "box", "layout": "vertical", "contents": contents}
			if size == 0 {
				input["contents"] = []any{}
			}
			box, err := newComponentBuilder().BuildBox(input)
			if size == 0 {
				// required list must not be empty
				assert.Equal(t, "linebot.component.box.invalid", errorID(err))
				return
			}
			require.NoError(t, err)
			require.Len(t, box.Contents, size)
			for i, child := range box.Contents {
				text, ok := child.(*messaging_api.FlexText)
				require.True(t, ok, "contents[%d] = %T", i, child)
				assert.Equal(t, fmt.Sprintf("line %d", i), text.Text)
			}
		})
	}
}

func TestComponentBuilder_BuildBox_Nested(t *testing.T) {
	box, err := newComponentBuilder().BuildBox(Node{
		"type":    "box",
		"layout":  "horizontal",
		"spacing": "md",
		"action":  Node{"type": "message", "text": "tap"},
		"contents": []any{
			Node{"type": "box", "layout": "baseline", "contents": []any{
				Node{"type": "icon", "url": "https://example.com/star.png"},
				textNode("4.0"),
			}},
			Node{"type": "separator", "color": "#EEEEEE"},
			Node{"type": "filler", "flex": int64(2)},
			Node{"type": "button", "style": "primary", "action": Node{
				"type": "uri", "label": "Go", "uri": "https://example.com",
			}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, messaging_api.FlexBoxLAYOUT("horizontal"), box.Layout)
	assert.Equal(t, &messaging_api.MessageAction{Text: "tap"}, box.Action)
	require.Len(t, box.Contents, 4)

	inner := box.Contents[0].(*messaging_api.FlexBox)
	assert.IsType(t, &messaging_api.FlexIcon{}, inner.Contents[0])
	assert.Equal(t, &messaging_api.FlexFiller{Flex: 2}, box.Contents[2])
	button := box.Contents[3].(*messaging_api.FlexButton)
	assert.Equal(t, "Go", button.Action.(*messaging_api.UriAction).Label)
}

func TestComponentBuilder_Build(t *testing.T) {
	tests := []struct {
		name    string
		input   Node
		want    messaging_api.FlexComponentInterface
		wantErr string
	}{
		{
			name: "text with spans",
			input: Node{"type": "text", "contents": []any{
				Node{"type": "span", "text": "Hello", "weight": "bold"},
				Node{"type": "span", "text": " world"},
			}},
			want: &messaging_api.FlexText{
				Text: "Hello",
				Contents: []messaging_api.FlexSpan{
					{Text: "Hello", Weight: messaging_api.FlexSpanWEIGHT("bold")},
					{Text: " world"},
				},
			},
		},
		{
			name:  "image",
			input: Node{"type": "image", "url": "https://example.com/a.png", "size": "full", "aspectMode": "cover"},
			want: &messaging_api.FlexImage{
				Url: "https://example.com/a.png", Size: "full",
				AspectMode: messaging_api.FlexImageASPECT_MODE("cover"),
			},
		},
		{
			name:    "insecure image",
			input:   Node{"type": "image", "url": "http://example.com/a.png"},
			wantErr: "linebot.component.image.invalid",
		},
		{
			name:    "button without action",
			input:   Node{"type": "button", "style": "link"},
			wantErr: "linebot.component.button.invalid",
		},
		{
			name:    "text bad size",
			input:   Node{"type": "text", "text": "x", "size": "huge"},
			wantErr: "linebot.component.text.invalid",
		},
		{
			name:  "spacer",
			input: Node{"type": "spacer", "size": "md"},
			want:  &messaging_api.FlexFiller{},
		},
		{
			name:    "spacer bad size",
			input:   Node{"type": "spacer", "size": "none"},
			wantErr: "linebot.component.spacer.invalid",
		},
		{
			name:    "unknown type",
			input:   Node{"type": "video"},
			wantErr: "linebot.component.type.invalid",
		},
		{
			name:    "nested action is validated",
			input:   Node{"type": "text", "text": "x", "action": Node{"type": "postback"}},
			wantErr: "linebot.action.postback.invalid",
		},
	}
	components := newComponentBuilder()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := components.Build(tt.input)
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

func TestComponentBuilder_BuildContainer(t *testing.T) {
	bubble := Node{
		"type": "bubble",
		"size": "mega",
		"hero": Node{"type": "image", "url": "https://example.com/hero.png", "size": "full"},
		"body": Node{"type": "box", "layout": "vertical", "contents": []any{textNode("Brown Cafe")}},
		"styles": Node{
			"footer": Node{"separator": true, "backgroundColor": "#FFFFFF"},
		},
	}
	components := newComponentBuilder()

	got, err := components.BuildContainer(bubble)
	require.NoError(t, err)
	b := got.(*messaging_api.FlexBubble)
	assert.Equal(t, messaging_api.FlexBubbleSIZE("mega"), b.Size)
	assert.IsType(t, &messaging_api.FlexImage{}, b.Hero)
	assert.Nil(t, b.Header)
	require.NotNil(t, b.Styles)
	assert.Equal(t, &messaging_api.FlexBlockStyle{Separator: true, BackgroundColor: "#FFFFFF"}, b.Styles.Footer)
	assert.Nil(t, b.Styles.Body)

	got, err = components.BuildContainer(Node{"type": "carousel", "contents": []any{bubble, bubble}})
	require.NoError(t, err)
	assert.Len(t, got.(*messaging_api.FlexCarousel).Contents, 2)

	_, err = components.BuildContainer(Node{"type": "bubble", "hero": Node{"type": "text", "text": "x"}})
	assert.Equal(t, "linebot.container.bubble.hero.type.invalid", errorID(err))

	_, err = components.BuildContainer(Node{"type": "bubble", "body": Node{"type": "text", "text": "x"}})
	assert.Equal(t, "linebot.component.box.invalid", errorID(err))

	_, err = components.BuildContainer(Node{"type": "panel"})
	assert.Equal(t, "linebot.container.type.invalid", errorID(err))
}

func TestComponentBuilder_Build_Int32Range(t *testing.T) {
	components := newComponentBuilder()

	_, err := components.Build(Node{"type": "filler", "flex": int64(4294967298)})
	assert.Equal(t, "linebot.component.filler.invalid", errorID(err))

	_, err = components.Build(Node{"type": "text", "text": "x", "maxLines": int64(-3)})
	assert.Equal(t, "linebot.component.text.invalid", errorID(err))

	got, err := components.Build(Node{"type": "filler", "flex": int64(2)})
	require.NoError(t, err)
	assert.Equal(t, &messaging_api.FlexFiller{Flex: 2}, got)
}

func TestDecode_Int32Overflow(t *testing.T) {
	tests := []struct {
		name    string
		flex    any
		wantErr bool
	}{
		{"int64", int64(7), false},
		{"int64 overflow", int64(1) << 40, true},
		{"float overflow", float64(1 << 40), true},
		{"numeric string overflow", "4294967298", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var opts fillerOptions
			err := decode("component.filler", Node{"flex": tt.flex}, &opts)
			if tt.wantErr {
				assert.Equal(t, "linebot.component.filler.invalid", errorID(err))
				return
			}
			require.NoError(t, err)
			assert.EqualValues(t, 7, opts.Flex)
		})
	}
}
