package linebot

import (
	"log/slog"
	"strconv"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/micro/micro/v3/service/errors"

	"github.com/jollygene/linemsg/internal/node"
	"github.com/jollygene/linemsg/log"
)

// Message field rules per type
var (
	textMessageRules = merge(messageRules, Rules{
		"text": "required,string",
	})
	stickerMessageRules = merge(messageRules, Rules{
		"packageId": "required,string",
		"stickerId": "required,string",
	})
	mediaMessageRules = merge(messageRules, Rules{
		"originalContentUrl": "required,string,max=1000,https_url",
		"previewImageUrl":    "required,string,max=1000,https_url",
	})
	audioMessageRules = merge(messageRules, Rules{
		"originalContentUrl": "required,string,max=1000,https_url",
		"duration":           "required,integer",
	})
	locationMessageRules = merge(messageRules, Rules{
		"title":     "required,string,max=100",
		"address":   "required,string,max=100",
		"latitude":  "required,numeric",
		"longitude": "required,numeric",
	})
	imagemapRules = merge(messageRules, Rules{
		"baseUrl":         "required,string,max=1000,https_url",
		"altText":         "required,string,max=400",
		"baseSize":        "required,object",
		"baseSize.width":  "required,integer,oneof=1040",
		"baseSize.height": "required," + countTags,
		"video":           "object",
		"actions":         "required,list,max=50",
		"actions.*.type":  "required,oneof=uri message",
	})
	imagemapVideoRules = merge(areaRules, Rules{
		"originalContentUrl":   "required,string,max=1000,https_url",
		"previewImageUrl":      "required,string,max=1000,https_url",
		"externalLink":         "object",
		"externalLink.linkUri": "required,string,max=1000,link_uri",
		"externalLink.label":   "string,max=30",
	})
	templateMessageRules = merge(messageRules, Rules{
		"altText":       "required,string,max=400",
		"template":      "required,object",
		"template.type": "required,oneof=confirm buttons carousel image_carousel",
	})
	flexMessageRules = merge(messageRules, Rules{
		"altText":       "required,string,max=400",
		"contents":      "required,object",
		"contents.type": "required,oneof=bubble carousel",
	})
)

// messageOptions are the fields of all message kinds.
type messageOptions struct {
	// REQUIRED for `text`.
	Text string `mapstructure:"text"`
	// REQUIRED for `sticker`.
	PackageID string `mapstructure:"packageId"`
	StickerID string `mapstructure:"stickerId"`
	// REQUIRED for `image`, `video`, `audio`.
	OriginalContentURL string `mapstructure:"originalContentUrl"`
	// REQUIRED for `image`, `video`.
	PreviewImageURL string `mapstructure:"previewImageUrl"`
	// REQUIRED for `audio`. Milliseconds.
	Duration int64 `mapstructure:"duration"`
	// REQUIRED for `location`.
	Title     string  `mapstructure:"title"`
	Address   string  `mapstructure:"address"`
	Latitude  float64 `mapstructure:"latitude"`
	Longitude float64 `mapstructure:"longitude"`
	// REQUIRED for `imagemap`, `template`, `flex`.
	AltText string `mapstructure:"altText"`
	// REQUIRED for `imagemap`.
	BaseURL  string `mapstructure:"baseUrl"`
	BaseSize struct {
		Width  int32 `mapstructure:"width"`
		Height int32 `mapstructure:"height"`
	} `mapstructure:"baseSize"`
	// OPTIONAL for `imagemap`.
	Video Node `mapstructure:"video"`
	// REQUIRED for `template`.
	Template Node `mapstructure:"template"`
	// REQUIRED for `flex`.
	Contents Node `mapstructure:"contents"`
	// OPTIONAL. All types.
	QuickReply Node `mapstructure:"quickReply"`
	Sender     Node `mapstructure:"sender"`

	quickReply *messaging_api.QuickReply
	sender     *messaging_api.Sender
}

type imagemapVideoOptions struct {
	OriginalContentURL string      `mapstructure:"originalContentUrl"`
	PreviewImageURL    string      `mapstructure:"previewImageUrl"`
	Area               areaOptions `mapstructure:"area"`
	ExternalLink       *struct {
		LinkURI string `mapstructure:"linkUri"`
		Label   string `mapstructure:"label"`
	} `mapstructure:"externalLink"`
}

// MessageBuilder is the entry point: it builds
// sendable messages from configuration nodes.
// Safe for concurrent use.
type MessageBuilder struct {
	*builder
	actions    *ActionBuilder
	components *ComponentBuilder
	templates  *TemplateBuilder
	kinds      map[string]func(Node) (messaging_api.MessageInterface, error)
}

// New returns a MessageBuilder with all node builders wired.
func New(opts ...Option) *MessageBuilder {
	actions := newActionBuilder(newBuilder(opts))
	c := &MessageBuilder{
		builder:    actions.builder,
		actions:    actions,
		components: NewComponentBuilder(actions),
		templates:  NewTemplateBuilder(actions),
	}
	c.kinds = map[string]func(Node) (messaging_api.MessageInterface, error){
		"text":     c.textMessage,
		"sticker":  c.stickerMessage,
		"image":    c.imageMessage,
		"video":    c.videoMessage,
		"audio":    c.audioMessage,
		"location": c.locationMessage,
		"imagemap": c.imagemapMessage,
		"template": c.templateMessage,
		"flex":     c.flexMessage,
	}
	return c
}

// Actions returns the underlying action builder.
func (c *MessageBuilder) Actions() *ActionBuilder {
	return c.actions
}

// Components returns the underlying flex component builder.
func (c *MessageBuilder) Components() *ComponentBuilder {
	return c.components
}

// Templates returns the underlying template builder.
func (c *MessageBuilder) Templates() *TemplateBuilder {
	return c.templates
}

// Build dispatches on n.type.
// An unknown type is an error.
func (c *MessageBuilder) Build(n Node) (messaging_api.MessageInterface, error) {
	typeOf, err := c.discriminator("message", n)
	if err != nil {
		return nil, err
	}
	build, ok := c.kinds[typeOf]
	if !ok {
		return nil, unknownType("message", typeOf, c.kinds)
	}
	msg, err := build(n)
	if err != nil {
		c.log.Debug("linebot: build message",
			slog.String("type", typeOf),
			slog.Any("error", err),
		)
		return nil, err
	}
	c.log.Debug("linebot: build message",
		slog.String("type", typeOf),
		slog.Any("hash", log.DeferValue(func() slog.Value {
			return slog.StringValue(node.FingerprintString(n))
		})),
	)
	return msg, nil
}

// BuildBatch builds all nodes, in order.
// The first failure aborts the batch; no partial result.
func (c *MessageBuilder) BuildBatch(nodes []Node) ([]messaging_api.MessageInterface, error) {
	messages := make([]messaging_api.MessageInterface, 0, len(nodes))
	for i, n := range nodes {
		msg, err := c.Build(n)
		if err != nil {
			re := errors.FromError(err)
			re.Detail = "messages[" + strconv.Itoa(i) + "]: " + re.Detail
			return nil, re
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

// BuildJSON builds one message from JSON text.
func (c *MessageBuilder) BuildJSON(data []byte) (messaging_api.MessageInterface, error) {
	tree, err := node.ParseJSON(data)
	if err != nil {
		return nil, err
	}
	return c.buildTree(tree)
}

// BuildBatchJSON builds messages from a JSON array text.
func (c *MessageBuilder) BuildBatchJSON(data []byte) ([]messaging_api.MessageInterface, error) {
	tree, err := node.ParseJSON(data)
	if err != nil {
		return nil, err
	}
	return c.buildBatchTree(tree)
}

// BuildYAML builds one message from YAML text.
func (c *MessageBuilder) BuildYAML(data []byte) (messaging_api.MessageInterface, error) {
	tree, err := node.ParseYAML(data)
	if err != nil {
		return nil, err
	}
	return c.buildTree(tree)
}

// BuildBatchYAML builds messages from a YAML sequence text.
func (c *MessageBuilder) BuildBatchYAML(data []byte) ([]messaging_api.MessageInterface, error) {
	tree, err := node.ParseYAML(data)
	if err != nil {
		return nil, err
	}
	return c.buildBatchTree(tree)
}

func (c *MessageBuilder) buildTree(tree any) (messaging_api.MessageInterface, error) {
	n, ok := node.AsObject(tree)
	if !ok {
		return nil, errors.BadRequest(
			"linebot.message.invalid",
			"message: object expected; got %T", tree,
		)
	}
	return c.Build(n)
}

func (c *MessageBuilder) buildBatchTree(tree any) ([]messaging_api.MessageInterface, error) {
	if tree == nil {
		return nil, errors.BadRequest(
			"linebot.messages.invalid",
			"messages: list expected",
		)
	}
	nodes, err := list("messages", Node{"messages": tree}, "messages")
	if err != nil {
		return nil, err
	}
	return c.BuildBatch(nodes)
}

// options validates n and decodes its fields.
func (c *MessageBuilder) options(kind string, n Node, rules Rules) (*messageOptions, error) {
	if err := c.check(kind, n, rules); err != nil {
		return nil, err
	}
	var (
		err  error
		opts messageOptions
	)
	if err = decode(kind, n, &opts); err != nil {
		return nil, err
	}
	if opts.QuickReply != nil {
		if opts.quickReply, err = c.BuildQuickReply(opts.QuickReply); err != nil {
			return nil, err
		}
	}
	if opts.Sender != nil {
		if opts.sender, err = c.BuildSender(opts.Sender); err != nil {
			return nil, err
		}
	}
	return &opts, nil
}

func (c *MessageBuilder) textMessage(n Node) (messaging_api.MessageInterface, error) {
	opts, err := c.options("message.text", n, textMessageRules)
	if err != nil {
		return nil, err
	}
	return &messaging_api.TextMessage{
		Text:       opts.Text,
		QuickReply: opts.quickReply,
		Sender:     opts.sender,
	}, nil
}

func (c *MessageBuilder) stickerMessage(n Node) (messaging_api.MessageInterface, error) {
	opts, err := c.options("message.sticker", n, stickerMessageRules)
	if err != nil {
		return nil, err
	}
	return &messaging_api.StickerMessage{
		PackageId:  opts.PackageID,
		StickerId:  opts.StickerID,
		QuickReply: opts.quickReply,
		Sender:     opts.sender,
	}, nil
}

func (c *MessageBuilder) imageMessage(n Node) (messaging_api.MessageInterface, error) {
	opts, err := c.options("message.image", n, mediaMessageRules)
	if err != nil {
		return nil, err
	}
	return &messaging_api.ImageMessage{
		OriginalContentUrl: opts.OriginalContentURL,
		PreviewImageUrl:    opts.PreviewImageURL,
		QuickReply:         opts.quickReply,
		Sender:             opts.sender,
	}, nil
}

func (c *MessageBuilder) videoMessage(n Node) (messaging_api.MessageInterface, error) {
	opts, err := c.options("message.video", n, mediaMessageRules)
	if err != nil {
		return nil, err
	}
	return &messaging_api.VideoMessage{
		OriginalContentUrl: opts.OriginalContentURL,
		PreviewImageUrl:    opts.PreviewImageURL,
		QuickReply:         opts.quickReply,
		Sender:             opts.sender,
	}, nil
}

func (c *MessageBuilder) audioMessage(n Node) (messaging_api.MessageInterface, error) {
	opts, err := c.options("message.audio", n, audioMessageRules)
	if err != nil {
		return nil, err
	}
	return &messaging_api.AudioMessage{
		OriginalContentUrl: opts.OriginalContentURL,
		Duration:           opts.Duration,
		QuickReply:         opts.quickReply,
		Sender:             opts.sender,
	}, nil
}

func (c *MessageBuilder) locationMessage(n Node) (messaging_api.MessageInterface, error) {
	opts, err := c.options("message.location", n, locationMessageRules)
	if err != nil {
		return nil, err
	}
	return &messaging_api.LocationMessage{
		Title:      opts.Title,
		Address:    opts.Address,
		Latitude:   opts.Latitude,
		Longitude:  opts.Longitude,
		QuickReply: opts.quickReply,
		Sender:     opts.sender,
	}, nil
}

func (c *MessageBuilder) imagemapMessage(n Node) (messaging_api.MessageInterface, error) {
	const kind = "message.imagemap"
	opts, err := c.options(kind, n, imagemapRules)
	if err != nil {
		return nil, err
	}
	nodes, err := list(kind, n, "actions")
	if err != nil {
		return nil, err
	}
	actions := make([]messaging_api.ImagemapActionInterface, 0, len(nodes))
	for _, e := range nodes {
		var action messaging_api.ImagemapActionInterface
		switch e.Type() {
		case "uri":
			action, err = c.actions.BuildImagemapURI(e)
		case "message":
			action, err = c.actions.BuildImagemapMessage(e)
		}
		if err != nil {
			return nil, err
		}
		actions = append(actions, action)
	}
	var video *messaging_api.ImagemapVideo
	if opts.Video != nil {
		if video, err = c.BuildImagemapVideo(opts.Video); err != nil {
			return nil, err
		}
	}
	return &messaging_api.ImagemapMessage{
		BaseUrl: opts.BaseURL,
		AltText: opts.AltText,
		BaseSize: &messaging_api.ImagemapBaseSize{
			Width:  opts.BaseSize.Width,
			Height: opts.BaseSize.Height,
		},
		Actions:    actions,
		Video:      video,
		QuickReply: opts.quickReply,
		Sender:     opts.sender,
	}, nil
}

// BuildImagemapVideo builds the video played within an imagemap area.
func (c *MessageBuilder) BuildImagemapVideo(n Node) (*messaging_api.ImagemapVideo, error) {
	const kind = "message.imagemap.video"
	if err := c.check(kind, n, imagemapVideoRules); err != nil {
		return nil, err
	}
	var opts imagemapVideoOptions
	if err := decode(kind, n, &opts); err != nil {
		return nil, err
	}
	var externalLink *messaging_api.ImagemapExternalLink
	if link := opts.ExternalLink; link != nil {
		externalLink = &messaging_api.ImagemapExternalLink{
			LinkUri: link.LinkURI,
			Label:   link.Label,
		}
	}
	return &messaging_api.ImagemapVideo{
		OriginalContentUrl: opts.OriginalContentURL,
		PreviewImageUrl:    opts.PreviewImageURL,
		Area:               opts.Area.area(),
		ExternalLink:       externalLink,
	}, nil
}

func (c *MessageBuilder) templateMessage(n Node) (messaging_api.MessageInterface, error) {
	opts, err := c.options("message.template", n, templateMessageRules)
	if err != nil {
		return nil, err
	}
	template, err := c.templates.Build(opts.Template)
	if err != nil {
		return nil, err
	}
	return &messaging_api.TemplateMessage{
		AltText:    opts.AltText,
		Template:   template,
		QuickReply: opts.quickReply,
		Sender:     opts.sender,
	}, nil
}

func (c *MessageBuilder) flexMessage(n Node) (messaging_api.MessageInterface, error) {
	opts, err := c.options("message.flex", n, flexMessageRules)
	if err != nil {
		return nil, err
	}
	contents, err := c.components.BuildContainer(opts.Contents)
	if err != nil {
		return nil, err
	}
	return &messaging_api.FlexMessage{
		AltText:    opts.AltText,
		Contents:   contents,
		QuickReply: opts.quickReply,
		Sender:     opts.sender,
	}, nil
}
