package linebot

import (
	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
)

// Flex value scales
const (
	spacingScale  = "none xs sm md lg xl xxl"
	textSizeScale = "xxs xs sm md lg xl xxl 3xl 4xl 5xl"
	alignSet      = "start end center"
	gravitySet    = "top bottom center"
	weightSet     = "regular bold"
	styleSet      = "normal italic"
	decorationSet = "none underline line-through"
)

// Flex component field rules per type
var (
	offsetRules = Rules{
		"position":     "string,oneof=relative absolute",
		"offsetTop":    "string",
		"offsetBottom": "string",
		"offsetStart":  "string",
		"offsetEnd":    "string",
	}
	boxRules = merge(offsetRules, Rules{
		"type":            "required,oneof=box",
		"layout":          "required,string,oneof=horizontal vertical baseline",
		"contents":        "required,list",
		"backgroundColor": "string",
		"borderColor":     "string",
		"borderWidth":     "string",
		"cornerRadius":    "string",
		"width":           "string",
		"height":          "string",
		"flex":            countTags,
		"spacing":         "string,oneof=" + spacingScale,
		"margin":          "string,oneof=" + spacingScale,
		"paddingAll":      "string",
		"paddingTop":      "string",
		"paddingBottom":   "string",
		"paddingStart":    "string",
		"paddingEnd":      "string",
		"action":          "object",
	})
	textRules = merge(offsetRules, Rules{
		"text":       "string",
		"contents":   "list",
		"flex":       countTags,
		"margin":     "string,oneof=" + spacingScale,
		"size":       "string,oneof=" + textSizeScale,
		"align":      "string,oneof=" + alignSet,
		"gravity":    "string,oneof=" + gravitySet,
		"wrap":       "boolean",
		"maxLines":   countTags,
		"weight":     "string,oneof=" + weightSet,
		"color":      "string",
		"action":     "object",
		"style":      "string,oneof=" + styleSet,
		"decoration": "string,oneof=" + decorationSet,
	})
	buttonRules = merge(offsetRules, Rules{
		"action":  "required,object",
		"flex":    countTags,
		"margin":  "string,oneof=" + spacingScale,
		"height":  "string,oneof=sm md",
		"style":   "string,oneof=primary secondary link",
		"color":   "string",
		"gravity": "string,oneof=" + gravitySet,
	})
	imageRules = merge(offsetRules, Rules{
		"url":             "required,string,https_url",
		"flex":            countTags,
		"margin":          "string,oneof=" + spacingScale,
		"align":           "string,oneof=" + alignSet,
		"gravity":         "string,oneof=" + gravitySet,
		"size":            "string,oneof=" + textSizeScale + " full",
		"aspectRatio":     "string",
		"aspectMode":      "string,oneof=cover fit",
		"backgroundColor": "string",
		"action":          "object",
	})
	iconRules = merge(offsetRules, Rules{
		"url":         "required,string,https_url",
		"margin":      "string,oneof=" + spacingScale,
		"size":        "string,oneof=" + textSizeScale,
		"aspectRatio": "string",
	})
	spanRules = Rules{
		"type":       "required,oneof=span",
		"text":       "string",
		"color":      "string",
		"size":       "string,oneof=" + textSizeScale,
		"weight":     "string,oneof=" + weightSet,
		"style":      "string,oneof=" + styleSet,
		"decoration": "string,oneof=" + decorationSet,
	}
	separatorRules = Rules{
		"margin": "string,oneof=" + spacingScale,
		"color":  "string",
	}
	fillerRules = Rules{
		"flex": countTags,
	}
	spacerRules = Rules{
		"size": "string,oneof=xs sm md lg xl xxl",
	}
)

// offsetOptions position a component relative to its box
type offsetOptions struct {
	Position     string `mapstructure:"position"`
	OffsetTop    string `mapstructure:"offsetTop"`
	OffsetBottom string `mapstructure:"offsetBottom"`
	OffsetStart  string `mapstructure:"offsetStart"`
	OffsetEnd    string `mapstructure:"offsetEnd"`
}

type boxOptions struct {
	Layout          string `mapstructure:"layout"`
	Flex            int32  `mapstructure:"flex"`
	Spacing         string `mapstructure:"spacing"`
	Margin          string `mapstructure:"margin"`
	BackgroundColor string `mapstructure:"backgroundColor"`
	BorderColor     string `mapstructure:"borderColor"`
	BorderWidth     string `mapstructure:"borderWidth"`
	CornerRadius    string `mapstructure:"cornerRadius"`
	Width           string `mapstructure:"width"`
	Height          string `mapstructure:"height"`
	PaddingAll      string `mapstructure:"paddingAll"`
	PaddingTop      string `mapstructure:"paddingTop"`
	PaddingBottom   string `mapstructure:"paddingBottom"`
	PaddingStart    string `mapstructure:"paddingStart"`
	PaddingEnd      string `mapstructure:"paddingEnd"`
	Action          Node   `mapstructure:"action"`
	offsetOptions   `mapstructure:",squash"`
}

type textOptions struct {
	Text          string `mapstructure:"text"`
	Flex          int32  `mapstructure:"flex"`
	Margin        string `mapstructure:"margin"`
	Size          string `mapstructure:"size"`
	Align         string `mapstructure:"align"`
	Gravity       string `mapstructure:"gravity"`
	Wrap          bool   `mapstructure:"wrap"`
	MaxLines      int32  `mapstructure:"maxLines"`
	Weight        string `mapstructure:"weight"`
	Color         string `mapstructure:"color"`
	Style         string `mapstructure:"style"`
	Decoration    string `mapstructure:"decoration"`
	Action        Node   `mapstructure:"action"`
	offsetOptions `mapstructure:",squash"`
}

type buttonOptions struct {
	Flex          int32  `mapstructure:"flex"`
	Margin        string `mapstructure:"margin"`
	Height        string `mapstructure:"height"`
	Style         string `mapstructure:"style"`
	Color         string `mapstructure:"color"`
	Gravity       string `mapstructure:"gravity"`
	Action        Node   `mapstructure:"action"`
	offsetOptions `mapstructure:",squash"`
}

type imageOptions struct {
	URL             string `mapstructure:"url"`
	Flex            int32  `mapstructure:"flex"`
	Margin          string `mapstructure:"margin"`
	Align           string `mapstructure:"align"`
	Gravity         string `mapstructure:"gravity"`
	Size            string `mapstructure:"size"`
	AspectRatio     string `mapstructure:"aspectRatio"`
	AspectMode      string `mapstructure:"aspectMode"`
	BackgroundColor string `mapstructure:"backgroundColor"`
	Action          Node   `mapstructure:"action"`
	offsetOptions   `mapstructure:",squash"`
}

type iconOptions struct {
	URL           string `mapstructure:"url"`
	Margin        string `mapstructure:"margin"`
	Size          string `mapstructure:"size"`
	AspectRatio   string `mapstructure:"aspectRatio"`
	offsetOptions `mapstructure:",squash"`
}

type spanOptions struct {
	Text       string `mapstructure:"text"`
	Color      string `mapstructure:"color"`
	Size       string `mapstructure:"size"`
	Weight     string `mapstructure:"weight"`
	Style      string `mapstructure:"style"`
	Decoration string `mapstructure:"decoration"`
}

type separatorOptions struct {
	Margin string `mapstructure:"margin"`
	Color  string `mapstructure:"color"`
}

type fillerOptions struct {
	Flex int32 `mapstructure:"flex"`
}

// ComponentBuilder builds flex components and containers.
type ComponentBuilder struct {
	*builder
	actions *ActionBuilder
	kinds   map[string]func(Node) (messaging_api.FlexComponentInterface, error)
}

// NewComponentBuilder returns a ComponentBuilder
// that builds interactive elements with actions.
func NewComponentBuilder(actions *ActionBuilder) *ComponentBuilder {
	c := &ComponentBuilder{
		builder: actions.builder,
		actions: actions,
	}
	c.kinds = map[string]func(Node) (messaging_api.FlexComponentInterface, error){
		"box":       func(n Node) (messaging_api.FlexComponentInterface, error) { return c.BuildBox(n) },
		"text":      c.text,
		"button":    c.button,
		"image":     func(n Node) (messaging_api.FlexComponentInterface, error) { return c.BuildImage(n) },
		"icon":      c.icon,
		"separator": c.separator,
		"filler":    c.filler,
		"spacer":    c.spacer,
	}
	return c
}

// Build dispatches on n.type.
// An unknown type is an error; spans are built from text contents only.
func (c *ComponentBuilder) Build(n Node) (messaging_api.FlexComponentInterface, error) {
	typeOf, err := c.discriminator("component", n)
	if err != nil {
		return nil, err
	}
	build, ok := c.kinds[typeOf]
	if !ok {
		return nil, unknownType("component", typeOf, c.kinds)
	}
	return build(n)
}

// action builds the optional action node; nil when absent
func (c *ComponentBuilder) action(n Node) (messaging_api.ActionInterface, error) {
	if n == nil {
		return nil, nil
	}
	return c.actions.Build(n)
}

// BuildBox builds a box and, recursively, its contents in order.
func (c *ComponentBuilder) BuildBox(n Node) (*messaging_api.FlexBox, error) {
	const kind = "component.box"
	if err := c.check(kind, n, boxRules); err != nil {
		return nil, err
	}
	var opts boxOptions
	if err := decode(kind, n, &opts); err != nil {
		return nil, err
	}
	children, err := list(kind, n, "contents")
	if err != nil {
		return nil, err
	}
	contents := make([]messaging_api.FlexComponentInterface, 0, len(children))
	for _, child := range children {
		component, err := c.Build(child)
		if err != nil {
			return nil, err
		}
		contents = append(contents, component)
	}
	action, err := c.action(opts.Action)
	if err != nil {
		return nil, err
	}
	return &messaging_api.FlexBox{
		Layout:          messaging_api.FlexBoxLAYOUT(opts.Layout),
		Contents:        contents,
		Flex:            opts.Flex,
		Spacing:         opts.Spacing,
		Margin:          opts.Margin,
		Action:          action,
		BackgroundColor: opts.BackgroundColor,
		BorderColor:     opts.BorderColor,
		BorderWidth:     opts.BorderWidth,
		CornerRadius:    opts.CornerRadius,
		Width:           opts.Width,
		Height:          opts.Height,
		PaddingAll:      opts.PaddingAll,
		PaddingTop:      opts.PaddingTop,
		PaddingBottom:   opts.PaddingBottom,
		PaddingStart:    opts.PaddingStart,
		PaddingEnd:      opts.PaddingEnd,
		Position:        messaging_api.FlexBoxPOSITION(opts.Position),
		OffsetTop:       opts.OffsetTop,
		OffsetBottom:    opts.OffsetBottom,
		OffsetStart:     opts.OffsetStart,
		OffsetEnd:       opts.OffsetEnd,
	}, nil
}

// text builds a text component.
// With contents, the visible text is the first span text
// and all spans are attached.
func (c *ComponentBuilder) text(n Node) (messaging_api.FlexComponentInterface, error) {
	const kind = "component.text"
	if err := c.check(kind, n, textRules); err != nil {
		return nil, err
	}
	var opts textOptions
	if err := decode(kind, n, &opts); err != nil {
		return nil, err
	}
	action, err := c.action(opts.Action)
	if err != nil {
		return nil, err
	}
	var spans []messaging_api.FlexSpan
	if n.Has("contents") {
		nodes, err := list(kind, n, "contents")
		if err != nil {
			return nil, err
		}
		spans = make([]messaging_api.FlexSpan, 0, len(nodes))
		for _, e := range nodes {
			span, err := c.BuildSpan(e)
			if err != nil {
				return nil, err
			}
			spans = append(spans, *span)
		}
		if len(spans) > 0 {
			opts.Text = spans[0].Text
		}
	}
	return &messaging_api.FlexText{
		Text:         opts.Text,
		Contents:     spans,
		Flex:         opts.Flex,
		Margin:       opts.Margin,
		Size:         opts.Size,
		Align:        messaging_api.FlexTextALIGN(opts.Align),
		Gravity:      messaging_api.FlexTextGRAVITY(opts.Gravity),
		Wrap:         opts.Wrap,
		MaxLines:     opts.MaxLines,
		Weight:       messaging_api.FlexTextWEIGHT(opts.Weight),
		Color:        opts.Color,
		Action:       action,
		Style:        messaging_api.FlexTextSTYLE(opts.Style),
		Decoration:   messaging_api.FlexTextDECORATION(opts.Decoration),
		Position:     messaging_api.FlexTextPOSITION(opts.Position),
		OffsetTop:    opts.OffsetTop,
		OffsetBottom: opts.OffsetBottom,
		OffsetStart:  opts.OffsetStart,
		OffsetEnd:    opts.OffsetEnd,
	}, nil
}

// BuildSpan builds one span of text contents.
func (c *ComponentBuilder) BuildSpan(n Node) (*messaging_api.FlexSpan, error) {
	const kind = "component.span"
	if err := c.check(kind, n, spanRules); err != nil {
		return nil, err
	}
	var opts spanOptions
	if err := decode(kind, n, &opts); err != nil {
		return nil, err
	}
	return &messaging_api.FlexSpan{
		Text:       opts.Text,
		Size:       opts.Size,
		Color:      opts.Color,
		Weight:     messaging_api.FlexSpanWEIGHT(opts.Weight),
		Style:      messaging_api.FlexSpanSTYLE(opts.Style),
		Decoration: messaging_api.FlexSpanDECORATION(opts.Decoration),
	}, nil
}

func (c *ComponentBuilder) button(n Node) (messaging_api.FlexComponentInterface, error) {
	const kind = "component.button"
	if err := c.check(kind, n, buttonRules); err != nil {
		return nil, err
	}
	var opts buttonOptions
	if err := decode(kind, n, &opts); err != nil {
		return nil, err
	}
	action, err := c.actions.Build(opts.Action)
	if err != nil {
		return nil, err
	}
	return &messaging_api.FlexButton{
		Action:       action,
		Flex:         opts.Flex,
		Margin:       opts.Margin,
		Height:       messaging_api.FlexButtonHEIGHT(opts.Height),
		Style:        messaging_api.FlexButtonSTYLE(opts.Style),
		Color:        opts.Color,
		Gravity:      messaging_api.FlexButtonGRAVITY(opts.Gravity),
		Position:     messaging_api.FlexButtonPOSITION(opts.Position),
		OffsetTop:    opts.OffsetTop,
		OffsetBottom: opts.OffsetBottom,
		OffsetStart:  opts.OffsetStart,
		OffsetEnd:    opts.OffsetEnd,
	}, nil
}

// BuildImage builds an image component; also used for bubble hero.
func (c *ComponentBuilder) BuildImage(n Node) (*messaging_api.FlexImage, error) {
	const kind = "component.image"
	if err := c.check(kind, n, imageRules); err != nil {
		return nil, err
	}
	var opts imageOptions
	if err := decode(kind, n, &opts); err != nil {
		return nil, err
	}
	action, err := c.action(opts.Action)
	if err != nil {
		return nil, err
	}
	return &messaging_api.FlexImage{
		Url:             opts.URL,
		Flex:            opts.Flex,
		Margin:          opts.Margin,
		Align:           messaging_api.FlexImageALIGN(opts.Align),
		Gravity:         messaging_api.FlexImageGRAVITY(opts.Gravity),
		Size:            opts.Size,
		AspectRatio:     opts.AspectRatio,
		AspectMode:      messaging_api.FlexImageASPECT_MODE(opts.AspectMode),
		BackgroundColor: opts.BackgroundColor,
		Action:          action,
		Position:        messaging_api.FlexImagePOSITION(opts.Position),
		OffsetTop:       opts.OffsetTop,
		OffsetBottom:    opts.OffsetBottom,
		OffsetStart:     opts.OffsetStart,
		OffsetEnd:       opts.OffsetEnd,
	}, nil
}

func (c *ComponentBuilder) icon(n Node) (messaging_api.FlexComponentInterface, error) {
	const kind = "component.icon"
	if err := c.check(kind, n, iconRules); err != nil {
		return nil, err
	}
	var opts iconOptions
	if err := decode(kind, n, &opts); err != nil {
		return nil, err
	}
	return &messaging_api.FlexIcon{
		Url:          opts.URL,
		Margin:       opts.Margin,
		Size:         opts.Size,
		AspectRatio:  opts.AspectRatio,
		Position:     messaging_api.FlexIconPOSITION(opts.Position),
		OffsetTop:    opts.OffsetTop,
		OffsetBottom: opts.OffsetBottom,
		OffsetStart:  opts.OffsetStart,
		OffsetEnd:    opts.OffsetEnd,
	}, nil
}

func (c *ComponentBuilder) separator(n Node) (messaging_api.FlexComponentInterface, error) {
	const kind = "component.separator"
	if err := c.check(kind, n, separatorRules); err != nil {
		return nil, err
	}
	var opts separatorOptions
	if err := decode(kind, n, &opts); err != nil {
		return nil, err
	}
	return &messaging_api.FlexSeparator{
		Margin: opts.Margin,
		Color:  opts.Color,
	}, nil
}

func (c *ComponentBuilder) filler(n Node) (messaging_api.FlexComponentInterface, error) {
	const kind = "component.filler"
	if err := c.check(kind, n, fillerRules); err != nil {
		return nil, err
	}
	var opts fillerOptions
	if err := decode(kind, n, &opts); err != nil {
		return nil, err
	}
	return &messaging_api.FlexFiller{Flex: opts.Flex}, nil
}

// spacer is gone from the Messaging API; a valid spacer
// renders as a filler taking the free space instead.
func (c *ComponentBuilder) spacer(n Node) (messaging_api.FlexComponentInterface, error) {
	if err := c.check("component.spacer", n, spacerRules); err != nil {
		return nil, err
	}
	return &messaging_api.FlexFiller{}, nil
}
