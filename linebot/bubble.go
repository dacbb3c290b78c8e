package linebot

import (
	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
)

var (
	bubbleRules = Rules{
		"size":      "string,oneof=nano micro kilo mega giga",
		"direction": "string,oneof=ltr rtl",
		"header":    "object",
		"hero":      "object",
		"body":      "object",
		"footer":    "object",
		"styles":    "object",
		"action":    "object",
	}
	bubbleStylesRules = Rules{
		"header": "object",
		"hero":   "object",
		"body":   "object",
		"footer": "object",
	}
	blockStyleRules = Rules{
		"backgroundColor": "string",
		"separator":       "boolean",
		"separatorColor":  "string",
	}
	carouselRules = Rules{
		"contents": "required,list",
	}
)

type bubbleOptions struct {
	Size      string `mapstructure:"size"`
	Direction string `mapstructure:"direction"`
	Header    Node   `mapstructure:"header"`
	Hero      Node   `mapstructure:"hero"`
	Body      Node   `mapstructure:"body"`
	Footer    Node   `mapstructure:"footer"`
	Styles    Node   `mapstructure:"styles"`
	Action    Node   `mapstructure:"action"`
}

type blockStyleOptions struct {
	BackgroundColor string `mapstructure:"backgroundColor"`
	Separator       bool   `mapstructure:"separator"`
	SeparatorColor  string `mapstructure:"separatorColor"`
}

// BuildBubble builds a bubble container.
// Header, body and footer are boxes; hero is a box or an image.
func (c *ComponentBuilder) BuildBubble(n Node) (*messaging_api.FlexBubble, error) {
	const kind = "container.bubble"
	if err := c.check(kind, n, bubbleRules); err != nil {
		return nil, err
	}
	var opts bubbleOptions
	if err := decode(kind, n, &opts); err != nil {
		return nil, err
	}

	var (
		err    error
		bubble = &messaging_api.FlexBubble{
			Size:      messaging_api.FlexBubbleSIZE(opts.Size),
			Direction: messaging_api.FlexBubbleDIRECTION(opts.Direction),
		}
	)
	if opts.Header != nil {
		if bubble.Header, err = c.BuildBox(opts.Header); err != nil {
			return nil, err
		}
	}
	if opts.Hero != nil {
		if bubble.Hero, err = c.hero(opts.Hero); err != nil {
			return nil, err
		}
	}
	if opts.Body != nil {
		if bubble.Body, err = c.BuildBox(opts.Body); err != nil {
			return nil, err
		}
	}
	if opts.Footer != nil {
		if bubble.Footer, err = c.BuildBox(opts.Footer); err != nil {
			return nil, err
		}
	}
	if opts.Styles != nil {
		if bubble.Styles, err = c.BuildBubbleStyles(opts.Styles); err != nil {
			return nil, err
		}
	}
	if bubble.Action, err = c.action(opts.Action); err != nil {
		return nil, err
	}
	return bubble, nil
}

// hero block of a bubble: box or image
func (c *ComponentBuilder) hero(n Node) (messaging_api.FlexComponentInterface, error) {
	switch typeOf := n.Type(); typeOf {
	case "box":
		return c.BuildBox(n)
	case "image":
		return c.BuildImage(n)
	default:
		return nil, unknownType("container.bubble.hero", typeOf, map[string]bool{
			"box": true, "image": true,
		})
	}
}

// BuildBubbleStyles builds per-block style overrides of a bubble.
func (c *ComponentBuilder) BuildBubbleStyles(n Node) (*messaging_api.FlexBubbleStyles, error) {
	const kind = "container.bubble.styles"
	if err := c.check(kind, n, bubbleStylesRules); err != nil {
		return nil, err
	}
	var (
		err    error
		styles = &messaging_api.FlexBubbleStyles{}
	)
	for _, block := range []struct {
		name string
		dst  **messaging_api.FlexBlockStyle
	}{
		{"header", &styles.Header},
		{"hero", &styles.Hero},
		{"body", &styles.Body},
		{"footer", &styles.Footer},
	} {
		style := n.Object(block.name)
		if style == nil {
			continue
		}
		if *block.dst, err = c.BuildBlockStyle(style); err != nil {
			return nil, err
		}
	}
	return styles, nil
}

// BuildBlockStyle builds the style of one bubble block.
func (c *ComponentBuilder) BuildBlockStyle(n Node) (*messaging_api.FlexBlockStyle, error) {
	const kind = "container.bubble.style"
	if err := c.check(kind, n, blockStyleRules); err != nil {
		return nil, err
	}
	var opts blockStyleOptions
	if err := decode(kind, n, &opts); err != nil {
		return nil, err
	}
	return &messaging_api.FlexBlockStyle{
		BackgroundColor: opts.BackgroundColor,
		Separator:       opts.Separator,
		SeparatorColor:  opts.SeparatorColor,
	}, nil
}

// BuildCarousel builds a carousel of independent bubbles, in order.
// The platform limit on bubbles count is not checked here.
func (c *ComponentBuilder) BuildCarousel(n Node) (*messaging_api.FlexCarousel, error) {
	const kind = "container.carousel"
	if err := c.check(kind, n, carouselRules); err != nil {
		return nil, err
	}
	nodes, err := list(kind, n, "contents")
	if err != nil {
		return nil, err
	}
	bubbles := make([]messaging_api.FlexBubble, 0, len(nodes))
	for _, e := range nodes {
		bubble, err := c.BuildBubble(e)
		if err != nil {
			return nil, err
		}
		bubbles = append(bubbles, *bubble)
	}
	return &messaging_api.FlexCarousel{Contents: bubbles}, nil
}

// BuildContainer dispatches flex contents on type: bubble or carousel.
func (c *ComponentBuilder) BuildContainer(n Node) (messaging_api.FlexContainerInterface, error) {
	typeOf, err := c.discriminator("container", n)
	if err != nil {
		return nil, err
	}
	switch typeOf {
	case "bubble":
		return c.BuildBubble(n)
	case "carousel":
		return c.BuildCarousel(n)
	}
	return nil, unknownType("container", typeOf, map[string]bool{
		"bubble": true, "carousel": true,
	})
}
