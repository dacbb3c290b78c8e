package linebot

import (
	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
)

// Template defaults
const (
	defaultImageAspectRatio = "rectangle"
	defaultImageSize        = "cover"
	defaultImageBackground  = "#FFFFFF"
)

// Template field rules per type
var (
	confirmRules = Rules{
		"text":    "required,string,max=240",
		"actions": "required,list,min=2,max=2",
	}
	buttonsRules = Rules{
		"thumbnailImageUrl":    "string,max=1000,https_url",
		"imageAspectRatio":     "string,oneof=rectangle square",
		"imageSize":            "string,oneof=cover contain",
		"imageBackgroundColor": "string",
		"title":                "string,max=40",
		"text":                 "required,string,max=160",
		"defaultAction":        "object",
		"actions":              "required,list,max=4",
	}
	carouselTemplateRules = Rules{
		"columns":          "required,list,max=10",
		"imageAspectRatio": "string,oneof=rectangle square",
		"imageSize":        "string,oneof=cover contain",
	}
	carouselColumnRules = Rules{
		"thumbnailImageUrl":    "string,max=1000,https_url",
		"imageBackgroundColor": "string",
		"title":                "string,max=40",
		"text":                 "required,string,max=120",
		"defaultAction":        "object",
		"actions":              "required,list,max=3",
	}
	imageCarouselRules = Rules{
		"columns": "required,list,max=10",
	}
	imageCarouselColumnRules = Rules{
		"thumbnailImageUrl": "required,string,max=1000,https_url",
		"action":            "required,object",
	}
)

// templateOptions are the fields of all template kinds and carousel columns.
type templateOptions struct {
	// REQUIRED for `confirm`, `buttons` and carousel columns.
	Text string `mapstructure:"text"`
	// OPTIONAL. Default: "".
	Title string `mapstructure:"title"`
	// OPTIONAL. HTTPS image URL.
	ThumbnailImageURL string `mapstructure:"thumbnailImageUrl"`
	// OPTIONAL. Default: "rectangle".
	ImageAspectRatio string `mapstructure:"imageAspectRatio"`
	// OPTIONAL. Default: "cover".
	ImageSize string `mapstructure:"imageSize"`
	// OPTIONAL. Default: "#FFFFFF".
	ImageBackgroundColor string `mapstructure:"imageBackgroundColor"`
	// OPTIONAL. Action of a tap on image, title or text.
	DefaultAction Node `mapstructure:"defaultAction"`
	// OPTIONAL. `image_carousel` column action.
	Action Node `mapstructure:"action"`
}

// TemplateBuilder builds template message payloads.
type TemplateBuilder struct {
	*builder
	actions *ActionBuilder
	kinds   map[string]func(Node) (messaging_api.TemplateInterface, error)
}

// NewTemplateBuilder returns a TemplateBuilder
// that builds template actions with actions.
func NewTemplateBuilder(actions *ActionBuilder) *TemplateBuilder {
	c := &TemplateBuilder{
		builder: actions.builder,
		actions: actions,
	}
	c.kinds = map[string]func(Node) (messaging_api.TemplateInterface, error){
		"confirm":        func(n Node) (messaging_api.TemplateInterface, error) { return c.BuildConfirm(n) },
		"buttons":        func(n Node) (messaging_api.TemplateInterface, error) { return c.BuildButtons(n) },
		"carousel":       func(n Node) (messaging_api.TemplateInterface, error) { return c.BuildCarousel(n) },
		"image_carousel": func(n Node) (messaging_api.TemplateInterface, error) { return c.BuildImageCarousel(n) },
	}
	return c
}

// Build dispatches on n.type.
// An unknown type is an error.
func (c *TemplateBuilder) Build(n Node) (messaging_api.TemplateInterface, error) {
	typeOf, err := c.discriminator("template", n)
	if err != nil {
		return nil, err
	}
	build, ok := c.kinds[typeOf]
	if !ok {
		return nil, unknownType("template", typeOf, c.kinds)
	}
	return build(n)
}

func (c *TemplateBuilder) options(kind string, n Node, rules Rules) (*templateOptions, error) {
	if err := c.check(kind, n, rules); err != nil {
		return nil, err
	}
	var opts templateOptions
	if err := decode(kind, n, &opts); err != nil {
		return nil, err
	}
	return &opts, nil
}

// buildActions builds the actions list at key, in order
func (c *TemplateBuilder) buildActions(kind string, n Node, key string) ([]messaging_api.ActionInterface, error) {
	nodes, err := list(kind, n, key)
	if err != nil {
		return nil, err
	}
	actions := make([]messaging_api.ActionInterface, 0, len(nodes))
	for _, e := range nodes {
		action, err := c.actions.Build(e)
		if err != nil {
			return nil, err
		}
		actions = append(actions, action)
	}
	return actions, nil
}

// defaultAction builds the optional default action; nil when absent
func (c *TemplateBuilder) defaultAction(n Node) (messaging_api.ActionInterface, error) {
	if n == nil {
		return nil, nil
	}
	return c.actions.Build(n)
}

// BuildConfirm builds a confirm template: text with exactly two actions.
func (c *TemplateBuilder) BuildConfirm(n Node) (*messaging_api.ConfirmTemplate, error) {
	const kind = "template.confirm"
	opts, err := c.options(kind, n, confirmRules)
	if err != nil {
		return nil, err
	}
	actions, err := c.buildActions(kind, n, "actions")
	if err != nil {
		return nil, err
	}
	return &messaging_api.ConfirmTemplate{
		Text:    opts.Text,
		Actions: actions,
	}, nil
}

// BuildButtons builds a buttons template with up to four actions.
func (c *TemplateBuilder) BuildButtons(n Node) (*messaging_api.ButtonsTemplate, error) {
	const kind = "template.buttons"
	opts, err := c.options(kind, n, buttonsRules)
	if err != nil {
		return nil, err
	}
	defaultAction, err := c.defaultAction(opts.DefaultAction)
	if err != nil {
		return nil, err
	}
	actions, err := c.buildActions(kind, n, "actions")
	if err != nil {
		return nil, err
	}
	return &messaging_api.ButtonsTemplate{
		ThumbnailImageUrl:    opts.ThumbnailImageURL,
		ImageAspectRatio:     coalesce(opts.ImageAspectRatio, defaultImageAspectRatio),
		ImageSize:            coalesce(opts.ImageSize, defaultImageSize),
		ImageBackgroundColor: coalesce(opts.ImageBackgroundColor, defaultImageBackground),
		Title:                opts.Title,
		Text:                 opts.Text,
		DefaultAction:        defaultAction,
		Actions:              actions,
	}, nil
}

// BuildCarousel builds a carousel template of up to ten columns.
// Image aspect ratio and size are shared by all columns.
func (c *TemplateBuilder) BuildCarousel(n Node) (*messaging_api.CarouselTemplate, error) {
	const kind = "template.carousel"
	opts, err := c.options(kind, n, carouselTemplateRules)
	if err != nil {
		return nil, err
	}
	nodes, err := list(kind, n, "columns")
	if err != nil {
		return nil, err
	}
	columns := make([]messaging_api.CarouselColumn, 0, len(nodes))
	for _, e := range nodes {
		column, err := c.BuildCarouselColumn(e)
		if err != nil {
			return nil, err
		}
		columns = append(columns, *column)
	}
	return &messaging_api.CarouselTemplate{
		Columns:          columns,
		ImageAspectRatio: coalesce(opts.ImageAspectRatio, defaultImageAspectRatio),
		ImageSize:        coalesce(opts.ImageSize, defaultImageSize),
	}, nil
}

// BuildCarouselColumn builds one column of a carousel template.
func (c *TemplateBuilder) BuildCarouselColumn(n Node) (*messaging_api.CarouselColumn, error) {
	const kind = "template.carousel.column"
	opts, err := c.options(kind, n, carouselColumnRules)
	if err != nil {
		return nil, err
	}
	defaultAction, err := c.defaultAction(opts.DefaultAction)
	if err != nil {
		return nil, err
	}
	actions, err := c.buildActions(kind, n, "actions")
	if err != nil {
		return nil, err
	}
	return &messaging_api.CarouselColumn{
		ThumbnailImageUrl:    opts.ThumbnailImageURL,
		ImageBackgroundColor: coalesce(opts.ImageBackgroundColor, defaultImageBackground),
		Title:                opts.Title,
		Text:                 opts.Text,
		DefaultAction:        defaultAction,
		Actions:              actions,
	}, nil
}

// BuildImageCarousel builds an image carousel template of up to ten columns.
func (c *TemplateBuilder) BuildImageCarousel(n Node) (*messaging_api.ImageCarouselTemplate, error) {
	const kind = "template.image_carousel"
	if err := c.check(kind, n, imageCarouselRules); err != nil {
		return nil, err
	}
	nodes, err := list(kind, n, "columns")
	if err != nil {
		return nil, err
	}
	columns := make([]messaging_api.ImageCarouselColumn, 0, len(nodes))
	for _, e := range nodes {
		column, err := c.BuildImageCarouselColumn(e)
		if err != nil {
			return nil, err
		}
		columns = append(columns, *column)
	}
	return &messaging_api.ImageCarouselTemplate{Columns: columns}, nil
}

// BuildImageCarouselColumn builds one image with its tap action.
func (c *TemplateBuilder) BuildImageCarouselColumn(n Node) (*messaging_api.ImageCarouselColumn, error) {
	const kind = "template.image_carousel.column"
	opts, err := c.options(kind, n, imageCarouselColumnRules)
	if err != nil {
		return nil, err
	}
	action, err := c.actions.Build(opts.Action)
	if err != nil {
		return nil, err
	}
	return &messaging_api.ImageCarouselColumn{
		ImageUrl: opts.ThumbnailImageURL,
		Action:   action,
	}, nil
}
