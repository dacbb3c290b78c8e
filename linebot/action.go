package linebot

import (
	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
)

// Action field rules per type
var (
	labelRules = Rules{
		"label": "string,max=20",
	}
	postbackRules = Rules{
		"label":       "string,max=20",
		"data":        "required,string,max=300",
		"displayText": "required,string,max=300",
	}
	messageActionRules = Rules{
		"label": "string,max=20",
		"text":  "required,string,max=300",
	}
	uriActionRules = Rules{
		"label":          "string,max=20",
		"uri":            "required,string,max=1000,link_uri",
		"altUri":         "object",
		"altUri.desktop": "string,max=1000,link_uri",
	}
	datetimePickerRules = Rules{
		"label":   "string,max=20",
		"data":    "required,string,max=300",
		"mode":    "required,oneof=date time datetime",
		"initial": "picker_date",
		"max":     "picker_date",
		"min":     "picker_date",
	}
	areaRules = Rules{
		"area":        "required,object",
		"area.x":      "required," + countTags,
		"area.y":      "required," + countTags,
		"area.width":  "required," + countTags,
		"area.height": "required," + countTags,
	}
	imagemapURIRules = merge(areaRules, Rules{
		"linkUri": "required,string,max=1000,link_uri",
	})
	imagemapMessageRules = merge(areaRules, Rules{
		"text": "required,string,max=400",
	})
)

// uri label defaults to this many leading characters of the uri
const uriLabelSize = 20

// actionOptions are the fields of all action kinds.
type actionOptions struct {
	// OPTIONAL. All types. Default: "".
	Label string `mapstructure:"label"`
	// REQUIRED for `postback`, `datetimepicker`.
	Data string `mapstructure:"data"`
	// REQUIRED for `postback`.
	DisplayText string `mapstructure:"displayText"`
	// REQUIRED for `message`.
	Text string `mapstructure:"text"`
	// REQUIRED for `uri`.
	URI    string `mapstructure:"uri"`
	AltURI struct {
		// OPTIONAL. URI opened on LINE for macOS and Windows.
		Desktop string `mapstructure:"desktop"`
	} `mapstructure:"altUri"`
	// REQUIRED for `datetimepicker`: date, time or datetime.
	Mode    string `mapstructure:"mode"`
	Initial string `mapstructure:"initial"`
	Max     string `mapstructure:"max"`
	Min     string `mapstructure:"min"`
}

// areaOptions of an imagemap tappable area, in base size pixels.
type areaOptions struct {
	X      int32 `mapstructure:"x"`
	Y      int32 `mapstructure:"y"`
	Width  int32 `mapstructure:"width"`
	Height int32 `mapstructure:"height"`
}

func (a areaOptions) area() *messaging_api.ImagemapArea {
	return &messaging_api.ImagemapArea{
		X:      a.X,
		Y:      a.Y,
		Width:  a.Width,
		Height: a.Height,
	}
}

// ActionBuilder builds actions of buttons, templates and imagemaps.
type ActionBuilder struct {
	*builder
	kinds map[string]func(Node) (messaging_api.ActionInterface, error)
}

// NewActionBuilder returns an ActionBuilder.
func NewActionBuilder(opts ...Option) *ActionBuilder {
	return newActionBuilder(newBuilder(opts))
}

func newActionBuilder(b *builder) *ActionBuilder {
	c := &ActionBuilder{builder: b}
	c.kinds = map[string]func(Node) (messaging_api.ActionInterface, error){
		"message":        c.messageAction,
		"postback":       c.postbackAction,
		"uri":            c.uriAction,
		"datetimepicker": c.datetimePickerAction,
		"camera":         c.cameraAction,
		"cameraRoll":     c.cameraRollAction,
		"location":       c.locationAction,
	}
	return c
}

// Build dispatches on n.type.
// An unknown type is an error.
func (c *ActionBuilder) Build(n Node) (messaging_api.ActionInterface, error) {
	typeOf, err := c.discriminator("action", n)
	if err != nil {
		return nil, err
	}
	build, ok := c.kinds[typeOf]
	if !ok {
		return nil, unknownType("action", typeOf, c.kinds)
	}
	return build(n)
}

// options validates n and decodes its fields.
func (c *ActionBuilder) options(kind string, n Node, rules Rules) (*actionOptions, error) {
	if err := c.check(kind, n, rules); err != nil {
		return nil, err
	}
	var opts actionOptions
	if err := decode(kind, n, &opts); err != nil {
		return nil, err
	}
	return &opts, nil
}

func (c *ActionBuilder) postbackAction(n Node) (messaging_api.ActionInterface, error) {
	opts, err := c.options("action.postback", n, postbackRules)
	if err != nil {
		return nil, err
	}
	return &messaging_api.PostbackAction{
		Label:       opts.Label,
		Data:        opts.Data,
		DisplayText: opts.DisplayText,
	}, nil
}

func (c *ActionBuilder) messageAction(n Node) (messaging_api.ActionInterface, error) {
	opts, err := c.options("action.message", n, messageActionRules)
	if err != nil {
		return nil, err
	}
	return &messaging_api.MessageAction{
		Label: opts.Label,
		Text:  opts.Text,
	}, nil
}

func (c *ActionBuilder) uriAction(n Node) (messaging_api.ActionInterface, error) {
	opts, err := c.options("action.uri", n, uriActionRules)
	if err != nil {
		return nil, err
	}
	var altURI *messaging_api.AltUri
	if opts.AltURI.Desktop != "" {
		altURI = &messaging_api.AltUri{
			Desktop: opts.AltURI.Desktop,
		}
	}
	return &messaging_api.UriAction{
		Label:  coalesce(opts.Label, truncate(opts.URI, uriLabelSize)),
		Uri:    opts.URI,
		AltUri: altURI,
	}, nil
}

func (c *ActionBuilder) datetimePickerAction(n Node) (messaging_api.ActionInterface, error) {
	opts, err := c.options("action.datetimepicker", n, datetimePickerRules)
	if err != nil {
		return nil, err
	}
	return &messaging_api.DatetimePickerAction{
		Label:   opts.Label,
		Data:    opts.Data,
		Mode:    messaging_api.DatetimePickerActionMODE(opts.Mode),
		Initial: opts.Initial,
		Max:     opts.Max,
		Min:     opts.Min,
	}, nil
}

func (c *ActionBuilder) cameraAction(n Node) (messaging_api.ActionInterface, error) {
	opts, err := c.options("action.camera", n, labelRules)
	if err != nil {
		return nil, err
	}
	return &messaging_api.CameraAction{Label: opts.Label}, nil
}

func (c *ActionBuilder) cameraRollAction(n Node) (messaging_api.ActionInterface, error) {
	opts, err := c.options("action.cameraRoll", n, labelRules)
	if err != nil {
		return nil, err
	}
	return &messaging_api.CameraRollAction{Label: opts.Label}, nil
}

func (c *ActionBuilder) locationAction(n Node) (messaging_api.ActionInterface, error) {
	opts, err := c.options("action.location", n, labelRules)
	if err != nil {
		return nil, err
	}
	return &messaging_api.LocationAction{Label: opts.Label}, nil
}

// imagemapOptions of uri and message imagemap actions
type imagemapOptions struct {
	LinkURI string      `mapstructure:"linkUri"`
	Text    string      `mapstructure:"text"`
	Area    areaOptions `mapstructure:"area"`
}

// BuildImagemapURI builds an imagemap action that opens linkUri.
func (c *ActionBuilder) BuildImagemapURI(n Node) (*messaging_api.UriImagemapAction, error) {
	const kind = "imagemap.action.uri"
	if err := c.check(kind, n, imagemapURIRules); err != nil {
		return nil, err
	}
	var opts imagemapOptions
	if err := decode(kind, n, &opts); err != nil {
		return nil, err
	}
	return &messaging_api.UriImagemapAction{
		LinkUri: opts.LinkURI,
		Area:    opts.Area.area(),
	}, nil
}

// BuildImagemapMessage builds an imagemap action that sends text.
func (c *ActionBuilder) BuildImagemapMessage(n Node) (*messaging_api.MessageImagemapAction, error) {
	const kind = "imagemap.action.message"
	if err := c.check(kind, n, imagemapMessageRules); err != nil {
		return nil, err
	}
	var opts imagemapOptions
	if err := decode(kind, n, &opts); err != nil {
		return nil, err
	}
	return &messaging_api.MessageImagemapAction{
		Text: opts.Text,
		Area: opts.Area.area(),
	}, nil
}

// merge rule tables; later tables win
func merge(tables ...Rules) Rules {
	rules := make(Rules)
	for _, table := range tables {
		for path, tags := range table {
			rules[path] = tags
		}
	}
	return rules
}
