package linebot

import (
	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"

	"github.com/jollygene/linemsg/internal/node"
)

const (
	// maxQuickReplyItems the platform shows
	maxQuickReplyItems = 13
	// quickReplyItemType is the only item type the platform accepts
	quickReplyItemType = "action"
)

// Fields shared by all message kinds
var (
	messageRules = Rules{
		"quickReply": "object",
		"sender":     "object",
	}
	quickReplyRules = Rules{
		"items": "required,list,max=13",
	}
	quickReplyItemRules = Rules{
		"type":     "string,oneof=action",
		"imageUrl": "string,max=1000,https_url",
		"action":   "required,object",
	}
	senderRules = Rules{
		"name":    "string,max=20",
		"iconUrl": "string,max=1000,https_url",
	}
)

type quickReplyItemOptions struct {
	ImageURL string `mapstructure:"imageUrl"`
	Action   Node   `mapstructure:"action"`
}

type senderOptions struct {
	Name    string `mapstructure:"name"`
	IconURL string `mapstructure:"iconUrl"`
}

// BuildQuickReply builds the quick reply buttons of a message.
// Items with the same action as an earlier item are dropped.
func (c *MessageBuilder) BuildQuickReply(n Node) (*messaging_api.QuickReply, error) {
	const kind = "message.quickReply"
	if err := c.check(kind, n, quickReplyRules); err != nil {
		return nil, err
	}
	nodes, err := list(kind, n, "items")
	if err != nil {
		return nil, err
	}
	var (
		items   = make([]messaging_api.QuickReplyItem, 0, len(nodes))
		replies = make(map[uint64]bool, len(nodes))
	)
	for _, e := range nodes {
		item, err := c.quickReplyItem(e)
		if err != nil {
			return nil, err
		}
		// unique replies index
		if key, err := node.Fingerprint(e.Object("action")); err == nil {
			if replies[key] {
				continue // duplicate
			}
			replies[key] = true
		}
		items = append(items, *item)
	}
	return &messaging_api.QuickReply{Items: items}, nil
}

func (c *MessageBuilder) quickReplyItem(n Node) (*messaging_api.QuickReplyItem, error) {
	const kind = "message.quickReply.item"
	if err := c.check(kind, n, quickReplyItemRules); err != nil {
		return nil, err
	}
	var opts quickReplyItemOptions
	if err := decode(kind, n, &opts); err != nil {
		return nil, err
	}
	action, err := c.actions.Build(opts.Action)
	if err != nil {
		return nil, err
	}
	return &messaging_api.QuickReplyItem{
		Type:     quickReplyItemType,
		ImageUrl: opts.ImageURL,
		Action:   action,
	}, nil
}

// BuildSender builds the sender name and icon override of a message.
func (c *MessageBuilder) BuildSender(n Node) (*messaging_api.Sender, error) {
	const kind = "message.sender"
	if err := c.check(kind, n, senderRules); err != nil {
		return nil, err
	}
	var opts senderOptions
	if err := decode(kind, n, &opts); err != nil {
		return nil, err
	}
	return &messaging_api.Sender{
		Name:    opts.Name,
		IconUrl: opts.IconURL,
	}, nil
}
