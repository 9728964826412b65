package model

// Attachment - a file attached to one iteration of a message.
type Attachment struct {
	ID          AttachmentID `json:"id"                     bson:"id"`
	Filename    string       `json:"filename"               bson:"filename"`
	ContentType string       `json:"content_type,omitempty" bson:"content_type,omitempty"`
	Size        int          `json:"size"                   bson:"size"`
	URL         string       `json:"url"                    bson:"url"`
	ProxyURL    string       `json:"proxy_url"              bson:"proxy_url"`
	Width       int          `json:"width,omitempty"        bson:"width,omitempty"`
	Height      int          `json:"height,omitempty"       bson:"height,omitempty"`
	Ephemeral   bool         `json:"ephemeral,omitempty"    bson:"ephemeral,omitempty"`
}

// Embed - rich content block. Field names follow the gateway payload.
type Embed struct {
	Title       string         `json:"title,omitempty"       bson:"title,omitempty"`
	Type        string         `json:"type,omitempty"        bson:"type,omitempty"`
	Description string         `json:"description,omitempty" bson:"description,omitempty"`
	URL         string         `json:"url,omitempty"         bson:"url,omitempty"`
	Timestamp   string         `json:"timestamp,omitempty"   bson:"timestamp,omitempty"`
	Color       int            `json:"color,omitempty"       bson:"color,omitempty"`
	Footer      *EmbedFooter   `json:"footer,omitempty"      bson:"footer,omitempty"`
	Image       *EmbedMedia    `json:"image,omitempty"       bson:"image,omitempty"`
	Thumbnail   *EmbedMedia    `json:"thumbnail,omitempty"   bson:"thumbnail,omitempty"`
	Video       *EmbedMedia    `json:"video,omitempty"       bson:"video,omitempty"`
	Provider    *EmbedProvider `json:"provider,omitempty"    bson:"provider,omitempty"`
	Author      *EmbedAuthor   `json:"author,omitempty"      bson:"author,omitempty"`
	Fields      []EmbedField   `json:"fields,omitempty"      bson:"fields,omitempty"`
}

type EmbedFooter struct {
	Text         string `json:"text"                     bson:"text"`
	IconURL      string `json:"icon_url,omitempty"       bson:"icon_url,omitempty"`
	ProxyIconURL string `json:"proxy_icon_url,omitempty" bson:"proxy_icon_url,omitempty"`
}

type EmbedMedia struct {
	URL      string `json:"url,omitempty"       bson:"url,omitempty"`
	ProxyURL string `json:"proxy_url,omitempty" bson:"proxy_url,omitempty"`
	Width    int    `json:"width,omitempty"     bson:"width,omitempty"`
	Height   int    `json:"height,omitempty"    bson:"height,omitempty"`
}

type EmbedProvider struct {
	Name string `json:"name,omitempty" bson:"name,omitempty"`
	URL  string `json:"url,omitempty"  bson:"url,omitempty"`
}

type EmbedAuthor struct {
	Name         string `json:"name"                     bson:"name"`
	URL          string `json:"url,omitempty"            bson:"url,omitempty"`
	IconURL      string `json:"icon_url,omitempty"       bson:"icon_url,omitempty"`
	ProxyIconURL string `json:"proxy_icon_url,omitempty" bson:"proxy_icon_url,omitempty"`
}

type EmbedField struct {
	Name   string `json:"name"             bson:"name"`
	Value  string `json:"value"            bson:"value"`
	Inline bool   `json:"inline,omitempty" bson:"inline,omitempty"`
}

// Component - one node of the interactive layout tree (action rows, buttons, menus, inputs).
type Component struct {
	Type        int               `json:"type"                  bson:"type"`
	CustomID    string            `json:"custom_id,omitempty"   bson:"custom_id,omitempty"`
	Label       string            `json:"label,omitempty"       bson:"label,omitempty"`
	Style       int               `json:"style,omitempty"       bson:"style,omitempty"`
	URL         string            `json:"url,omitempty"         bson:"url,omitempty"`
	Disabled    bool              `json:"disabled,omitempty"    bson:"disabled,omitempty"`
	Placeholder string            `json:"placeholder,omitempty" bson:"placeholder,omitempty"`
	MinValues   *int              `json:"min_values,omitempty"  bson:"min_values,omitempty"`
	MaxValues   int               `json:"max_values,omitempty"  bson:"max_values,omitempty"`
	Value       string            `json:"value,omitempty"       bson:"value,omitempty"`
	Emoji       *ComponentEmoji   `json:"emoji,omitempty"       bson:"emoji,omitempty"`
	Options     []ComponentOption `json:"options,omitempty"     bson:"options,omitempty"`
	Components  []Component       `json:"components,omitempty"  bson:"components,omitempty"`
}

type ComponentEmoji struct {
	ID       string `json:"id,omitempty"       bson:"id,omitempty"`
	Name     string `json:"name,omitempty"     bson:"name,omitempty"`
	Animated bool   `json:"animated,omitempty" bson:"animated,omitempty"`
}

type ComponentOption struct {
	Label       string          `json:"label"                 bson:"label"`
	Value       string          `json:"value"                 bson:"value"`
	Description string          `json:"description,omitempty" bson:"description,omitempty"`
	Emoji       *ComponentEmoji `json:"emoji,omitempty"       bson:"emoji,omitempty"`
	Default     bool            `json:"default,omitempty"     bson:"default,omitempty"`
}

// StickerItem - the sticker reference carried by a message, not the sticker itself.
type StickerItem struct {
	ID         StickerID `json:"id"          bson:"id"`
	Name       string    `json:"name"        bson:"name"`
	FormatType int       `json:"format_type" bson:"format_type"`
}

// MessageReference - what a reply, crosspost or pin notification points at.
type MessageReference struct {
	MessageID MessageID `json:"message_id,omitempty" bson:"message_id,omitempty"`
	ChannelID ChannelID `json:"channel_id,omitempty" bson:"channel_id,omitempty"`
	GuildID   GuildID   `json:"guild_id,omitempty"   bson:"guild_id,omitempty"`
}

// Interaction - the slash command or component invocation that produced a message.
type Interaction struct {
	ID     InteractionID `json:"id"      bson:"id"`
	Type   int           `json:"type"    bson:"type"`
	Name   string        `json:"name"    bson:"name"`
	UserID UserID        `json:"user_id" bson:"user_id"`
}
