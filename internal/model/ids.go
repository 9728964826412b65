package model

// Discord snowflakes are carried as their decimal string form, the same way
// the gateway delivers them.
type (
	MessageID     string
	ChannelID     string
	GuildID       string
	UserID        string
	WebhookID     string
	ApplicationID string
	AttachmentID  string
	StickerID     string
	InteractionID string
)

// ToString - get the message ID.
func (id MessageID) ToString() string {
	return string(id)
}

// ToString - get the channel ID.
func (id ChannelID) ToString() string {
	return string(id)
}

// ToString - get the guild ID.
func (id GuildID) ToString() string {
	return string(id)
}

// ToString - get the user ID.
func (id UserID) ToString() string {
	return string(id)
}

// OptionalGuild - nil for an empty guild ID (direct messages).
func OptionalGuild(id string) *GuildID {
	if id == "" {
		return nil
	}
	g := GuildID(id)
	return &g
}

// OptionalWebhook - nil for an empty webhook ID.
func OptionalWebhook(id string) *WebhookID {
	if id == "" {
		return nil
	}
	w := WebhookID(id)
	return &w
}

// OptionalApplication - nil for an empty application ID.
func OptionalApplication(id string) *ApplicationID {
	if id == "" {
		return nil
	}
	a := ApplicationID(id)
	return &a
}
