package model

// MessageKind is the platform message type.
type MessageKind int

const (
	MessageKindRegular                                 MessageKind = 0
	MessageKindGroupRecipientAddition                  MessageKind = 1
	MessageKindGroupRecipientRemoval                   MessageKind = 2
	MessageKindGroupCallCreation                       MessageKind = 3
	MessageKindGroupNameUpdate                         MessageKind = 4
	MessageKindGroupIconUpdate                         MessageKind = 5
	MessageKindPinsAdd                                 MessageKind = 6
	MessageKindMemberJoin                              MessageKind = 7
	MessageKindNitroBoost                              MessageKind = 8
	MessageKindNitroTier1                              MessageKind = 9
	MessageKindNitroTier2                              MessageKind = 10
	MessageKindNitroTier3                              MessageKind = 11
	MessageKindChannelFollowAdd                        MessageKind = 12
	MessageKindGuildDiscoveryDisqualified              MessageKind = 14
	MessageKindGuildDiscoveryRequalified               MessageKind = 15
	MessageKindGuildDiscoveryGracePeriodInitialWarning MessageKind = 16
	MessageKindGuildDiscoveryGracePeriodFinalWarning   MessageKind = 17
	MessageKindThreadCreated                           MessageKind = 18
	MessageKindInlineReply                             MessageKind = 19
	MessageKindChatInputCommand                        MessageKind = 20
	MessageKindThreadStarterMessage                    MessageKind = 21
	MessageKindGuildInviteReminder                     MessageKind = 22
	MessageKindContextMenuCommand                      MessageKind = 23
	MessageKindAutoModerationAction                    MessageKind = 24

	// MessageKindUnknown is stored for any type this archiver does not know.
	MessageKindUnknown MessageKind = -1
)

// KindFromPlatform collapses unrecognised message types into MessageKindUnknown.
func KindFromPlatform(value int) MessageKind {
	switch kind := MessageKind(value); kind {
	case MessageKindRegular,
		MessageKindGroupRecipientAddition,
		MessageKindGroupRecipientRemoval,
		MessageKindGroupCallCreation,
		MessageKindGroupNameUpdate,
		MessageKindGroupIconUpdate,
		MessageKindPinsAdd,
		MessageKindMemberJoin,
		MessageKindNitroBoost,
		MessageKindNitroTier1,
		MessageKindNitroTier2,
		MessageKindNitroTier3,
		MessageKindChannelFollowAdd,
		MessageKindGuildDiscoveryDisqualified,
		MessageKindGuildDiscoveryRequalified,
		MessageKindGuildDiscoveryGracePeriodInitialWarning,
		MessageKindGuildDiscoveryGracePeriodFinalWarning,
		MessageKindThreadCreated,
		MessageKindInlineReply,
		MessageKindChatInputCommand,
		MessageKindThreadStarterMessage,
		MessageKindGuildInviteReminder,
		MessageKindContextMenuCommand,
		MessageKindAutoModerationAction:
		return kind
	default:
		return MessageKindUnknown
	}
}

var kindNames = map[MessageKind]string{
	MessageKindRegular:                                 "Regular",
	MessageKindGroupRecipientAddition:                  "GroupRecipientAddition",
	MessageKindGroupRecipientRemoval:                   "GroupRecipientRemoval",
	MessageKindGroupCallCreation:                       "GroupCallCreation",
	MessageKindGroupNameUpdate:                         "GroupNameUpdate",
	MessageKindGroupIconUpdate:                         "GroupIconUpdate",
	MessageKindPinsAdd:                                 "PinsAdd",
	MessageKindMemberJoin:                              "MemberJoin",
	MessageKindNitroBoost:                              "NitroBoost",
	MessageKindNitroTier1:                              "NitroTier1",
	MessageKindNitroTier2:                              "NitroTier2",
	MessageKindNitroTier3:                              "NitroTier3",
	MessageKindChannelFollowAdd:                        "ChannelFollowAdd",
	MessageKindGuildDiscoveryDisqualified:              "GuildDiscoveryDisqualified",
	MessageKindGuildDiscoveryRequalified:               "GuildDiscoveryRequalified",
	MessageKindGuildDiscoveryGracePeriodInitialWarning: "GuildDiscoveryGracePeriodInitialWarning",
	MessageKindGuildDiscoveryGracePeriodFinalWarning:   "GuildDiscoveryGracePeriodFinalWarning",
	MessageKindThreadCreated:                           "ThreadCreated",
	MessageKindInlineReply:                             "InlineReply",
	MessageKindChatInputCommand:                        "ChatInputCommand",
	MessageKindThreadStarterMessage:                    "ThreadStarterMessage",
	MessageKindGuildInviteReminder:                     "GuildInviteReminder",
	MessageKindContextMenuCommand:                      "ContextMenuCommand",
	MessageKindAutoModerationAction:                    "AutoModerationAction",
	MessageKindUnknown:                                 "Unknown",
}

// String - the persisted name of the kind, e.g. "Regular" or "InlineReply".
func (k MessageKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[MessageKindUnknown]
}

// KindFromName parses a persisted kind name. Unrecognised names collapse into
// MessageKindUnknown.
func KindFromName(name string) MessageKind {
	for kind, known := range kindNames {
		if known == name {
			return kind
		}
	}
	return MessageKindUnknown
}
