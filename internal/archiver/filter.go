package archiver

import (
	"github.com/plugfox/foxy-archive-server/internal/config"
	"github.com/plugfox/foxy-archive-server/internal/model"
)

type set map[string]struct{}

func newSet(values []string) set {
	s := make(set, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

func (s set) has(v string) bool {
	_, ok := s[v]
	return ok
}

// filter decides which channels and guilds are archived. With a whitelist,
// messages outside of guilds (direct messages) are not archived.
type filter struct {
	whitelist       set
	ignoredGuilds   set
	ignoredChannels set
}

func newFilter(cfg *config.ArchiverConfig) filter {
	return filter{
		whitelist:       newSet(cfg.Whitelist),
		ignoredGuilds:   newSet(cfg.IgnoredGuilds),
		ignoredChannels: newSet(cfg.IgnoredChannels),
	}
}

func (f filter) ignored(channelID model.ChannelID, guildID *model.GuildID) bool {
	if f.ignoredChannels.has(channelID.ToString()) {
		return true
	}
	if guildID == nil {
		return len(f.whitelist) > 0
	}
	guild := guildID.ToString()
	if len(f.whitelist) > 0 && !f.whitelist.has(guild) {
		return true
	}
	return f.ignoredGuilds.has(guild)
}
