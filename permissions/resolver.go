package permissions

import (
	"github.com/bwmarrin/discordgo"

	"discord-archiver/model"
)

// ResolveOverwrites computes the effective access entries for one channel.
// The first entry is always synthesized from the guild's default role; the
// rest mirror the explicit overwrites in the order the platform exposes
// them. For each overwrite, a capability is the allow bit when set, the
// negated deny bit when set, and otherwise inherits the base entry's value.
// roleNames maps role IDs to display names for the snapshot.
func ResolveOverwrites(everyone *discordgo.Role, overwrites []*discordgo.PermissionOverwrite, roleNames map[string]string) []model.AccessEntry {
	base := model.AccessEntry{
		PrincipalType:  "role",
		PrincipalID:    everyone.ID,
		PrincipalName:  everyone.Name,
		Allow:          Set(everyone.Permissions),
		Deny:           Set(0),
		CanView:        everyone.Permissions&discordgo.PermissionViewChannel != 0,
		CanReadHistory: everyone.Permissions&discordgo.PermissionReadMessageHistory != 0,
		CanSend:        everyone.Permissions&discordgo.PermissionSendMessages != 0,
	}

	entries := []model.AccessEntry{base}
	for _, ow := range overwrites {
		entry := model.AccessEntry{
			PrincipalID:    ow.ID,
			Allow:          Set(ow.Allow),
			Deny:           Set(ow.Deny),
			CanView:        effective(ow, discordgo.PermissionViewChannel, base.CanView),
			CanReadHistory: effective(ow, discordgo.PermissionReadMessageHistory, base.CanReadHistory),
			CanSend:        effective(ow, discordgo.PermissionSendMessages, base.CanSend),
		}
		if ow.Type == discordgo.PermissionOverwriteTypeRole {
			entry.PrincipalType = "role"
			entry.PrincipalName = roleNames[ow.ID]
		} else {
			entry.PrincipalType = "member"
		}
		entries = append(entries, entry)
	}
	return entries
}

func effective(ow *discordgo.PermissionOverwrite, bit int64, inherited bool) bool {
	if ow.Allow&bit != 0 {
		return true
	}
	if ow.Deny&bit != 0 {
		return false
	}
	return inherited
}
