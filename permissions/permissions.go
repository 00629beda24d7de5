package permissions

import (
	"github.com/bwmarrin/discordgo"

	"discord-archiver/model"
)

type namedBit struct {
	bit  int64
	name string
}

// Ordered by bit value so named expansions come out stable.
var namedBits = []namedBit{
	{discordgo.PermissionCreateInstantInvite, "create_instant_invite"},
	{discordgo.PermissionKickMembers, "kick_members"},
	{discordgo.PermissionBanMembers, "ban_members"},
	{discordgo.PermissionAdministrator, "administrator"},
	{discordgo.PermissionManageChannels, "manage_channels"},
	{discordgo.PermissionManageServer, "manage_guild"},
	{discordgo.PermissionAddReactions, "add_reactions"},
	{discordgo.PermissionViewAuditLogs, "view_audit_log"},
	{discordgo.PermissionVoicePrioritySpeaker, "priority_speaker"},
	{discordgo.PermissionVoiceStreamVideo, "stream"},
	{discordgo.PermissionViewChannel, "view_channel"},
	{discordgo.PermissionSendMessages, "send_messages"},
	{discordgo.PermissionSendTTSMessages, "send_tts_messages"},
	{discordgo.PermissionManageMessages, "manage_messages"},
	{discordgo.PermissionEmbedLinks, "embed_links"},
	{discordgo.PermissionAttachFiles, "attach_files"},
	{discordgo.PermissionReadMessageHistory, "read_message_history"},
	{discordgo.PermissionMentionEveryone, "mention_everyone"},
	{discordgo.PermissionUseExternalEmojis, "use_external_emojis"},
	{discordgo.PermissionViewGuildInsights, "view_guild_insights"},
	{discordgo.PermissionVoiceConnect, "connect"},
	{discordgo.PermissionVoiceSpeak, "speak"},
	{discordgo.PermissionVoiceMuteMembers, "mute_members"},
	{discordgo.PermissionVoiceDeafenMembers, "deafen_members"},
	{discordgo.PermissionVoiceMoveMembers, "move_members"},
	{discordgo.PermissionVoiceUseVAD, "use_vad"},
	{discordgo.PermissionChangeNickname, "change_nickname"},
	{discordgo.PermissionManageNicknames, "manage_nicknames"},
	{discordgo.PermissionManageRoles, "manage_roles"},
	{discordgo.PermissionManageWebhooks, "manage_webhooks"},
	{discordgo.PermissionUseSlashCommands, "use_application_commands"},
	{discordgo.PermissionVoiceRequestToSpeak, "request_to_speak"},
	{discordgo.PermissionManageEvents, "manage_events"},
	{discordgo.PermissionManageThreads, "manage_threads"},
	{discordgo.PermissionCreatePublicThreads, "create_public_threads"},
	{discordgo.PermissionCreatePrivateThreads, "create_private_threads"},
	{discordgo.PermissionUseExternalStickers, "use_external_stickers"},
	{discordgo.PermissionSendMessagesInThreads, "send_messages_in_threads"},
	{discordgo.PermissionModerateMembers, "moderate_members"},
}

// Named expands a permission bitmask into the names of its set bits. A zero
// mask expands to an empty set.
func Named(mask int64) []string {
	names := make([]string, 0)
	if mask == 0 {
		return names
	}
	for _, nb := range namedBits {
		if mask&nb.bit != 0 {
			names = append(names, nb.name)
		}
	}
	return names
}

// Set pairs a raw bitmask with its named expansion for output.
func Set(mask int64) model.PermissionSet {
	return model.PermissionSet{Raw: mask, Named: Named(mask)}
}
