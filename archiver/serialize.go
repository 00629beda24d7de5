package archiver

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"discord-archiver/model"
	"discord-archiver/permissions"
)

func serializeAuthor(u *discordgo.User) model.AuthorRecord {
	if u == nil {
		return model.AuthorRecord{}
	}
	display := u.GlobalName
	if display == "" {
		display = u.Username
	}
	return model.AuthorRecord{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: display,
		GlobalName:  u.GlobalName,
		IsBot:       u.Bot,
	}
}

// serializeMessage maps one message into its canonical record. Attachment
// and sticker entries are filled in by the caller, which owns the per-target
// sequence counter.
func serializeMessage(msg *discordgo.Message, guildID string) model.MessageRecord {
	record := model.MessageRecord{
		ID:              msg.ID,
		Author:          serializeAuthor(msg.Author),
		Content:         msg.Content,
		CleanContent:    msg.ContentWithMentionsReplaced(),
		Timestamp:       msg.Timestamp,
		EditedTimestamp: msg.EditedTimestamp,
		Type:            int(msg.Type),
		JumpURL:         fmt.Sprintf("https://discord.com/channels/%s/%s/%s", guildID, msg.ChannelID, msg.ID),
		Pinned:          msg.Pinned,
		TTS:             msg.TTS,
		MentionEveryone: msg.MentionEveryone,
		Flags:           int(msg.Flags),
		WebhookID:       msg.WebhookID,
		Reactions:       make([]model.ReactionRecord, 0, len(msg.Reactions)),
		Attachments:     make([]model.AttachmentRecord, 0, len(msg.Attachments)),
		Stickers:        make([]model.StickerRecord, 0, len(msg.StickerItems)),
		Embeds:          msg.Embeds,
		Components:      msg.Components,
		Poll:            msg.Poll,
	}

	if msg.MessageReference != nil {
		record.Reference = &model.ReferenceRecord{
			MessageID: msg.MessageReference.MessageID,
			ChannelID: msg.MessageReference.ChannelID,
			GuildID:   msg.MessageReference.GuildID,
		}
	}

	for _, r := range msg.Reactions {
		emoji := ""
		if r.Emoji != nil {
			emoji = r.Emoji.MessageFormat()
		}
		record.Reactions = append(record.Reactions, model.ReactionRecord{Emoji: emoji, Count: r.Count})
	}

	if msg.Interaction != nil {
		user := serializeAuthor(msg.Interaction.User)
		record.Interaction = &model.InteractionRecord{
			ID:   msg.Interaction.ID,
			Type: int(msg.Interaction.Type),
			Name: msg.Interaction.Name,
			User: &user,
		}
	}

	if msg.Thread != nil {
		record.ThreadStarted = msg.Thread.ID
	}

	return record
}

func serializeRole(role *discordgo.Role, guildID string) model.RoleRecord {
	record := model.RoleRecord{
		ID:          role.ID,
		Name:        role.Name,
		Color:       role.Color,
		Hoist:       role.Hoist,
		Position:    role.Position,
		Permissions: permissions.Set(role.Permissions),
		Mentionable: role.Mentionable,
		Managed:     role.Managed,
		IsDefault:   role.ID == guildID,
	}
	if created, err := discordgo.SnowflakeTimestamp(role.ID); err == nil {
		record.CreatedAt = &created
	}
	return record
}

func serializeMember(m *discordgo.Member, roles []*discordgo.Role) model.MemberRecord {
	record := model.MemberRecord{
		JoinedAt:     m.JoinedAt,
		PremiumSince: m.PremiumSince,
		RoleIDs:      m.Roles,
		TopRoleID:    topRoleID(m.Roles, roles),
		Status:       "unknown",
		TimeoutUntil: m.CommunicationDisabledUntil,
	}
	if m.User != nil {
		record.ID = m.User.ID
		record.Username = m.User.Username
		record.GlobalName = m.User.GlobalName
		record.IsBot = m.User.Bot
		record.PublicFlags = int(m.User.PublicFlags)
		record.AvatarURL = m.User.AvatarURL("")
		if m.User.Discriminator != "0" {
			record.Discriminator = m.User.Discriminator
		}
		record.DisplayName = m.Nick
		if record.DisplayName == "" {
			record.DisplayName = m.User.GlobalName
		}
		if record.DisplayName == "" {
			record.DisplayName = m.User.Username
		}
		if created, err := discordgo.SnowflakeTimestamp(m.User.ID); err == nil {
			record.CreatedAt = &created
		}
	}
	return record
}

func topRoleID(memberRoles []string, guildRoles []*discordgo.Role) string {
	byID := make(map[string]*discordgo.Role, len(guildRoles))
	for _, r := range guildRoles {
		byID[r.ID] = r
	}
	var top *discordgo.Role
	for _, id := range memberRoles {
		r, ok := byID[id]
		if !ok {
			continue
		}
		if top == nil || r.Position > top.Position {
			top = r
		}
	}
	if top == nil {
		return ""
	}
	return top.ID
}

var eventStatusNames = map[discordgo.GuildScheduledEventStatus]string{
	discordgo.GuildScheduledEventStatusScheduled: "scheduled",
	discordgo.GuildScheduledEventStatusActive:    "active",
	discordgo.GuildScheduledEventStatusCompleted: "completed",
	discordgo.GuildScheduledEventStatusCanceled:  "canceled",
}

var eventEntityNames = map[discordgo.GuildScheduledEventEntityType]string{
	discordgo.GuildScheduledEventEntityTypeStageInstance: "stage_instance",
	discordgo.GuildScheduledEventEntityTypeVoice:         "voice",
	discordgo.GuildScheduledEventEntityTypeExternal:      "external",
}

func serializeEvent(ev *discordgo.GuildScheduledEvent) model.EventRecord {
	record := model.EventRecord{
		ID:                 ev.ID,
		Name:               ev.Name,
		Description:        ev.Description,
		ScheduledStartTime: ev.ScheduledStartTime,
		ScheduledEndTime:   ev.ScheduledEndTime,
		Status:             eventStatusNames[ev.Status],
		EntityType:         eventEntityNames[ev.EntityType],
		ChannelID:          ev.ChannelID,
		CreatorID:          ev.CreatorID,
		UserCount:          ev.UserCount,
		PrivacyLevel:       "guild_only",
		Image:              ev.Image,
	}
	if ev.EntityType == discordgo.GuildScheduledEventEntityTypeExternal {
		record.EntityMetadata = &model.EventLocationRecord{Location: ev.EntityMetadata.Location}
	}
	return record
}

var stickerFormatNames = map[discordgo.StickerFormat]string{
	discordgo.StickerFormatTypePNG:    "png",
	discordgo.StickerFormatTypeAPNG:   "apng",
	discordgo.StickerFormatTypeLottie: "lottie",
	discordgo.StickerFormatTypeGIF:    "gif",
}

func stickerFormatName(f discordgo.StickerFormat) string {
	if name, ok := stickerFormatNames[f]; ok {
		return name
	}
	return "png"
}

// stickerFileExt is the extension of the payload the CDN actually serves;
// lottie stickers come down as JSON documents.
func stickerFileExt(f discordgo.StickerFormat) string {
	if f == discordgo.StickerFormatTypeLottie {
		return "json"
	}
	return stickerFormatName(f)
}

func stickerURL(s *discordgo.StickerItem) string {
	return fmt.Sprintf("https://cdn.discordapp.com/stickers/%s.%s", s.ID, stickerFileExt(s.FormatType))
}
