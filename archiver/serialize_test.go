package archiver

import (
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/require"
)

func TestSerializeMessageCoreFields(t *testing.T) {
	created := time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)
	edited := created.Add(time.Minute)
	msg := &discordgo.Message{
		ID:              "m2",
		ChannelID:       "c1",
		Content:         "hello <@42>",
		Timestamp:       created,
		EditedTimestamp: &edited,
		Type:            discordgo.MessageTypeDefault,
		Author:          &discordgo.User{ID: "42", Username: "alice", GlobalName: "Alice", Bot: false},
		Reactions: []*discordgo.MessageReactions{
			{Emoji: &discordgo.Emoji{Name: "👍"}, Count: 2},
			{Emoji: &discordgo.Emoji{ID: "555", Name: "blob"}, Count: 1},
		},
		MessageReference: &discordgo.MessageReference{MessageID: "m1", ChannelID: "c1", GuildID: "g1"},
	}

	record := serializeMessage(msg, "g1")
	require.Equal(t, "m2", record.ID)
	require.Equal(t, "alice", record.Author.Username)
	require.Equal(t, "Alice", record.Author.DisplayName)
	require.NotNil(t, record.EditedTimestamp)
	require.Equal(t, edited, *record.EditedTimestamp)
	require.Equal(t, "https://discord.com/channels/g1/c1/m2", record.JumpURL)

	require.Len(t, record.Reactions, 2)
	require.Equal(t, "👍", record.Reactions[0].Emoji)
	require.Equal(t, 2, record.Reactions[0].Count)
	require.Equal(t, 1, record.Reactions[1].Count)

	require.NotNil(t, record.Reference)
	require.Equal(t, "m1", record.Reference.MessageID)

	// Empty, not null, so every record has the same shape.
	require.NotNil(t, record.Attachments)
	require.NotNil(t, record.Stickers)
}

func TestSerializeMessageUneditedHasNullTimestamp(t *testing.T) {
	msg := &discordgo.Message{ID: "m1", Author: &discordgo.User{ID: "1", Username: "bob"}}
	record := serializeMessage(msg, "g1")
	require.Nil(t, record.EditedTimestamp)
	require.Nil(t, record.Reference)
	require.Nil(t, record.Interaction)
}

func TestSerializeMessageThreadStart(t *testing.T) {
	msg := &discordgo.Message{
		ID:     "m1",
		Author: &discordgo.User{ID: "1", Username: "bob"},
		Thread: &discordgo.Channel{ID: "t9"},
	}
	record := serializeMessage(msg, "g1")
	require.Equal(t, "t9", record.ThreadStarted)
}

func TestSerializeRole(t *testing.T) {
	role := &discordgo.Role{
		ID:          "g1",
		Name:        "@everyone",
		Permissions: discordgo.PermissionViewChannel,
		Position:    0,
	}
	record := serializeRole(role, "g1")
	require.True(t, record.IsDefault)
	require.Equal(t, int64(discordgo.PermissionViewChannel), record.Permissions.Raw)
	require.Equal(t, []string{"view_channel"}, record.Permissions.Named)

	other := serializeRole(&discordgo.Role{ID: "r2", Name: "mods"}, "g1")
	require.False(t, other.IsDefault)
	require.Empty(t, other.Permissions.Named)
}

func TestSerializeMemberTopRoleAndFallbacks(t *testing.T) {
	roles := []*discordgo.Role{
		{ID: "g1", Name: "@everyone", Position: 0},
		{ID: "r2", Name: "mods", Position: 5},
		{ID: "r3", Name: "helpers", Position: 2},
	}
	member := &discordgo.Member{
		User: &discordgo.User{
			ID: "42", Username: "alice", GlobalName: "Alice", Discriminator: "0",
		},
		Roles:    []string{"r3", "r2"},
		JoinedAt: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}

	record := serializeMember(member, roles)
	require.Equal(t, "r2", record.TopRoleID)
	require.Equal(t, "Alice", record.DisplayName)
	require.Empty(t, record.Discriminator, "post-migration accounts have no discriminator")
	require.Equal(t, "unknown", record.Status)

	nick := *member
	nick.Nick = "Ali"
	require.Equal(t, "Ali", serializeMember(&nick, roles).DisplayName)
}

func TestSerializeEventExternalLocation(t *testing.T) {
	start := time.Date(2025, 5, 1, 18, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	ev := &discordgo.GuildScheduledEvent{
		ID:                 "e1",
		Name:               "Meetup",
		ScheduledStartTime: start,
		ScheduledEndTime:   &end,
		Status:             discordgo.GuildScheduledEventStatusScheduled,
		EntityType:         discordgo.GuildScheduledEventEntityTypeExternal,
		EntityMetadata:     discordgo.GuildScheduledEventEntityMetadata{Location: "Berlin"},
		UserCount:          12,
	}

	record := serializeEvent(ev)
	require.Equal(t, "scheduled", record.Status)
	require.Equal(t, "external", record.EntityType)
	require.NotNil(t, record.EntityMetadata)
	require.Equal(t, "Berlin", record.EntityMetadata.Location)
	require.Equal(t, 12, record.UserCount)
	require.Nil(t, record.RecurrenceRule)

	voice := serializeEvent(&discordgo.GuildScheduledEvent{
		ID:         "e2",
		EntityType: discordgo.GuildScheduledEventEntityTypeVoice,
		ChannelID:  "c5",
	})
	require.Nil(t, voice.EntityMetadata)
	require.Equal(t, "voice", voice.EntityType)
}

func TestStickerNaming(t *testing.T) {
	s := &discordgo.StickerItem{ID: "777", Name: "wave", FormatType: discordgo.StickerFormatTypeGIF}
	require.Equal(t, "gif", stickerFormatName(s.FormatType))
	require.Equal(t, "https://cdn.discordapp.com/stickers/777.gif", stickerURL(s))

	// The CDN serves lottie stickers as JSON documents, so the file
	// extension differs from the recorded format.
	lottie := &discordgo.StickerItem{ID: "888", Name: "bounce", FormatType: discordgo.StickerFormatTypeLottie}
	require.Equal(t, "lottie", stickerFormatName(lottie.FormatType))
	require.Equal(t, "json", stickerFileExt(lottie.FormatType))
	require.Equal(t, "https://cdn.discordapp.com/stickers/888.json", stickerURL(lottie))
}
