package model

import (
	"time"

	"github.com/bwmarrin/discordgo"
)

// MessageRecord is the canonical archived form of one message. One record
// per line in the target's _messages.jsonl file.
type MessageRecord struct {
	ID              string                       `json:"id"`
	Author          AuthorRecord                 `json:"author"`
	Content         string                       `json:"content"`
	CleanContent    string                       `json:"clean_content"`
	Timestamp       time.Time                    `json:"timestamp"`
	EditedTimestamp *time.Time                   `json:"edited_timestamp"`
	Type            int                          `json:"type"`
	JumpURL         string                       `json:"jump_url"`
	Pinned          bool                         `json:"pinned"`
	TTS             bool                         `json:"tts"`
	MentionEveryone bool                         `json:"mention_everyone"`
	Flags           int                          `json:"flags"`
	WebhookID       string                       `json:"webhook_id,omitempty"`
	Reference       *ReferenceRecord             `json:"reference"`
	Reactions       []ReactionRecord             `json:"reactions"`
	Attachments     []AttachmentRecord           `json:"attachments"`
	Stickers        []StickerRecord              `json:"stickers"`
	Embeds          []*discordgo.MessageEmbed    `json:"embeds"`
	Components      []discordgo.MessageComponent `json:"components"`
	Poll            *discordgo.Poll              `json:"poll"`
	Interaction     *InteractionRecord           `json:"interaction_metadata"`
	ThreadStarted   string                       `json:"thread_started,omitempty"`
}

// AuthorRecord is the per-message author summary.
type AuthorRecord struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	GlobalName  string `json:"global_name"`
	IsBot       bool   `json:"is_bot"`
}

// ReferenceRecord points at the message a reply refers to.
type ReferenceRecord struct {
	MessageID string `json:"message_id"`
	ChannelID string `json:"channel_id"`
	GuildID   string `json:"guild_id"`
}

type ReactionRecord struct {
	Emoji string `json:"emoji"`
	Count int    `json:"count"`
}

// AttachmentRecord maps an uploaded file to its deterministic local copy.
// SavedAs is populated even when media retrieval is disabled.
type AttachmentRecord struct {
	OriginalName string `json:"original_name"`
	SavedAs      string `json:"saved_as"`
	URL          string `json:"url"`
	Size         int    `json:"size"`
}

type StickerRecord struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Format  string `json:"format"`
	SavedAs string `json:"saved_as"`
	URL     string `json:"url"`
}

// InteractionRecord captures the command interaction a message originated
// from, when there is one.
type InteractionRecord struct {
	ID   string        `json:"id"`
	Type int           `json:"type"`
	Name string        `json:"name"`
	User *AuthorRecord `json:"user"`
}
