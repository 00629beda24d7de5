package model

import "time"

// MemberRecord is one line of members/guild_members.jsonl.
//
// Status needs a gateway presence cache the exporter does not keep, so it is
// always the explicit "unknown" value rather than a probed field.
type MemberRecord struct {
	ID            string     `json:"id"`
	Username      string     `json:"username"`
	GlobalName    string     `json:"global_name"`
	DisplayName   string     `json:"display_name"`
	Discriminator string     `json:"discriminator,omitempty"`
	JoinedAt      time.Time  `json:"joined_at"`
	CreatedAt     *time.Time `json:"created_at"`
	IsBot         bool       `json:"is_bot"`
	PremiumSince  *time.Time `json:"premium_since"`
	RoleIDs       []string   `json:"role_ids"`
	TopRoleID     string     `json:"top_role_id,omitempty"`
	Status        string     `json:"status"`
	PublicFlags   int        `json:"public_flags"`
	TimeoutUntil  *time.Time `json:"timeout_until"`
	AvatarURL     string     `json:"avatar_url"`
}
