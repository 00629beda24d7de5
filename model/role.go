package model

import "time"

// RoleRecord is one line of roles/guild_roles.jsonl.
type RoleRecord struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Color       int           `json:"color"`
	Hoist       bool          `json:"hoist"`
	Position    int           `json:"position"`
	Permissions PermissionSet `json:"permissions"`
	Mentionable bool          `json:"mentionable"`
	Managed     bool          `json:"managed"`
	IsDefault   bool          `json:"is_default"`
	CreatedAt   *time.Time    `json:"created_at"`
}

// PermissionSet always carries the raw bitmask alongside its named
// expansion so the files stay auditable without a bit table at hand.
type PermissionSet struct {
	Raw   int64    `json:"raw"`
	Named []string `json:"named"`
}
