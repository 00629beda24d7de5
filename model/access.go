package model

// AccessEntry is one line of a target's _access.jsonl. The first entry of a
// snapshot is always synthesized from the guild's default role; every later
// entry corresponds to one explicit overwrite, in source order.
type AccessEntry struct {
	PrincipalType  string        `json:"principal_type"` // "role" or "member"
	PrincipalID    string        `json:"principal_id"`
	PrincipalName  string        `json:"principal_name,omitempty"`
	Allow          PermissionSet `json:"allow"`
	Deny           PermissionSet `json:"deny"`
	CanView        bool          `json:"can_view"`
	CanReadHistory bool          `json:"can_read_history"`
	CanSend        bool          `json:"can_send"`
}
