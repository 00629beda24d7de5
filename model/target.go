package model

// Target statuses recorded in the run manifest.
const (
	TargetArchived = "archived"
	TargetSkipped  = "skipped"
	TargetPartial  = "partial"
	TargetFailed   = "failed"
)

// TargetResult is the manifest row written after a target reaches its
// terminal state.
type TargetResult struct {
	TargetID string `db:"target_id"`
	Name     string `db:"name"`
	Kind     string `db:"kind"` // "channel" or "thread"
	Stage    string `db:"stage"`
	Status   string `db:"status"`
	Messages int    `db:"messages"`
	Media    int    `db:"media"`
	Error    string `db:"error"`
}
