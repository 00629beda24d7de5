package writer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"discord-archiver/utils"
)

// Root is the timestamped directory one run writes into. A new run always
// creates a new root; completed roots are never touched again.
type Root struct {
	path string
}

// NewRoot creates <baseDir>/<safe-server-name>_<timestamp>/ together with
// the attachments, scheduled_events, roles and members subdirectories.
func NewRoot(baseDir, serverName string, ts time.Time) (*Root, error) {
	name := fmt.Sprintf("%s_%s", utils.SanitizeFileName(serverName), ts.Format("20060102_150405"))
	path := filepath.Join(baseDir, name)
	for _, dir := range []string{"attachments", "scheduled_events", "roles", "members"} {
		if err := os.MkdirAll(filepath.Join(path, dir), os.ModePerm); err != nil {
			return nil, fmt.Errorf("failed to create backup directory: %w", err)
		}
	}
	return &Root{path: path}, nil
}

func (r *Root) Path() string           { return r.path }
func (r *Root) AttachmentsDir() string { return filepath.Join(r.path, "attachments") }

// TargetFile returns the path of a per-target category file, e.g.
// "123456-general_messages.jsonl".
func (r *Root) TargetFile(targetID, safeName, category string) string {
	return filepath.Join(r.path, fmt.Sprintf("%s-%s_%s.jsonl", targetID, safeName, category))
}

func (r *Root) EventFile(eventID string) string {
	return filepath.Join(r.path, "scheduled_events", fmt.Sprintf("event_%s.json", eventID))
}

func (r *Root) RolesFile() string {
	return filepath.Join(r.path, "roles", "guild_roles.jsonl")
}

func (r *Root) MembersFile() string {
	return filepath.Join(r.path, "members", "guild_members.jsonl")
}

// JSONL appends records to a line-delimited JSON file. Every Write goes
// straight to the file, so a crash mid-target loses at most the record
// being written.
type JSONL struct {
	f   *os.File
	enc *json.Encoder
}

func CreateJSONL(path string) (*JSONL, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	enc := json.NewEncoder(f)
	// Keep non-ASCII and markup literal in the archive.
	enc.SetEscapeHTML(false)
	return &JSONL{f: f, enc: enc}, nil
}

// Write appends one record as a single line.
func (w *JSONL) Write(record any) error {
	return w.enc.Encode(record)
}

func (w *JSONL) Close() error {
	return w.f.Close()
}

// WriteJSON writes one pretty-printed record to its own file, used for
// scheduled event snapshots.
func WriteJSON(path string, record any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(record)
}
