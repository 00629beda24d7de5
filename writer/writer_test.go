package writer

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewRootCreatesTimestampedLayout(t *testing.T) {
	base := t.TempDir()
	ts := time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)

	root, err := NewRoot(base, `My: Guild`, ts)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(base, "My_ Guild_20250314_150926"), root.Path())

	for _, dir := range []string{"attachments", "scheduled_events", "roles", "members"} {
		info, err := os.Stat(filepath.Join(root.Path(), dir))
		require.NoError(t, err)
		require.True(t, info.IsDir())
	}
}

func TestRerunsNeverShareARoot(t *testing.T) {
	base := t.TempDir()
	first, err := NewRoot(base, "guild", time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	second, err := NewRoot(base, "guild", time.Date(2025, 1, 1, 10, 0, 1, 0, time.UTC))
	require.NoError(t, err)

	require.NotEqual(t, first.Path(), second.Path())
	// Writing into the second root leaves the first untouched.
	require.NoError(t, os.WriteFile(filepath.Join(second.Path(), "marker"), []byte("x"), 0644))
	_, err = os.Stat(filepath.Join(first.Path(), "marker"))
	require.True(t, os.IsNotExist(err))
}

func TestJSONLOneParseableRecordPerLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jsonl")
	w, err := CreateJSONL(path)
	require.NoError(t, err)

	type rec struct {
		ID   string `json:"id"`
		Body string `json:"body"`
	}
	require.NoError(t, w.Write(rec{ID: "1", Body: "héllo 🙂"}))
	require.NoError(t, w.Write(rec{ID: "2", Body: "<b>raw & unescaped</b>"}))
	require.NoError(t, w.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	require.NoError(t, scanner.Err())
	require.Len(t, lines, 2)

	for _, line := range lines {
		var got rec
		require.NoError(t, json.Unmarshal([]byte(line), &got))
	}
	// Non-ASCII and markup survive literally.
	require.Contains(t, lines[0], "héllo 🙂")
	require.Contains(t, lines[1], "<b>raw & unescaped</b>")
}

func TestJSONLWritesReachDiskPerRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jsonl")
	w, err := CreateJSONL(path)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, w.Write(map[string]string{"id": "1"}))

	// Visible before Close: a crash mid-target keeps prior records.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, 1, strings.Count(string(data), "\n"))
}

func TestWriteJSONPrettyPrints(t *testing.T) {
	path := filepath.Join(t.TempDir(), "event_1.json")
	require.NoError(t, WriteJSON(path, map[string]string{"name": "Réunion"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "  \"name\"")
	require.Contains(t, string(data), "Réunion")
}

func TestTargetFileNaming(t *testing.T) {
	root := &Root{path: "/tmp/run"}
	require.Equal(t, filepath.Join("/tmp/run", "42-general_messages.jsonl"), root.TargetFile("42", "general", "messages"))
	require.Equal(t, filepath.Join("/tmp/run", "scheduled_events", "event_9.json"), root.EventFile("9"))
	require.Equal(t, filepath.Join("/tmp/run", "roles", "guild_roles.jsonl"), root.RolesFile())
	require.Equal(t, filepath.Join("/tmp/run", "members", "guild_members.jsonl"), root.MembersFile())
}
