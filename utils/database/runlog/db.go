package runlog

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"discord-archiver/model"
)

// Init initializes the run manifest database and ensures all necessary
// tables are created.
func Init(dbPath string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	runsSchema := `CREATE TABLE IF NOT EXISTS runs (
	          run_id INTEGER PRIMARY KEY AUTOINCREMENT,
	          guild_id TEXT NOT NULL,
	          guild_name TEXT NOT NULL,
	          root_path TEXT NOT NULL,
	          started_at INTEGER NOT NULL,
	          finished_at INTEGER,
	          status TEXT DEFAULT 'running'
	      );`
	if _, err = db.Exec(runsSchema); err != nil {
		return nil, fmt.Errorf("failed to create runs table: %w", err)
	}

	targetsSchema := `CREATE TABLE IF NOT EXISTS targets (
	          run_id INTEGER NOT NULL,
	          target_id TEXT NOT NULL,
	          name TEXT NOT NULL,
	          kind TEXT NOT NULL,
	          stage TEXT NOT NULL,
	          status TEXT NOT NULL,
	          messages INTEGER DEFAULT 0,
	          media INTEGER DEFAULT 0,
	          error TEXT DEFAULT ''
	      );`
	if _, err = db.Exec(targetsSchema); err != nil {
		return nil, fmt.Errorf("failed to create targets table: %w", err)
	}

	return db, nil
}

// StartRun records the beginning of a backup run and returns its id.
func StartRun(db *sqlx.DB, guildID, guildName, rootPath string) (int64, error) {
	res, err := db.Exec(
		`INSERT INTO runs (guild_id, guild_name, root_path, started_at) VALUES (?, ?, ?, ?)`,
		guildID, guildName, rootPath, time.Now().Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	return res.LastInsertId()
}

// FinishRun marks a run as reaching its terminal status.
func FinishRun(db *sqlx.DB, runID int64, status string) error {
	_, err := db.Exec(
		`UPDATE runs SET finished_at = ?, status = ? WHERE run_id = ?`,
		time.Now().Unix(), status, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	return nil
}

// RecordTarget stores the terminal state of one archive target.
func RecordTarget(db *sqlx.DB, runID int64, res model.TargetResult) error {
	_, err := db.Exec(
		`INSERT INTO targets (run_id, target_id, name, kind, stage, status, messages, media, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, res.TargetID, res.Name, res.Kind, res.Stage, res.Status, res.Messages, res.Media, res.Error,
	)
	if err != nil {
		return fmt.Errorf("failed to insert target result: %w", err)
	}
	return nil
}

// RunTargets returns the recorded targets of one run, in insertion order.
func RunTargets(db *sqlx.DB, runID int64) ([]model.TargetResult, error) {
	var results []model.TargetResult
	err := db.Select(&results,
		`SELECT target_id, name, kind, stage, status, messages, media, error FROM targets WHERE run_id = ?`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query target results: %w", err)
	}
	return results, nil
}
