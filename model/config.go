package model

import "time"

// Config 存储应用程序的配置
type Config struct {
	BotToken  string
	GuildID   string
	BackupDir string
	Archive   ArchiveConfig
}

// ArchiveConfig holds the tunables read from data/archive_config.yaml.
type ArchiveConfig struct {
	PageSize         int
	MediaEnabled     bool
	MediaConcurrency int
	Retry            RetryConfig
}

// RetryConfig bounds the backoff-and-retry policy applied to rate-limited
// history pages.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}
