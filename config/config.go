package config

import (
	"errors"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"discord-archiver/model"
)

// Load loads the configuration from environment variables and the optional
// data/archive_config.yaml tunables file.
func Load() (*model.Config, error) {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Info: .env file not found, relying on environment variables")
	}

	token := os.Getenv("BOT_TOKEN")
	if token == "" {
		log.Fatal("Error: BOT_TOKEN environment variable not set")
	}

	guildID := os.Getenv("GUILD_ID")
	if guildID == "" {
		log.Fatal("Error: GUILD_ID environment variable not set")
	}

	backupDir := os.Getenv("BACKUP_DIR")
	if backupDir == "" {
		backupDir = "backup"
	}

	archive, err := loadArchiveConfig()
	if err != nil {
		return nil, err
	}

	// DOWNLOAD_MEDIA=false defers media retrieval to a later pass while
	// still recording full metadata.
	if os.Getenv("DOWNLOAD_MEDIA") == "false" {
		archive.MediaEnabled = false
	}

	return &model.Config{
		BotToken:  token,
		GuildID:   guildID,
		BackupDir: backupDir,
		Archive:   archive,
	}, nil
}

func loadArchiveConfig() (model.ArchiveConfig, error) {
	v := viper.New()
	v.SetConfigName("archive_config")
	v.SetConfigType("yaml")
	v.AddConfigPath("data")

	v.SetDefault("page_size", 100)
	v.SetDefault("media.enabled", true)
	v.SetDefault("media.concurrency", 4)
	v.SetDefault("retry.max_attempts", 5)
	v.SetDefault("retry.base_delay", "1s")
	v.SetDefault("retry.max_delay", "30s")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return model.ArchiveConfig{}, err
		}
		log.Println("Warning: data/archive_config.yaml not found, using defaults.")
	}

	cfg := model.ArchiveConfig{
		PageSize:         v.GetInt("page_size"),
		MediaEnabled:     v.GetBool("media.enabled"),
		MediaConcurrency: v.GetInt("media.concurrency"),
		Retry: model.RetryConfig{
			MaxAttempts: v.GetInt("retry.max_attempts"),
			BaseDelay:   v.GetDuration("retry.base_delay"),
			MaxDelay:    v.GetDuration("retry.max_delay"),
		},
	}
	if cfg.PageSize < 1 || cfg.PageSize > 100 {
		log.Printf("Warning: Invalid page_size value %d, using default of 100.", cfg.PageSize)
		cfg.PageSize = 100
	}
	if cfg.MediaConcurrency < 1 {
		cfg.MediaConcurrency = 1
	}
	if cfg.Retry.MaxAttempts < 1 {
		cfg.Retry.MaxAttempts = 1
	}
	if cfg.Retry.BaseDelay <= 0 {
		cfg.Retry.BaseDelay = time.Second
	}
	if cfg.Retry.MaxDelay < cfg.Retry.BaseDelay {
		cfg.Retry.MaxDelay = cfg.Retry.BaseDelay
	}
	return cfg, nil
}
