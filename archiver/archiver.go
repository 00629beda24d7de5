package archiver

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/jmoiron/sqlx"

	"discord-archiver/model"
	"discord-archiver/utils"
	"discord-archiver/utils/database/runlog"
	"discord-archiver/writer"
)

// Archiver drives one point-in-time export of a guild. Targets are
// processed strictly one after another so the run stays within a single
// shared rate budget and every output file has exactly one writer.
type Archiver struct {
	session Session
	cfg     *model.Config
	db      *sqlx.DB // run manifest, optional
	client  *http.Client

	root      *writer.Root
	runID     int64
	selfID    string
	guild     *discordgo.Guild
	everyone  *discordgo.Role
	roleNames map[string]string
	channels  []*discordgo.Channel
	seen      map[string]bool
}

func New(cfg *model.Config, session Session, db *sqlx.DB) *Archiver {
	return &Archiver{
		session: session,
		cfg:     cfg,
		db:      db,
		client:  utils.GlobalHTTPClient,
		seen:    make(map[string]bool),
	}
}

// Run executes the full backup. The only fatal condition is failing to
// resolve the acting user or the guild itself; every later failure is
// scoped to its stage, target or item and logged instead.
func (a *Archiver) Run(ctx context.Context) error {
	self, err := a.session.User("@me", discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to resolve acting user: %w", err)
	}
	a.selfID = self.ID

	guild, err := a.session.Guild(a.cfg.GuildID, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("guild %s not found: %w", a.cfg.GuildID, err)
	}
	a.guild = guild
	a.roleNames = make(map[string]string, len(guild.Roles))
	for _, role := range guild.Roles {
		a.roleNames[role.ID] = role.Name
		if role.ID == guild.ID {
			a.everyone = role
		}
	}

	root, err := writer.NewRoot(a.cfg.BackupDir, guild.Name, time.Now())
	if err != nil {
		return err
	}
	a.root = root
	log.Printf("Starting backup of guild %s (ID: %s) into %s", guild.Name, guild.ID, root.Path())

	a.preflight()

	if a.db != nil {
		runID, err := runlog.StartRun(a.db, guild.ID, guild.Name, root.Path())
		if err != nil {
			log.Printf("Warning: could not record run start: %v", err)
		} else {
			a.runID = runID
		}
	}

	a.archiveChannels(ctx)
	a.archiveActiveThreads(ctx)
	a.archiveArchivedThreads(ctx)
	a.archiveScheduledEvents(ctx)
	a.archiveRoles(ctx)
	a.archiveMembers(ctx)

	if a.db != nil && a.runID != 0 {
		if err := runlog.FinishRun(a.db, a.runID, "completed"); err != nil {
			log.Printf("Warning: could not record run finish: %v", err)
		}
	}

	log.Printf("Full backup complete! Files saved to: %s", root.Path())
	return nil
}

func (a *Archiver) recordTarget(res model.TargetResult) {
	if a.db == nil || a.runID == 0 {
		return
	}
	if err := runlog.RecordTarget(a.db, a.runID, res); err != nil {
		log.Printf("Warning: could not record target %s: %v", res.TargetID, err)
	}
}
