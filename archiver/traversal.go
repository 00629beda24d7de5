package archiver

import (
	"context"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"

	"discord-archiver/writer"
)

// Stage order is fixed: channels, active threads, archived threads,
// scheduled events, roles, members. A stage never aborts the stages after
// it.

func isTextChannel(ch *discordgo.Channel) bool {
	return ch.Type == discordgo.ChannelTypeGuildText || ch.Type == discordgo.ChannelTypeGuildNews
}

// Channels and forums whose archived threads are worth enumerating.
func isThreadParent(ch *discordgo.Channel) bool {
	return isTextChannel(ch) || ch.Type == discordgo.ChannelTypeGuildForum
}

func (a *Archiver) fetchChannels(ctx context.Context) ([]*discordgo.Channel, error) {
	if a.channels != nil {
		return a.channels, nil
	}
	channels, err := a.session.GuildChannels(a.guild.ID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	a.channels = channels
	return channels, nil
}

func (a *Archiver) archiveChannels(ctx context.Context) {
	channels, err := a.fetchChannels(ctx)
	if err != nil {
		log.Printf("Error fetching guild channels: %v", err)
		return
	}
	for _, ch := range channels {
		if ctx.Err() != nil {
			return
		}
		if !isTextChannel(ch) {
			continue
		}
		a.archiveTarget(ctx, ch, "channels", "channel")
	}
}

func (a *Archiver) archiveActiveThreads(ctx context.Context) {
	log.Println("Backing up active threads...")
	list, err := a.session.GuildThreadsActive(a.guild.ID, discordgo.WithContext(ctx))
	if err != nil {
		log.Printf("Error fetching active threads: %v", err)
		return
	}
	for _, thread := range list.Threads {
		if ctx.Err() != nil {
			return
		}
		a.archiveTarget(ctx, thread, "active_threads", "thread")
	}
}

func (a *Archiver) archiveArchivedThreads(ctx context.Context) {
	log.Println("Backing up archived threads...")
	channels, err := a.fetchChannels(ctx)
	if err != nil {
		log.Printf("Error fetching guild channels for archived threads: %v", err)
		return
	}
	for _, parent := range channels {
		if ctx.Err() != nil {
			return
		}
		if !isThreadParent(parent) {
			continue
		}
		if err := a.archivedThreadsOfParent(ctx, parent, false); err != nil {
			log.Printf("Error fetching public archived threads in %s: %v", parent.Name, err)
		}
		if err := a.archivedThreadsOfParent(ctx, parent, true); err != nil {
			log.Printf("Error fetching private archived threads in %s: %v", parent.Name, err)
		}
	}
}

// archivedThreadsOfParent pages through one parent's archived threads,
// public or private, using the last thread's archive timestamp as cursor.
func (a *Archiver) archivedThreadsOfParent(ctx context.Context, parent *discordgo.Channel, private bool) error {
	var before *time.Time
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		var list *discordgo.ThreadsList
		var err error
		if private {
			list, err = a.session.ThreadsPrivateArchived(parent.ID, before, 100, discordgo.WithContext(ctx))
		} else {
			list, err = a.session.ThreadsArchived(parent.ID, before, 100, discordgo.WithContext(ctx))
		}
		if err != nil {
			if isForbidden(err) {
				return nil
			}
			return err
		}
		if len(list.Threads) == 0 {
			return nil
		}

		for _, thread := range list.Threads {
			a.archiveTarget(ctx, thread, "archived_threads", "thread")
		}

		if !list.HasMore {
			return nil
		}
		last := list.Threads[len(list.Threads)-1]
		if last.ThreadMetadata == nil {
			log.Printf("Archived thread %s has no metadata, stopping pagination.", last.ID)
			return nil
		}
		before = &last.ThreadMetadata.ArchiveTimestamp
	}
}

func (a *Archiver) archiveScheduledEvents(ctx context.Context) {
	log.Println("Backing up guild scheduled events...")
	events, err := a.session.GuildScheduledEvents(a.guild.ID, true, discordgo.WithContext(ctx))
	if err != nil {
		log.Printf("Error fetching scheduled events: %v", err)
		return
	}
	saved := 0
	for _, ev := range events {
		record := serializeEvent(ev)
		if err := writer.WriteJSON(a.root.EventFile(ev.ID), record); err != nil {
			log.Printf("Error writing scheduled event %s: %v", ev.ID, err)
			continue
		}
		saved++
	}
	log.Printf("Backed up %d scheduled events", saved)
}

func (a *Archiver) archiveRoles(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	log.Println("Backing up guild roles...")
	w, err := writer.CreateJSONL(a.root.RolesFile())
	if err != nil {
		log.Printf("Error creating roles file: %v", err)
		return
	}
	defer w.Close()

	for _, role := range a.guild.Roles {
		if err := w.Write(serializeRole(role, a.guild.ID)); err != nil {
			log.Printf("Error writing role %s: %v", role.ID, err)
		}
	}
	log.Printf("Backed up %d roles", len(a.guild.Roles))
}

func (a *Archiver) archiveMembers(ctx context.Context) {
	log.Println("Backing up guild members...")
	w, err := writer.CreateJSONL(a.root.MembersFile())
	if err != nil {
		log.Printf("Error creating members file: %v", err)
		return
	}
	defer w.Close()

	count := 0
	after := ""
	for {
		if ctx.Err() != nil {
			return
		}
		members, err := a.session.GuildMembers(a.guild.ID, after, 1000, discordgo.WithContext(ctx))
		if err != nil {
			log.Printf("Error fetching guild members after %q: %v", after, err)
			return
		}
		if len(members) == 0 {
			break
		}
		for _, m := range members {
			if err := w.Write(serializeMember(m, a.guild.Roles)); err != nil {
				log.Printf("Error writing member record: %v", err)
			}
			count++
		}
		after = members[len(members)-1].User.ID
		if len(members) < 1000 {
			break
		}
	}
	log.Printf("Backed up %d members", count)
}
