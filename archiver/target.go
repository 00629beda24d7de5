package archiver

import (
	"context"
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"

	"discord-archiver/model"
	"discord-archiver/permissions"
	"discord-archiver/utils"
	"discord-archiver/writer"
)

// archiveTarget runs the whole pipeline for one channel or thread: the
// permission gate, message history, pin snapshot and access snapshot. Any
// failure inside it is terminal for this target only.
func (a *Archiver) archiveTarget(ctx context.Context, ch *discordgo.Channel, stage, kind string) {
	if a.seen[ch.ID] {
		return
	}
	a.seen[ch.ID] = true

	result := model.TargetResult{
		TargetID: ch.ID,
		Name:     ch.Name,
		Kind:     kind,
		Stage:    stage,
	}

	canView, canRead, err := a.selfCapabilities(ctx, ch)
	if err != nil {
		log.Printf("Error resolving permissions for #%s: %v", ch.Name, err)
		result.Status = model.TargetFailed
		result.Error = err.Error()
		a.recordTarget(result)
		return
	}
	if !canView || !canRead {
		log.Printf("Warning: Skipping #%s (insufficient permissions)", ch.Name)
		result.Status = model.TargetSkipped
		a.recordTarget(result)
		return
	}

	safeName := utils.SanitizeFileName(ch.Name)
	log.Printf("Backing up #%s (ID: %s)", ch.Name, ch.ID)

	fetcher := newMediaFetcher(a.client, a.root.AttachmentsDir(), a.cfg.Archive.MediaEnabled, a.cfg.Archive.MediaConcurrency)
	count, err := a.archiveMessages(ctx, ch, safeName, fetcher)
	result.Messages = count
	if err != nil {
		log.Printf("Error backing up #%s after %d messages: %v", ch.Name, count, err)
		result.Status = model.TargetPartial
		result.Error = err.Error()
	} else {
		log.Printf("Finished #%s — %d messages total", ch.Name, count)
		result.Status = model.TargetArchived
	}

	a.archivePins(ctx, ch, safeName)
	a.archiveAccess(ch, safeName)

	fetcher.Wait()
	// Only downloads that actually landed on disk count toward the manifest.
	result.Media = fetcher.Completed()
	a.recordTarget(result)
}

// selfCapabilities resolves the acting user's view/read-history bits for the
// target, falling back to the parent channel for threads the permission
// endpoint does not answer for directly.
func (a *Archiver) selfCapabilities(ctx context.Context, ch *discordgo.Channel) (canView, canRead bool, err error) {
	perms, err := a.session.UserChannelPermissions(a.selfID, ch.ID, discordgo.WithContext(ctx))
	if err != nil && ch.ParentID != "" {
		perms, err = a.session.UserChannelPermissions(a.selfID, ch.ParentID, discordgo.WithContext(ctx))
	}
	if err != nil {
		return false, false, err
	}
	return perms&discordgo.PermissionViewChannel != 0, perms&discordgo.PermissionReadMessageHistory != 0, nil
}

// archiveMessages streams the target's history oldest-first into its
// _messages.jsonl, attaching media metadata as each message passes through.
func (a *Archiver) archiveMessages(ctx context.Context, ch *discordgo.Channel, safeName string, fetcher *mediaFetcher) (count int, err error) {
	w, err := writer.CreateJSONL(a.root.TargetFile(ch.ID, safeName, "messages"))
	if err != nil {
		return 0, err
	}
	defer w.Close()

	// The sequence counter lives for exactly one target invocation.
	seq := 0
	count, err = streamHistory(ctx, a.session, ch.ID, a.cfg.Archive.PageSize, a.cfg.Archive.Retry, func(msg *discordgo.Message) error {
		record := serializeMessage(msg, a.guild.ID)

		for _, att := range msg.Attachments {
			savedName := fmt.Sprintf("attach_%s_%s_%d.%s", ch.ID, msg.ID, seq, utils.FileExtension(att.Filename))
			fetcher.Fetch(att.URL, savedName)
			record.Attachments = append(record.Attachments, model.AttachmentRecord{
				OriginalName: att.Filename,
				SavedAs:      savedName,
				URL:          att.URL,
				Size:         att.Size,
			})
			seq++
		}

		for _, sticker := range msg.StickerItems {
			url := stickerURL(sticker)
			savedName := fmt.Sprintf("sticker_%s_%d.%s", sticker.ID, seq, stickerFileExt(sticker.FormatType))
			fetcher.Fetch(url, savedName)
			record.Stickers = append(record.Stickers, model.StickerRecord{
				ID:      sticker.ID,
				Name:    sticker.Name,
				Format:  stickerFormatName(sticker.FormatType),
				SavedAs: savedName,
				URL:     url,
			})
			seq++
		}

		return w.Write(record)
	})
	return count, err
}

// archivePins snapshots the currently pinned messages. Pins are best
// effort: a forbidden or rate-limited fetch is logged and skipped, and no
// file is written when nothing is pinned.
func (a *Archiver) archivePins(ctx context.Context, ch *discordgo.Channel, safeName string) {
	pins, err := a.session.ChannelMessagesPinned(ch.ID, discordgo.WithContext(ctx))
	if err != nil {
		if isForbidden(err) {
			log.Printf("Warning: Cannot fetch pinned messages in #%s (missing View Channel or Read History permission)", ch.Name)
		} else if _, ok := rateLimitDelay(err); ok {
			log.Printf("Warning: Rate limited while fetching pins in #%s — skipping pins snapshot", ch.Name)
		} else {
			log.Printf("Warning: Error fetching pins in #%s: %v", ch.Name, err)
		}
		return
	}
	if len(pins) == 0 {
		return
	}

	w, err := writer.CreateJSONL(a.root.TargetFile(ch.ID, safeName, "pinned"))
	if err != nil {
		log.Printf("Error creating pins file for #%s: %v", ch.Name, err)
		return
	}
	defer w.Close()

	for _, msg := range pins {
		if err := w.Write(serializeMessage(msg, a.guild.ID)); err != nil {
			log.Printf("Error writing pinned message %s: %v", msg.ID, err)
		}
	}
	log.Printf("Saved %d currently pinned messages for #%s", len(pins), ch.Name)
}

// archiveAccess writes the resolved permission entries for the target.
// Threads carry no overwrite list of their own, so only channels get an
// access snapshot.
func (a *Archiver) archiveAccess(ch *discordgo.Channel, safeName string) {
	if ch.IsThread() || a.everyone == nil {
		return
	}

	entries := permissions.ResolveOverwrites(a.everyone, ch.PermissionOverwrites, a.roleNames)

	w, err := writer.CreateJSONL(a.root.TargetFile(ch.ID, safeName, "access"))
	if err != nil {
		log.Printf("Error creating access file for #%s: %v", ch.Name, err)
		return
	}
	defer w.Close()

	for _, entry := range entries {
		if err := w.Write(entry); err != nil {
			log.Printf("Error writing access entry for #%s: %v", ch.Name, err)
		}
	}
}
