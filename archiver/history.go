package archiver

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"

	"discord-archiver/model"
)

// messageSource is the one call history pagination needs. *discordgo.Session
// satisfies it through the Session interface.
type messageSource interface {
	ChannelMessages(channelID string, limit int, beforeID, afterID, aroundID string, options ...discordgo.RequestOption) ([]*discordgo.Message, error)
}

// historyCursor is the full pagination state: the id of the newest message
// already emitted. An empty cursor starts from the beginning of history,
// which makes a future resume-from-cursor pass a matter of seeding it.
type historyCursor struct {
	afterID string
}

// streamHistory walks a target's history oldest-first and hands each message
// to emit as soon as its page arrives. It returns the number of messages
// emitted; on error, everything already emitted stays emitted.
func streamHistory(ctx context.Context, src messageSource, channelID string, pageSize int, retry model.RetryConfig, emit func(*discordgo.Message) error) (int, error) {
	cursor := historyCursor{}
	count := 0
	for {
		if err := ctx.Err(); err != nil {
			return count, err
		}

		page, err := fetchPage(ctx, src, channelID, pageSize, cursor, retry)
		if err != nil {
			return count, err
		}
		if len(page) == 0 {
			return count, nil
		}

		// Pages arrive newest-first; the newest id seeds the next request.
		cursor.afterID = page[0].ID
		for i := len(page) - 1; i >= 0; i-- {
			if err := emit(page[i]); err != nil {
				return count, err
			}
			count++
			if count%1000 == 0 {
				log.Printf("  Processed %d messages from channel %s...", count, channelID)
			}
		}
	}
}

// fetchPage requests one page, retrying rate-limited requests with a capped
// exponential backoff before giving up.
func fetchPage(ctx context.Context, src messageSource, channelID string, pageSize int, cursor historyCursor, retry model.RetryConfig) ([]*discordgo.Message, error) {
	delay := retry.BaseDelay
	var lastErr error
	for attempt := 0; attempt < retry.MaxAttempts; attempt++ {
		page, err := src.ChannelMessages(channelID, pageSize, "", cursor.afterID, "", discordgo.WithContext(ctx))
		if err == nil {
			return page, nil
		}
		lastErr = err

		retryAfter, ok := rateLimitDelay(err)
		if !ok {
			return nil, err
		}
		wait := delay
		if retryAfter > wait {
			wait = retryAfter
		}
		log.Printf("Rate limited fetching history for channel %s, retrying in %v (attempt %d/%d)", channelID, wait, attempt+1, retry.MaxAttempts)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
		delay *= 2
		if delay > retry.MaxDelay {
			delay = retry.MaxDelay
		}
	}
	return nil, lastErr
}

// rateLimitDelay reports whether err is a rate-limit signal and how long the
// platform asked us to wait.
func rateLimitDelay(err error) (time.Duration, bool) {
	var rl *discordgo.RateLimitError
	if errors.As(err, &rl) {
		return rl.RetryAfter, true
	}
	var rest *discordgo.RESTError
	if errors.As(err, &rest) && rest.Response != nil && rest.Response.StatusCode == http.StatusTooManyRequests {
		return 0, true
	}
	return 0, false
}

func isForbidden(err error) bool {
	var rest *discordgo.RESTError
	return errors.As(err, &rest) && rest.Response != nil && rest.Response.StatusCode == http.StatusForbidden
}
