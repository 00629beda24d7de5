package archiver

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/require"

	"discord-archiver/model"
)

var testRetry = model.RetryConfig{
	MaxAttempts: 3,
	BaseDelay:   time.Millisecond,
	MaxDelay:    4 * time.Millisecond,
}

func testMsg(id string, ts time.Time) *discordgo.Message {
	return &discordgo.Message{ID: id, Timestamp: ts}
}

// pagedSource serves pre-built pages (each newest-first, as the platform
// returns them) and can inject rate-limit failures before a given page.
type pagedSource struct {
	pages      [][]*discordgo.Message
	next       int
	failBefore int // 1-based page index to rate limit, 0 = never
	failures   int // how many times to fail before succeeding
	gotAfterID []string
}

func (p *pagedSource) ChannelMessages(channelID string, limit int, beforeID, afterID, aroundID string, options ...discordgo.RequestOption) ([]*discordgo.Message, error) {
	p.gotAfterID = append(p.gotAfterID, afterID)
	if p.next+1 == p.failBefore && p.failures > 0 {
		p.failures--
		return nil, rateLimited()
	}
	if p.next >= len(p.pages) {
		return nil, nil
	}
	page := p.pages[p.next]
	p.next++
	return page, nil
}

func rateLimited() error {
	return &discordgo.RateLimitError{RateLimit: &discordgo.RateLimit{
		TooManyRequests: &discordgo.TooManyRequests{Bucket: "b", Message: "rate limited", RetryAfter: time.Millisecond},
		URL:             "/channels/c1/messages",
	}}
}

func buildPages(pageCount, perPage int) [][]*discordgo.Message {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	var pages [][]*discordgo.Message
	n := 0
	for p := 0; p < pageCount; p++ {
		var page []*discordgo.Message
		// Newest first within a page.
		for i := perPage - 1; i >= 0; i-- {
			id := n + i
			page = append(page, testMsg(fmt.Sprintf("%04d", id), base.Add(time.Duration(id)*time.Second)))
		}
		n += perPage
		pages = append(pages, page)
	}
	return pages
}

func collect(t *testing.T, src messageSource) ([]*discordgo.Message, int, error) {
	t.Helper()
	var got []*discordgo.Message
	count, err := streamHistory(context.Background(), src, "c1", 100, testRetry, func(m *discordgo.Message) error {
		got = append(got, m)
		return nil
	})
	return got, count, err
}

func TestStreamHistoryEmitsOldestFirstWithoutDuplicates(t *testing.T) {
	src := &pagedSource{pages: buildPages(5, 3)}
	got, count, err := collect(t, src)
	require.NoError(t, err)
	require.Equal(t, 15, count)
	require.Len(t, got, 15)

	seen := make(map[string]bool)
	for i, m := range got {
		require.False(t, seen[m.ID], "duplicate id %s", m.ID)
		seen[m.ID] = true
		if i > 0 {
			require.False(t, m.Timestamp.Before(got[i-1].Timestamp), "timestamps must be non-decreasing")
		}
	}
}

func TestStreamHistoryCursorSeedsFromNewestID(t *testing.T) {
	src := &pagedSource{pages: buildPages(2, 3)}
	_, _, err := collect(t, src)
	require.NoError(t, err)

	// First request has no cursor; each later one carries the newest id of
	// the page before it.
	require.Equal(t, "", src.gotAfterID[0])
	require.Equal(t, "0002", src.gotAfterID[1])
	require.Equal(t, "0005", src.gotAfterID[2])
}

func TestStreamHistoryRetriesRateLimitedPage(t *testing.T) {
	src := &pagedSource{pages: buildPages(5, 2), failBefore: 2, failures: 2}
	got, count, err := collect(t, src)
	require.NoError(t, err)
	require.Equal(t, 10, count)
	require.Equal(t, "0000", got[0].ID)
	require.Equal(t, "0009", got[len(got)-1].ID)
}

func TestStreamHistoryKeepsEarlierBatchesAfterRetryExhaustion(t *testing.T) {
	// Rate limit on every attempt at page 2: page 1 must survive.
	src := &pagedSource{pages: buildPages(5, 2), failBefore: 2, failures: 100}
	got, count, err := collect(t, src)
	require.Error(t, err)
	require.Equal(t, 2, count)
	require.Len(t, got, 2)
	require.Equal(t, "0000", got[0].ID)
	require.Equal(t, "0001", got[1].ID)

	var rl *discordgo.RateLimitError
	require.True(t, errors.As(err, &rl))
}

type failingSource struct{ err error }

func (f *failingSource) ChannelMessages(string, int, string, string, string, ...discordgo.RequestOption) ([]*discordgo.Message, error) {
	return nil, f.err
}

func TestStreamHistoryDoesNotRetryUnretriableErrors(t *testing.T) {
	src := &failingSource{err: errors.New("boom")}
	start := time.Now()
	count, err := streamHistory(context.Background(), src, "c1", 100, testRetry, func(*discordgo.Message) error { return nil })
	require.Error(t, err)
	require.Zero(t, count)
	require.Less(t, time.Since(start), 100*time.Millisecond, "no backoff should apply to non-rate-limit errors")
}

func TestRateLimitDelayRecognizes429RESTError(t *testing.T) {
	err := rateLimited()
	wait, ok := rateLimitDelay(err)
	require.True(t, ok)
	require.Equal(t, time.Millisecond, wait)

	_, ok = rateLimitDelay(errors.New("plain"))
	require.False(t, ok)
}
