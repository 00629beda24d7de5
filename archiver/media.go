package archiver

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
)

// Copy downloads to disk in fixed-size chunks instead of buffering whole
// files.
const mediaChunkSize = 1 << 20

// mediaFetcher downloads a target's attachments and stickers through the
// run's shared connection pool, at most `concurrency` at a time. Fetches
// are independent: one failure never blocks or corrupts another. When
// disabled it is a no-op and callers still record full metadata, so a large
// archive can defer media to a later pass.
type mediaFetcher struct {
	client    *http.Client
	destDir   string
	enabled   bool
	sem       chan struct{}
	wg        sync.WaitGroup
	completed int64
}

func newMediaFetcher(client *http.Client, destDir string, enabled bool, concurrency int) *mediaFetcher {
	if concurrency < 1 {
		concurrency = 1
	}
	return &mediaFetcher{
		client:  client,
		destDir: destDir,
		enabled: enabled,
		sem:     make(chan struct{}, concurrency),
	}
}

// Fetch schedules one download. It returns immediately; Wait blocks until
// every scheduled download finished.
func (m *mediaFetcher) Fetch(url, savedName string) {
	if !m.enabled {
		return
	}
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.sem <- struct{}{}
		defer func() { <-m.sem }()

		if err := m.download(url, savedName); err != nil {
			log.Printf("Error downloading %s: %v", url, err)
			return
		}
		atomic.AddInt64(&m.completed, 1)
	}()
}

func (m *mediaFetcher) Wait() {
	m.wg.Wait()
}

// Completed reports how many downloads have finished successfully. Call it
// after Wait for the final tally of a target.
func (m *mediaFetcher) Completed() int {
	return int(atomic.LoadInt64(&m.completed))
}

func (m *mediaFetcher) download(url, savedName string) error {
	resp, err := m.client.Get(url)
	if err != nil {
		return fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status: %s", resp.Status)
	}

	out, err := os.Create(filepath.Join(m.destDir, savedName))
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer out.Close()

	buf := make([]byte, mediaChunkSize)
	if _, err := io.CopyBuffer(out, resp.Body, buf); err != nil {
		return fmt.Errorf("failed to save file: %w", err)
	}
	return nil
}
