package content

import (
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/postindex/internal/metrics"
)

// memFS returns an in-memory filesystem populated with files below /content.
func memFS(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/content", 0o755))
	for name, body := range files {
		require.NoError(t, afero.WriteFile(fs, "/content/"+name, []byte(body), 0o644))
	}
	return fs
}

func doc(id, title, date, tags, body string) string {
	out := "---\n"
	if id != "" {
		out += "id: " + id + "\n"
	}
	out += "title: " + title + "\ndate: " + date + "\ntags: " + tags + "\n---\n" + body
	return out
}

type countingRecorder struct {
	metrics.NoopRecorder
	mu       sync.Mutex
	outcomes map[metrics.ResultLabel]int
	skipped  int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{outcomes: map[metrics.ResultLabel]int{}}
}

func (c *countingRecorder) IncLoadOutcome(_ string, o metrics.ResultLabel) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.outcomes[o]++
}

func (c *countingRecorder) AddSkippedRecords(_ string, n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.skipped += n
}

func (c *countingRecorder) ObserveLoadDuration(string, time.Duration) {}
