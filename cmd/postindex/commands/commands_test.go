package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/postindex/internal/config"
	"git.home.luguber.info/inful/postindex/internal/content"
	pierrors "git.home.luguber.info/inful/postindex/internal/errors"
	"git.home.luguber.info/inful/postindex/internal/post"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cli := &CLI{}
	g := NewGlobal(&out)
	parser, err := NewParser(cli, g,
		kong.Exit(func(code int) { t.Fatalf("unexpected exit %d: %s", code, out.String()) }),
		kong.Writers(&out, &out))
	require.NoError(t, err)

	kctx, err := parser.Parse(args)
	if err != nil {
		return out.String(), err
	}
	err = kctx.Run(cli)
	return out.String(), err
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
}

func postFile(id, title, date, tags, body string) string {
	return fmt.Sprintf("---\nid: %s\ntitle: %s\ndate: %s\ntags: %s\n---\n%s", id, title, date, tags, body)
}

// writeBlog lays out the A/B/C/D scenario and returns the config path.
func writeBlog(t *testing.T, extra string) (dir, cfgPath string) {
	t.Helper()
	dir = t.TempDir()
	contentDir := filepath.Join(dir, "content")
	writeFile(t, filepath.Join(contentDir, "a.md"), postFile("a", "Go on the Web", "2024-01-04", "[go, web]", "# Intro\n\nAlpha body.\n\n## Details\n"))
	writeFile(t, filepath.Join(contentDir, "b.md"), postFile("b", "Go Tips", "2024-01-03", "[Go]", "Bravo"))
	writeFile(t, filepath.Join(contentDir, "c.md"), postFile("c", "Web Fonts", "2024-01-02", "['#web']", "Charlie"))
	writeFile(t, filepath.Join(contentDir, "d.md"), postFile("d", "Rust for Gophers", "2024-01-01", "[rust]", "Delta"))

	cfgPath = filepath.Join(dir, "postindex.yaml")
	writeFile(t, cfgPath, "version: \"1\"\ncontent:\n  dir: "+contentDir+"\n"+extra)
	return dir, cfgPath
}

func decodeIDs(t *testing.T, out string) []string {
	t.Helper()
	var posts []postSummary
	require.NoError(t, json.Unmarshal([]byte(out), &posts), out)
	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestIndexCmd(t *testing.T) {
	_, cfgPath := writeBlog(t, "")

	out, err := run(t, "index", "--config", cfgPath, "--json")
	require.NoError(t, err)
	var summary indexSummary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, 4, summary.Posts)
	assert.Equal(t, 3, summary.Tags)
	assert.NotEmpty(t, summary.SnapshotID)
	assert.Equal(t, 4, summary.Report.Records)

	out, err = run(t, "index", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Posts:")
	assert.Contains(t, out, "Fingerprint:")
}

func TestIndexCmd_PartialPolicyReportsSkipped(t *testing.T) {
	dir, cfgPath := writeBlog(t, "  policy: partial\n")
	writeFile(t, filepath.Join(dir, "content", "broken.md"), "---\ntitle: Broken\n---\n")

	out, err := run(t, "index", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "skipped broken.md")

	_, cfgStrict := writeBlog(t, "")
	writeFile(t, filepath.Join(filepath.Dir(cfgStrict), "content", "broken.md"), "---\ntitle: Broken\n---\n")
	_, err = run(t, "index", "--config", cfgStrict)
	require.Error(t, err)
	assert.True(t, pierrors.IsCategory(err, pierrors.CategoryContent))
}

func TestFilterCmd(t *testing.T) {
	_, cfgPath := writeBlog(t, "")

	out, err := run(t, "filter", "#Rust", "--config", cfgPath, "--json")
	require.NoError(t, err)
	assert.Equal(t, []string{"d"}, decodeIDs(t, out))

	out, err = run(t, "filter", "web", "--config", cfgPath, "--json")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, decodeIDs(t, out))

	out, err = run(t, "filter", "elixir", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "No posts found")
}

func TestRelatedCmd(t *testing.T) {
	_, cfgPath := writeBlog(t, "")

	out, err := run(t, "related", "a", "--config", cfgPath, "--json")
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, decodeIDs(t, out))

	out, err = run(t, "related", "a", "--max-results", "1", "--config", cfgPath, "--json")
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, decodeIDs(t, out))

	out, err = run(t, "related", "a", "--max-tags", "1", "--config", cfgPath, "--json")
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, decodeIDs(t, out))

	_, err = run(t, "related", "nope", "--config", cfgPath)
	require.Error(t, err)
	assert.True(t, pierrors.IsCategory(err, pierrors.CategoryNotFound))
}

func TestSearchCmd(t *testing.T) {
	_, cfgPath := writeBlog(t, "")

	out, err := run(t, "search", "GOPHER", "--config", cfgPath, "--json")
	require.NoError(t, err)
	assert.Equal(t, []string{"d"}, decodeIDs(t, out))

	out, err = run(t, "search", "web", "--config", cfgPath, "--json")
	require.NoError(t, err)
	assert.Len(t, decodeIDs(t, out), 4, "queries shorter than the minimum return everything")

	out, err = run(t, "search", "web", "--min-length", "2", "--config", cfgPath, "--json")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, decodeIDs(t, out))
}

func TestTagsCmd(t *testing.T) {
	_, cfgPath := writeBlog(t, "")

	out, err := run(t, "tags", "--config", cfgPath, "--json")
	require.NoError(t, err)
	var tags []post.TagCount
	require.NoError(t, json.Unmarshal([]byte(out), &tags))
	assert.Equal(t, []post.TagCount{{Tag: "go", Count: 2}, {Tag: "web", Count: 2}, {Tag: "rust", Count: 1}}, tags)

	out, err = run(t, "tags", "--prefix", "#W", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "web")
	assert.NotContains(t, out, "rust")
}

func TestShowCmd(t *testing.T) {
	_, cfgPath := writeBlog(t, "")

	out, err := run(t, "show", "a", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Go on the Web")
	assert.Contains(t, out, "Contents:")
	assert.Contains(t, out, "Details (#details)")

	out, err = run(t, "show", "a", "--config", cfgPath, "--json")
	require.NoError(t, err)
	var p post.Post
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	assert.Equal(t, "a", p.ID)
	assert.Equal(t, "Alpha body.", p.Description)

	_, err = run(t, "show", "zzz", "--config", cfgPath)
	assert.True(t, pierrors.IsCategory(err, pierrors.CategoryNotFound))
}

func TestInitCmd(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	out, err := run(t, "init", "--sample")
	require.NoError(t, err)
	assert.Contains(t, out, "Writing configuration to postindex.yaml")
	assert.FileExists(t, filepath.Join(dir, "postindex.yaml"))
	assert.FileExists(t, filepath.Join(dir, "content", "hello-world.md"))

	_, err = run(t, "init")
	assert.True(t, pierrors.IsCategory(err, pierrors.CategoryConfig))

	out, err = run(t, "tags", "--json")
	require.NoError(t, err)
	var tags []post.TagCount
	require.NoError(t, json.Unmarshal([]byte(out), &tags))
	assert.ElementsMatch(t, []post.TagCount{{Tag: "meta", Count: 1}, {Tag: "welcome", Count: 1}}, tags)

	out, err = run(t, "show", "hello-world", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, "The first post.")
}

func TestConfigResolution(t *testing.T) {
	t.Chdir(t.TempDir())

	// Default path missing: built-in defaults, which point at a missing ./content.
	_, err := run(t, "tags")
	require.Error(t, err)
	assert.True(t, pierrors.IsCategory(err, pierrors.CategoryContent))

	_, err = run(t, "tags", "--config", "elsewhere.yaml")
	require.Error(t, err)
	assert.True(t, pierrors.IsCategory(err, pierrors.CategoryConfig))
}

func TestImportCmd(t *testing.T) {
	dir, cfgPath := writeBlog(t, "")
	dbPath := filepath.Join(dir, "posts.db")

	stale, err := content.NewSQLiteSource(dbPath)
	require.NoError(t, err)
	require.NoError(t, stale.Put(context.Background(), post.Post{ID: "gone", Title: "Gone", Date: time.Now(), Tags: []string{"old"}}))
	require.NoError(t, stale.Close())

	out, err := run(t, "import", "--db", dbPath, "--prune", "--config", cfgPath, "--json")
	require.NoError(t, err)
	var res importResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 4, res.Imported)
	assert.Equal(t, 1, res.Pruned)

	sqliteCfg := filepath.Join(dir, "sqlite.yaml")
	writeFile(t, sqliteCfg, "content:\n  source: sqlite\nsqlite:\n  path: "+dbPath+"\n")
	out, err = run(t, "related", "a", "--config", sqliteCfg, "--json")
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, decodeIDs(t, out))

	_, err = run(t, "show", "gone", "--config", sqliteCfg)
	assert.True(t, pierrors.IsCategory(err, pierrors.CategoryNotFound))
}

func TestWatchRuntime_ReloadsOnChange(t *testing.T) {
	dir, cfgPath := writeBlog(t, "watch:\n  debounce: 50ms\nmonitoring:\n  addr: 127.0.0.1:0\n")
	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)

	var out bytes.Buffer
	rt, err := newWatchRuntime(NewGlobal(&out), cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- rt.run(ctx) }()

	require.Eventually(t, rt.holder.Ready, 5*time.Second, 20*time.Millisecond)
	assert.Equal(t, 4, rt.holder.Current().Len())

	resp, err := http.Get("http://" + rt.admin.Addr() + "/readyz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	writeFile(t, filepath.Join(dir, "content", "e.md"), postFile("e", "Extra", "2024-01-05", "[go]", "Echo"))
	require.Eventually(t, func() bool { return rt.holder.Current().Len() == 5 }, 5*time.Second, 20*time.Millisecond)

	resp, err = http.Get("http://" + rt.admin.Addr() + cfg.Monitoring.MetricsPath)
	require.NoError(t, err)
	var body bytes.Buffer
	_, _ = body.ReadFrom(resp.Body)
	_ = resp.Body.Close()
	assert.Contains(t, body.String(), "postindex_indexed_posts 5")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch loop did not stop")
	}
}

func TestWatchRuntime_CanceledBeforeFirstLoadStopsTrigger(t *testing.T) {
	_, cfgPath := writeBlog(t, "")
	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)
	cfg.Monitoring.Addr = ""

	var out bytes.Buffer
	rt, err := newWatchRuntime(NewGlobal(&out), cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, rt.run(ctx))
	assert.False(t, rt.holder.Ready())
	require.NotNil(t, rt.trigger)

	// A closed watcher returns from Run straight away.
	done := make(chan error, 1)
	go func() { done <- rt.trigger.Run(context.Background()) }()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("trigger was left running")
	}
}
