package naming

import (
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanq16/m3uget/internal/utils"
)

var urlSafeAlphabet = regexp.MustCompile(`^[A-Za-z0-9_-]*$`)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"auto", ModeAuto, false},
		{"BASE", ModeBase, false},
		{" full ", ModeFull, false},
		{"short", ModeAuto, true},
		{"", ModeAuto, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, utils.ErrInvalidMode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, mustParse(t, got.String()))
		})
	}
}

func mustParse(t *testing.T, s string) Mode {
	t.Helper()
	m, err := ParseMode(s)
	require.NoError(t, err)
	return m
}

func TestAutoEpisodeMatch(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"http://x/Show.S01E02.1080p.m3u8", "s01e02"},
		{"https://cdn.example.com/s10e11/index.m3u8", "s10e11"},
		{"https://cdn.example.com/show-s03e04-and-S05E06.m3u8", "s03e04"},
		{"https://cdn.example.com/SHOWS02e09/master.m3u8", "s02e09"},
	}
	g := NewGenerator(ModeAuto)
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, g.Generate(tt.url))
		})
	}
}

func TestAutoFallback(t *testing.T) {
	fixed := time.Unix(1700000000, 42)
	g := NewGenerator(ModeAuto, WithClock(func() time.Time { return fixed }))

	first := g.Generate("https://cdn.example.com/live/index.m3u8")
	second := g.Generate("https://cdn.example.com/live/index.m3u8")

	assert.Regexp(t, `^video_\d+$`, first)
	assert.Regexp(t, `^video_\d+$`, second)
	assert.Equal(t, "video_1700000000000000042", first)
	assert.NotEqual(t, first, second, "stalled clock must still yield unique names")
}

func TestAutoFallbackConcurrent(t *testing.T) {
	g := NewGenerator(ModeAuto)
	const n = 64
	names := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			names <- g.Generate("https://cdn.example.com/stream.m3u8")
		}()
	}
	wg.Wait()
	close(names)

	seen := make(map[string]bool)
	for name := range names {
		assert.Regexp(t, `^video_\d+$`, name)
		assert.False(t, seen[name], "duplicate name %s", name)
		seen[name] = true
	}
	assert.Len(t, seen, n)
}

func TestBaseMode(t *testing.T) {
	urls := []string{
		"https://cdn.example.com/a/b/c.m3u8",
		"https://cdn.example.com/a/b/c.m3u8?token=abc&exp=1",
		"x",
	}
	for _, u := range urls {
		first := NewGenerator(ModeBase).Generate(u)
		second := NewGenerator(ModeBase).Generate(u)
		assert.Equal(t, first, second)
		assert.LessOrEqual(t, len(first), 16)
		assert.Regexp(t, urlSafeAlphabet, first)
	}
	assert.Equal(t, "aHR0cHM6Ly9jZG4u", NewGenerator(ModeBase).Generate("https://cdn.example.com/a/b/c.m3u8"))
	assert.Equal(t, "eA", NewGenerator(ModeBase).Generate("x"))
}

func TestFullMode(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"http://host/a/b/c.m3u8", "b"},
		{"https://cdn.example.com/movies/1234/index.m3u8?sig=xyz", "1234"},
		{"http://host/c.m3u8", "video"},
		{"http://host", "video"},
		{"http://host/a//c.m3u8", "video"},
		{"plain-string", "video"},
		{"rel/path/file.m3u8", "path"},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, NewGenerator(ModeFull).Generate(tt.url))
			assert.Equal(t, NewGenerator(ModeFull).Generate(tt.url), NewGenerator(ModeFull).Generate(tt.url))
		})
	}
}
