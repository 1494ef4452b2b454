package logs_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"par/internal/logs"
)

func writeLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "par.log")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}
	return path
}

func TestLastReturnsTrailingLines(t *testing.T) {
	content := "a\nb\nc\n"
	path := writeLog(t, content)

	lines, offset, err := logs.Last(path, 2, nil)
	if err != nil {
		t.Fatalf("Last: %v", err)
	}
	if len(lines) != 2 || lines[0] != "b" || lines[1] != "c" {
		t.Fatalf("unexpected lines: %#v", lines)
	}
	if offset != int64(len(content)) {
		t.Fatalf("offset = %d, want %d", offset, len(content))
	}
}

func TestLastFewerLinesThanLimit(t *testing.T) {
	path := writeLog(t, "only\n")
	lines, _, err := logs.Last(path, 10, nil)
	if err != nil {
		t.Fatalf("Last: %v", err)
	}
	if len(lines) != 1 || lines[0] != "only" {
		t.Fatalf("unexpected lines: %#v", lines)
	}
}

func TestLastMissingFile(t *testing.T) {
	lines, offset, err := logs.Last(filepath.Join(t.TempDir(), "absent.log"), 5, nil)
	if err != nil || lines != nil || offset != 0 {
		t.Fatalf("lines=%v offset=%d err=%v", lines, offset, err)
	}
}

func TestLastZeroLimitSkipsToEnd(t *testing.T) {
	path := writeLog(t, "a\nb\n")
	lines, offset, err := logs.Last(path, 0, nil)
	if err != nil {
		t.Fatalf("Last: %v", err)
	}
	if len(lines) != 0 || offset != 4 {
		t.Fatalf("lines=%v offset=%d", lines, offset)
	}
}

func TestForArtistMatchesBothFormats(t *testing.T) {
	match := logs.ForArtist(22)
	cases := []struct {
		line string
		want bool
	}{
		{"2024-01-01T00:00:00Z INFO artistcache: fetched artist_id=22 source=provider", true},
		{`{"msg":"fetched","artist_id":22}`, true},
		{"2024-01-01T00:00:00Z INFO artistcache: fetched artist_id=221", false},
		{"2024-01-01T00:00:00Z INFO navigator: jumped queue_index=22", false},
		{"artist_id=221 artist_id=22", true},
	}
	for _, tc := range cases {
		if got := match(tc.line); got != tc.want {
			t.Errorf("match(%q) = %v, want %v", tc.line, got, tc.want)
		}
	}

	path := writeLog(t, "artist_id=1 one\nartist_id=22 two\nartist_id=3 three\nartist_id=22 four\n")
	lines, _, err := logs.Last(path, 5, match)
	if err != nil {
		t.Fatalf("Last: %v", err)
	}
	if len(lines) != 2 || lines[0] != "artist_id=22 two" || lines[1] != "artist_id=22 four" {
		t.Fatalf("unexpected lines: %#v", lines)
	}
}

func TestFollowEmitsAppendedLines(t *testing.T) {
	path := writeLog(t, "start\n")
	_, offset, err := logs.Last(path, 1, nil)
	if err != nil {
		t.Fatalf("Last: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	var mu sync.Mutex
	var got []string
	done := make(chan error, 1)
	go func() {
		done <- logs.Follow(ctx, path, offset, 10*time.Millisecond, nil, func(line string) {
			mu.Lock()
			got = append(got, line)
			mu.Unlock()
		})
	}()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	if _, err := f.WriteString("later\npartial"); err != nil {
		t.Fatalf("append: %v", err)
	}
	f.Close()

	deadline := time.Now().Add(5 * time.Second)
	for {
		mu.Lock()
		n := len(got)
		mu.Unlock()
		if n > 0 || time.Now().After(deadline) {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("Follow returned %v, want context.Canceled", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 1 || got[0] != "later" {
		t.Fatalf("unexpected follow lines: %#v", got)
	}
}
