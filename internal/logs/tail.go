package logs

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

const maxLineBytes = 1 << 20

// Matcher selects log lines. A nil Matcher selects every line.
type Matcher func(line string) bool

// ForArtist matches lines carrying artist_id=<id> in console format or
// "artist_id":<id> in JSON format.
func ForArtist(id uint32) Matcher {
	value := strconv.FormatUint(uint64(id), 10)
	needles := []string{"artist_id=" + value, `"artist_id":` + value}
	return func(line string) bool {
		for _, needle := range needles {
			if containsField(line, needle) {
				return true
			}
		}
		return false
	}
}

// containsField reports whether needle occurs in line without being the
// prefix of a longer number.
func containsField(line, needle string) bool {
	for rest := line; ; {
		i := strings.Index(rest, needle)
		if i < 0 {
			return false
		}
		end := i + len(needle)
		if end == len(rest) || rest[end] < '0' || rest[end] > '9' {
			return true
		}
		rest = rest[end:]
	}
}

func (m Matcher) keep(line string) bool {
	return m == nil || m(line)
}

// Last returns up to limit matching lines from the end of path and the file
// size they were read up to. A missing file yields no lines and offset 0.
func Last(path string, limit int, match Matcher) ([]string, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	if limit <= 0 {
		offset, err := file.Seek(0, io.SeekEnd)
		if err != nil {
			return nil, 0, fmt.Errorf("seek log file: %w", err)
		}
		return nil, offset, nil
	}

	ring := make([]string, limit)
	count, next := 0, 0
	offset, err := scanLines(file, func(line string) {
		if !match.keep(line) {
			return
		}
		ring[next] = line
		next = (next + 1) % limit
		if count < limit {
			count++
		}
	})
	if err != nil {
		return nil, 0, err
	}

	lines := make([]string, count)
	start := 0
	if count == limit {
		start = next
	}
	for i := range count {
		lines[i] = ring[(start+i)%limit]
	}
	return lines, offset, nil
}

// Follow polls path every poll interval and calls emit for each matching
// line appended after offset. It returns when ctx is done. A truncated file
// is read again from the start.
func Follow(ctx context.Context, path string, offset int64, poll time.Duration, match Matcher, emit func(string)) error {
	if poll <= 0 {
		poll = 250 * time.Millisecond
	}
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		next, err := readFrom(path, offset, match, emit)
		if err != nil {
			return err
		}
		offset = next

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func readFrom(path string, offset int64, match Matcher, emit func(string)) (int64, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return offset, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return offset, fmt.Errorf("stat log file: %w", err)
	}
	if info.Size() < offset {
		offset = 0
	}
	if info.Size() == offset {
		return offset, nil
	}
	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return offset, fmt.Errorf("seek log file: %w", err)
	}
	consumed, err := scanLines(file, func(line string) {
		if match.keep(line) {
			emit(line)
		}
	})
	if err != nil {
		return offset, err
	}
	return offset + consumed, nil
}

// scanLines feeds complete lines from r to fn and returns the bytes consumed.
// A trailing line without a newline is left for the next read.
func scanLines(r io.Reader, fn func(string)) (int64, error) {
	reader := bufio.NewReaderSize(r, 64*1024)
	var consumed int64
	for {
		line, err := reader.ReadString('\n')
		if len(line) > maxLineBytes {
			return consumed, fmt.Errorf("read log file: line longer than %d bytes", maxLineBytes)
		}
		if err == nil {
			consumed += int64(len(line))
			fn(strings.TrimRight(line, "\r\n"))
			continue
		}
		if errors.Is(err, io.EOF) {
			return consumed, nil
		}
		return consumed, fmt.Errorf("read log file: %w", err)
	}
}
