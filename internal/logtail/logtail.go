package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
)

// maxLineBytes bounds a single log line; slog attrs can carry long URLs.
const maxLineBytes = 1 << 20

// Read returns at most maxLines from the end of the file at path. A
// non-positive maxLines returns every line. A missing file yields no lines.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	lines, err := tailLines(file, maxLines)
	if err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	return lines, nil
}

// tailLines scans r and keeps the last limit lines, or all of them when
// limit is non-positive.
func tailLines(r io.Reader, limit int) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var keep ring
	if limit > 0 {
		keep = ring{buf: make([]string, limit)}
	}
	for scanner.Scan() {
		keep.push(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return keep.lines(), nil
}

// ring holds the most recent lines. A zero ring is unbounded.
type ring struct {
	buf  []string
	next int
	full bool
	all  []string
}

func (r *ring) push(line string) {
	if r.buf == nil {
		r.all = append(r.all, line)
		return
	}
	r.buf[r.next] = line
	r.next = (r.next + 1) % len(r.buf)
	if r.next == 0 {
		r.full = true
	}
}

// lines returns the kept lines oldest first.
func (r *ring) lines() []string {
	if r.buf == nil {
		return r.all
	}
	if !r.full {
		if r.next == 0 {
			return nil
		}
		return append([]string(nil), r.buf[:r.next]...)
	}
	out := make([]string, 0, len(r.buf))
	out = append(out, r.buf[r.next:]...)
	return append(out, r.buf[:r.next]...)
}
