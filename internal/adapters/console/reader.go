package console

import (
	"bufio"
	"context"
	"io"
	"strings"
	"sync"
)

type line struct {
	text string
	err  error
}

// Reader reads trimmed lines from an input stream. A single background
// goroutine owns the stream, so a cancelled ReadLine does not lose the line
// that arrives afterwards.
type Reader struct {
	input io.Reader
	once  sync.Once
	lines chan line
}

func NewReader(input io.Reader) *Reader {
	return &Reader{
		input: input,
		lines: make(chan line),
	}
}

func (r *Reader) start() {
	go func() {
		scanner := bufio.NewScanner(r.input)
		for scanner.Scan() {
			r.lines <- line{text: scanner.Text()}
		}

		err := scanner.Err()
		if err == nil {
			err = io.EOF
		}
		for {
			r.lines <- line{err: err}
		}
	}()
}

// ReadLine blocks until a line is available or ctx is done. It returns io.EOF
// once the input is exhausted.
func (r *Reader) ReadLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	r.once.Do(r.start)

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case next := <-r.lines:
		if next.err != nil {
			return "", next.err
		}
		return strings.TrimSpace(next.text), nil
	}
}
