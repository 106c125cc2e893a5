package console

import (
	"context"
	"fmt"
	"io"
	"time"
)

// Typewriter prints text one rune at a time, the way a 2400 baud modem would.
type Typewriter struct {
	out   io.Writer
	delay time.Duration
}

func NewTypewriter(out io.Writer, delay time.Duration) *Typewriter {
	return &Typewriter{out: out, delay: delay}
}

// Print writes text followed by a newline. Cancellation stops output at the
// current rune; the newline is still written.
func (t *Typewriter) Print(ctx context.Context, text string) error {
	if t.delay <= 0 {
		_, err := fmt.Fprintln(t.out, text)
		return err
	}

	ticker := time.NewTicker(t.delay)
	defer ticker.Stop()

	for _, r := range text {
		if _, err := fmt.Fprint(t.out, string(r)); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			_, _ = fmt.Fprintln(t.out)
			return ctx.Err()
		case <-ticker.C:
		}
	}

	_, err := fmt.Fprintln(t.out)
	return err
}
