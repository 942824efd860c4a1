package email

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// DevSender logs messages instead of delivering them and optionally keeps the
// HTML on disk for inspection in a browser.
type DevSender struct {
	log *slog.Logger
	dir string
	now func() time.Time
}

// NewDevSender logs messages and, when dir is set, writes their HTML there.
func NewDevSender(log *slog.Logger, dir string) *DevSender {
	return &DevSender{log: log, dir: dir, now: time.Now}
}

// Send logs msg instead of delivering it.
func (d *DevSender) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	attrs := []any{
		slog.String("from", msg.From),
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
	}

	if d.dir != "" {
		if err := os.MkdirAll(d.dir, 0o755); err != nil {
			return fmt.Errorf("%w: %w", ErrFailedToSendEmail, err)
		}
		name := d.now().Format("2006_01_02_150405.000") + "_" + safeName(msg.Subject) + ".html"
		path := filepath.Join(d.dir, name)
		if err := os.WriteFile(path, []byte(msg.HTML), 0o644); err != nil {
			return fmt.Errorf("%w: %w", ErrFailedToSendEmail, err)
		}
		attrs = append(attrs, slog.String("file", path))
	} else {
		attrs = append(attrs, slog.String("html", msg.HTML))
	}

	d.log.InfoContext(ctx, "email not delivered in development", attrs...)
	return nil
}

var unsafeChars = regexp.MustCompile(`[^a-z0-9\-_]`)

func safeName(s string) string {
	s = unsafeChars.ReplaceAllString(strings.ReplaceAll(strings.ToLower(s), " ", "_"), "")
	if len(s) > 60 {
		s = s[:60]
	}
	if s == "" {
		return "email"
	}
	return s
}
