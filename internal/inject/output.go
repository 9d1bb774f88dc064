package inject

import (
	"context"
	"fmt"
	"io"

	"github.com/atotto/clipboard"
	"github.com/rs/zerolog"

	"github.com/GrupaDomanscy/whisper-connector/internal/config"
)

// Printer writes the transcript as one line and optionally copies it to the
// system clipboard.
type Printer struct {
	out  io.Writer
	cfg  config.InjectConfig
	copy func(string) error
	log  zerolog.Logger
}

var _ Injector = (*Printer)(nil)

// New creates a new transcript printer
func New(cfg config.InjectConfig, out io.Writer, log zerolog.Logger) *Printer {
	return &Printer{
		out:  out,
		cfg:  cfg,
		copy: clipboard.WriteAll,
		log:  log,
	}
}

// Deliver prints text followed by a newline. A clipboard failure is only
// logged since the transcript has already been printed.
func (p *Printer) Deliver(ctx context.Context, text string) error {
	if _, err := fmt.Fprintln(p.out, text); err != nil {
		return fmt.Errorf("print transcript: %w", err)
	}

	if !p.cfg.CopyToClipboard {
		return nil
	}
	if clipboard.Unsupported {
		p.log.Warn().Msg("Clipboard is not supported on this system")
		return nil
	}
	if err := p.copy(text); err != nil {
		p.log.Warn().Err(err).Msg("Failed to copy transcript to clipboard")
		return nil
	}

	p.log.Info().Int("chars", len(text)).Msg("Copied transcript to clipboard")
	return nil
}
