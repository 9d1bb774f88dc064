package cli

import (
	"fmt"
	"io"

	"github.com/GrupaDomanscy/whisper-connector/internal/app"
)

// Status prints recording progress to the terminal. Transcripts go to
// stdout, so this writes to stderr.
type Status struct {
	w io.Writer
}

var _ app.StatusUpdater = (*Status)(nil)

func NewStatus(w io.Writer) *Status {
	return &Status{w: w}
}

func (s *Status) SetIdle() {}

func (s *Status) SetRecording() {
	s.print("recording", "Recording... press Enter to stop, Ctrl+C to cancel.")
}

func (s *Status) SetProcessing() {
	s.print("processing", "Transcribing...")
}

// SetError marks the run as failed; cobra prints the error itself on exit.
func (s *Status) SetError() {
	s.print("error", "Failed.")
}

func (s *Status) print(status, msg string) {
	fmt.Fprintf(s.w, "%s %s\n", emojiForStatus(status), msg)
}

// emojiForStatus returns the appropriate status emoji
func emojiForStatus(status string) string {
	switch status {
	case "recording":
		return "🔴" // Red - recording
	case "processing":
		return "🟡" // Yellow - processing transcription
	case "error":
		return "⚪️" // White - error
	default:
		return "🟢" // Green - ready/idle
	}
}
