package cli

import (
	"bytes"
	"testing"
)

func TestStatusLines(t *testing.T) {
	tests := []struct {
		name   string
		update func(*Status)
		want   string
	}{
		{"idle", (*Status).SetIdle, ""},
		{"recording", (*Status).SetRecording, "🔴 Recording... press Enter to stop, Ctrl+C to cancel.\n"},
		{"processing", (*Status).SetProcessing, "🟡 Transcribing...\n"},
		{"error", (*Status).SetError, "⚪️ Failed.\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.update(NewStatus(&buf))

			if buf.String() != tt.want {
				t.Errorf("expected %q, got %q", tt.want, buf.String())
			}
		})
	}
}
