package audio

import (
	"context"
	"io"
)

// Capture defines the interface for audio capture
type Capture interface {
	ListDevices(ctx context.Context) ([]AudioDevice, error)
	// Record captures from device into outputPath until a byte arrives on
	// keys or ctx is cancelled. A cancelled recording returns "" and no error.
	Record(ctx context.Context, device, outputPath string, keys io.Reader) (string, error)
}

// AudioDevice represents an audio input device as named by the capture tool
type AudioDevice struct {
	Name string
}
