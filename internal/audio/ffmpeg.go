package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"time"
	"unicode/utf8"

	"github.com/mattn/go-shellwords"
	"github.com/rs/zerolog"

	"github.com/GrupaDomanscy/whisper-connector/internal/config"
)

const (
	defaultTool = "ffmpeg"
	dshowFormat = "dshow"
)

// CommandFunc builds the capture tool process. Tests swap it for a fake tool.
type CommandFunc func(ctx context.Context, name string, args ...string) *exec.Cmd

// FFmpeg drives ffmpeg (or anything speaking its CLI) as the capture tool.
type FFmpeg struct {
	Tool        string
	InputFormat string
	ExtraArgs   []string
	// StopTimeout bounds the wait after the quit command; zero waits forever.
	StopTimeout time.Duration
	Log         zerolog.Logger
	Command     CommandFunc
}

var _ Capture = (*FFmpeg)(nil)

// New creates an ffmpeg-backed capture from config
func New(cfg config.CaptureConfig, log zerolog.Logger) (*FFmpeg, error) {
	var extra []string
	if cfg.ExtraArgs != "" {
		args, err := shellwords.NewParser().Parse(cfg.ExtraArgs)
		if err != nil {
			return nil, fmt.Errorf("parse capture extra args: %w", err)
		}
		extra = args
	}

	return &FFmpeg{
		Tool:        cfg.Tool,
		InputFormat: cfg.InputFormat,
		ExtraArgs:   extra,
		StopTimeout: time.Duration(cfg.StopTimeout),
		Log:         log,
	}, nil
}

// ListDevices asks the capture tool to enumerate its input devices and
// parses the listing it prints on stderr.
func (f *FFmpeg) ListDevices(ctx context.Context) ([]AudioDevice, error) {
	cmd := f.command(ctx, f.tool(), f.listArgs()...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		// The listing always ends in a failure to open "dummy".
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("%w: %w", ErrSpawn, err)
		}
	}

	if !utf8.Valid(stderr.Bytes()) {
		return nil, fmt.Errorf("%w: device listing is not valid UTF-8", ErrRead)
	}

	devices, err := ParseDevices(stderr.String())
	if err != nil {
		return nil, err
	}

	f.Log.Debug().Int("count", len(devices)).Msg("Listed audio devices")
	return devices, nil
}

// Record runs one session to completion: start, wait for a key or
// cancellation, then finalize. The subprocess never outlives the call.
func (f *FFmpeg) Record(ctx context.Context, device, outputPath string, keys io.Reader) (string, error) {
	session, err := f.Start(ctx, device, outputPath)
	if err != nil {
		return "", err
	}
	defer session.Close()

	if _, err := session.AwaitStop(ctx, keys); err != nil {
		return "", err
	}

	return session.Finalize()
}

func (f *FFmpeg) listArgs() []string {
	return []string{
		"-list_devices", "true",
		"-f", f.inputFormat(),
		"-i", "dummy",
	}
}

func (f *FFmpeg) recordArgs(device, outputPath string) []string {
	input := device
	if f.inputFormat() == dshowFormat {
		input = "audio=" + device
	}

	args := []string{
		"-y",
		"-f", f.inputFormat(),
		"-i", input,
	}
	args = append(args, f.ExtraArgs...)
	return append(args, outputPath)
}

func (f *FFmpeg) tool() string {
	if f.Tool == "" {
		return defaultTool
	}
	return f.Tool
}

func (f *FFmpeg) inputFormat() string {
	if f.InputFormat == "" {
		return dshowFormat
	}
	return f.InputFormat
}

func (f *FFmpeg) command(ctx context.Context, name string, args ...string) *exec.Cmd {
	if f.Command != nil {
		return f.Command(ctx, name, args...)
	}
	return exec.CommandContext(ctx, name, args...)
}
