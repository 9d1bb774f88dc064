package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type State int

const (
	StateIdle State = iota
	StateSpawning
	StateRecording
	StateStopping
	StateFinalized
	StateCancelled
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSpawning:
		return "spawning"
	case StateRecording:
		return "recording"
	case StateStopping:
		return "stopping"
	case StateFinalized:
		return "finalized"
	case StateCancelled:
		return "cancelled"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// StopReason tells which trigger ended the recording phase.
type StopReason int

const (
	StopKey StopReason = iota + 1
	StopCancelled
)

const (
	quitCommand = 'q'
	stderrTail  = 16 << 10
	// Bounds how long Wait keeps copying stderr after the tool is gone.
	ioWaitDelay = 2 * time.Second
)

// Session owns one capture tool process from spawn until it has exited.
// It is not safe for concurrent use.
type Session struct {
	device      string
	path        string
	cmd         *exec.Cmd
	stdin       io.WriteCloser
	stderr      *tailBuffer
	state       State
	exited      bool
	stopTimeout time.Duration
	log         zerolog.Logger
}

// Start removes any stale file at outputPath and spawns the capture tool
// recording from device into it.
func (f *FFmpeg) Start(ctx context.Context, device, outputPath string) (*Session, error) {
	s := &Session{
		device:      device,
		path:        outputPath,
		stderr:      &tailBuffer{max: stderrTail},
		state:       StateIdle,
		stopTimeout: f.StopTimeout,
		log:         f.Log.With().Str("device", device).Logger(),
	}

	if err := os.Remove(outputPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.log.Debug().Err(err).Str("path", outputPath).Msg("Could not remove stale sample")
	}

	s.state = StateSpawning

	// AwaitStop decides between kill and quit, so the process must not be
	// tied to ctx.
	cmd := f.command(context.WithoutCancel(ctx), f.tool(), f.recordArgs(device, outputPath)...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStdinUnavailable, err)
	}
	cmd.Stderr = s.stderr
	cmd.WaitDelay = ioWaitDelay

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSpawn, err)
	}

	s.cmd = cmd
	s.stdin = stdin
	s.state = StateRecording
	s.log.Info().Str("path", outputPath).Int("pid", cmd.Process.Pid).Msg("Recording started")

	return s, nil
}

// AwaitStop blocks until a byte can be read from keys or ctx is done,
// whichever happens first.
//
// On cancellation the tool is killed and StopCancelled is returned with a nil
// error. Otherwise the quit command is written so the tool can finish the
// file; call Finalize to wait for it.
func (s *Session) AwaitStop(ctx context.Context, keys io.Reader) (StopReason, error) {
	if s.state != StateRecording {
		return 0, fmt.Errorf("await stop: session is %s", s.state)
	}

	// Abandoned on cancellation; the pending read holds no resources of ours.
	pressed := make(chan error, 1)
	go func() {
		var key [1]byte
		_, err := io.ReadFull(keys, key[:])
		pressed <- err
	}()

	select {
	case <-ctx.Done():
		if err := s.kill(); err != nil {
			s.state = StateFailed
			return StopCancelled, err
		}
		s.state = StateCancelled
		s.log.Info().Msg("Recording cancelled")
		return StopCancelled, nil
	case err := <-pressed:
		if err != nil {
			// Closed input ends the recording the same way a key does
			s.log.Debug().Err(err).Msg("Key input ended")
		}
	}

	s.state = StateStopping
	if err := s.sendQuit(); err != nil {
		s.state = StateFailed
		return StopKey, err
	}

	return StopKey, nil
}

// Finalize waits for the tool to exit after the quit command and returns the
// recorded file path. A cancelled session finalizes to "" with no error.
func (s *Session) Finalize() (string, error) {
	switch s.state {
	case StateCancelled:
		return "", nil
	case StateStopping:
	default:
		return "", fmt.Errorf("finalize: session is %s", s.state)
	}

	if err := s.waitForExit(); err != nil {
		s.state = StateFailed
		return "", err
	}

	s.state = StateFinalized
	s.log.Info().Str("path", s.path).Msg("Recording finalized")
	return s.path, nil
}

// Close kills the tool if it is still running. It is safe on every path.
func (s *Session) Close() error {
	if s.cmd == nil || s.exited {
		return nil
	}
	return s.kill()
}

func (s *Session) State() State {
	return s.state
}

func (s *Session) Path() string {
	return s.path
}

// flusher is a stdin that buffers writes.
type flusher interface {
	Flush() error
}

func (s *Session) sendQuit() error {
	if s.stdin == nil {
		return ErrStdinUnavailable
	}

	if _, err := s.stdin.Write([]byte{quitCommand}); err != nil {
		return fmt.Errorf("%w: %w", ErrQuitWrite, err)
	}
	if f, ok := s.stdin.(flusher); ok {
		if err := f.Flush(); err != nil {
			return fmt.Errorf("%w: %w", ErrQuitFlush, err)
		}
	}

	return nil
}

func (s *Session) waitForExit() error {
	done := make(chan error, 1)
	go func() {
		done <- s.cmd.Wait()
	}()

	var timeout <-chan time.Time
	if s.stopTimeout > 0 {
		timer := time.NewTimer(s.stopTimeout)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case err := <-done:
		s.exited = true
		return s.checkExit(err)
	case <-timeout:
		s.log.Warn().Dur("timeout", s.stopTimeout).Msg("Capture tool ignored quit command, killing it")
		_ = s.cmd.Process.Kill()
		<-done
		s.exited = true
		return fmt.Errorf("%w: no exit within %s of the quit command", ErrWait, s.stopTimeout)
	}
}

// checkExit accepts a non-zero exit status: the tool may still have written
// a usable file, and a missing one fails when it is opened for upload.
func (s *Session) checkExit(err error) error {
	if err == nil {
		s.log.Debug().Str("stderr", s.stderr.String()).Msg("Capture tool exited")
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		s.log.Warn().
			Int("exit_code", exitErr.ExitCode()).
			Str("stderr", s.stderr.String()).
			Msg("Capture tool exited with an error")
		return nil
	}

	return fmt.Errorf("%w: %w", ErrWait, err)
}

func (s *Session) kill() error {
	if s.exited {
		return nil
	}
	if err := s.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("%w: %w", ErrKill, err)
	}

	// Reap; the error only restates that the process was killed
	_ = s.cmd.Wait()
	s.exited = true
	return nil
}

// tailBuffer keeps the last max bytes written to it.
type tailBuffer struct {
	mu  sync.Mutex
	buf []byte
	max int
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.buf = append(t.buf, p...)
	if over := len(t.buf) - t.max; over > 0 {
		t.buf = append(t.buf[:0], t.buf[over:]...)
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return string(t.buf)
}
