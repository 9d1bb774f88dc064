package audio

import (
	"errors"
	"fmt"
)

var (
	ErrSpawn            = errors.New("could not spawn capture tool")
	ErrRead             = errors.New("could not read capture tool output")
	ErrParse            = errors.New("malformed device listing")
	ErrStdinUnavailable = errors.New("capture tool stdin unavailable")
	ErrQuitWrite        = errors.New("failed to send quit command to capture tool")
	ErrQuitFlush        = errors.New("failed to flush stdin of capture tool")
	ErrWait             = errors.New("failed waiting for capture tool to exit")
	ErrKill             = errors.New("failed to kill capture tool")
)

// ParseError reports a device line whose quoted name cannot be extracted.
type ParseError struct {
	Line string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %q", ErrParse, e.Line)
}

func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}
