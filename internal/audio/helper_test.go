package audio

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// fakeFFmpeg returns a capture whose tool is this test binary re-executed
// in TestHelperProcess with the given mode.
func fakeFFmpeg(mode string, env ...string) *FFmpeg {
	return &FFmpeg{
		Log: zerolog.Nop(),
		Command: func(ctx context.Context, name string, args ...string) *exec.Cmd {
			cs := append([]string{"-test.run=^TestHelperProcess$", "--", name}, args...)
			cmd := exec.CommandContext(ctx, os.Args[0], cs...)
			cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1", "HELPER_MODE="+mode)
			cmd.Env = append(cmd.Env, env...)
			return cmd
		},
	}
}

// TestHelperProcess stands in for ffmpeg. It is not a real test.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}

	args := os.Args
	for len(args) > 0 {
		if args[0] == "--" {
			args = args[1:]
			break
		}
		args = args[1:]
	}

	switch os.Getenv("HELPER_MODE") {
	case "list":
		fmt.Fprint(os.Stderr, os.Getenv("HELPER_LISTING"))
		// ffmpeg fails on the dummy input after listing
		os.Exit(1)

	case "record", "record-fail":
		path := args[len(args)-1]
		fmt.Fprintln(os.Stderr, "size=       0kB time=00:00:01.00")

		in := bufio.NewReader(os.Stdin)
		var got []byte
		for {
			b, err := in.ReadByte()
			if err != nil {
				os.Exit(2)
			}
			got = append(got, b)
			if b != 'q' {
				continue
			}
			if os.Getenv("HELPER_MODE") == "record-fail" {
				os.Exit(3)
			}
			content := strings.Join(args, "|") + "\n" + string(got)
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				os.Exit(4)
			}
			os.Exit(0)
		}

	case "hang":
		time.Sleep(time.Hour)
	}

	os.Exit(0)
}
