package audio

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/GrupaDomanscy/whisper-connector/internal/config"
)

func TestNewParsesExtraArgs(t *testing.T) {
	f, err := New(config.CaptureConfig{
		Tool:        "ffmpeg",
		InputFormat: "dshow",
		ExtraArgs:   `-ac 1 -metadata title="voice note"`,
		StopTimeout: config.Duration(5 * time.Second),
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	want := []string{"-ac", "1", "-metadata", "title=voice note"}
	if !reflect.DeepEqual(f.ExtraArgs, want) {
		t.Errorf("ExtraArgs = %q, want %q", f.ExtraArgs, want)
	}
	if f.StopTimeout != 5*time.Second {
		t.Errorf("StopTimeout = %v, want 5s", f.StopTimeout)
	}
}

func TestNewRejectsUnbalancedExtraArgs(t *testing.T) {
	if _, err := New(config.CaptureConfig{ExtraArgs: `-metadata "title`}, zerolog.Nop()); err == nil {
		t.Fatal("expected error for unterminated quote")
	}
}

func TestListArgs(t *testing.T) {
	f := &FFmpeg{}
	want := []string{"-list_devices", "true", "-f", "dshow", "-i", "dummy"}
	if got := f.listArgs(); !reflect.DeepEqual(got, want) {
		t.Errorf("listArgs() = %q, want %q", got, want)
	}
}

func TestRecordArgs(t *testing.T) {
	tests := []struct {
		name string
		f    *FFmpeg
		want []string
	}{
		{
			name: "dshow",
			f:    &FFmpeg{},
			want: []string{"-y", "-f", "dshow", "-i", "audio=Mic A", "/tmp/out.mp3"},
		},
		{
			name: "extra args before output",
			f:    &FFmpeg{InputFormat: "dshow", ExtraArgs: []string{"-ac", "1"}},
			want: []string{"-y", "-f", "dshow", "-i", "audio=Mic A", "-ac", "1", "/tmp/out.mp3"},
		},
		{
			name: "other input formats take the device as is",
			f:    &FFmpeg{InputFormat: "pulse"},
			want: []string{"-y", "-f", "pulse", "-i", "Mic A", "/tmp/out.mp3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.f.recordArgs("Mic A", "/tmp/out.mp3"); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("recordArgs() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestListDevices(t *testing.T) {
	f := fakeFFmpeg("list", "HELPER_LISTING="+dshowListing)

	devices, err := f.ListDevices(context.Background())
	if err != nil {
		t.Fatalf("ListDevices: %v", err)
	}
	if len(devices) != 2 {
		t.Fatalf("expected 2 devices, got %+v", devices)
	}
	if devices[1].Name != "Headset Microphone (Jabra Evolve 65)" {
		t.Errorf("unexpected second device %q", devices[1].Name)
	}
}

func TestListDevicesMalformed(t *testing.T) {
	f := fakeFFmpeg("list", "HELPER_LISTING="+`[dshow @ 01] Mic" "A (audio)`)

	devices, err := f.ListDevices(context.Background())
	if !errors.Is(err, ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
	if devices != nil {
		t.Errorf("expected no devices, got %+v", devices)
	}
}

func TestListDevicesInvalidText(t *testing.T) {
	f := fakeFFmpeg("list", "HELPER_LISTING=[dshow @ 01] \"Mic \xff\" (audio)")

	if _, err := f.ListDevices(context.Background()); !errors.Is(err, ErrRead) {
		t.Fatalf("expected ErrRead, got %v", err)
	}
}

func TestListDevicesSpawnFailure(t *testing.T) {
	f := &FFmpeg{
		Tool: filepath.Join(t.TempDir(), "no-such-ffmpeg"),
		Log:  zerolog.Nop(),
	}

	if _, err := f.ListDevices(context.Background()); !errors.Is(err, ErrSpawn) {
		t.Fatalf("expected ErrSpawn, got %v", err)
	}
}
