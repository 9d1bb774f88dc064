package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"github.com/GrupaDomanscy/whisper-connector/internal/audio"
	"github.com/GrupaDomanscy/whisper-connector/internal/config"
	"github.com/GrupaDomanscy/whisper-connector/internal/inject"
	"github.com/GrupaDomanscy/whisper-connector/internal/whisper"
)

// Languages the transcription command accepts
var Languages = []string{"pl", "en"}

var (
	ErrUnsupportedLanguage = errors.New("unknown language")
	ErrUnknownDevice       = errors.New("unknown audio device")
	ErrNoDevices           = errors.New("no audio input devices found")
)

// StatusUpdater is an interface for updating status (e.g., a terminal prompt)
type StatusUpdater interface {
	SetIdle()
	SetRecording()
	SetProcessing()
	SetError()
}

type Config struct {
	Audio         audio.Capture
	Transcriber   whisper.Transcriber
	Injector      inject.Injector
	Config        *config.Config
	Logger        zerolog.Logger
	StatusUpdater StatusUpdater // Optional - can be nil
	// SamplePath names the recording file; defaults to audio.SamplePath.
	SamplePath func() (name, path string)
}

type App struct {
	audio      audio.Capture
	stt        whisper.Transcriber
	inj        inject.Injector
	cfg        *config.Config
	log        zerolog.Logger
	status     StatusUpdater
	samplePath func() (name, path string)
}

func New(cfg Config) *App {
	samplePath := cfg.SamplePath
	if samplePath == nil {
		samplePath = audio.SamplePath
	}

	return &App{
		audio:      cfg.Audio,
		stt:        cfg.Transcriber,
		inj:        cfg.Injector,
		cfg:        cfg.Config,
		log:        cfg.Logger,
		status:     cfg.StatusUpdater,
		samplePath: samplePath,
	}
}

func (a *App) ListDevices(ctx context.Context) ([]audio.AudioDevice, error) {
	return a.audio.ListDevices(ctx)
}

// Transcribe records from device until keys yields a byte, uploads the
// recording and delivers the transcript. An empty device means the
// configured default, then the first listed device.
//
// Cancelling ctx before or during the recording returns "" and a nil error;
// nothing is uploaded. Once the recording has stopped, ctx is no longer
// observed and the upload runs to completion.
func (a *App) Transcribe(ctx context.Context, language, device string, keys io.Reader) (string, error) {
	if !slices.Contains(Languages, language) {
		return "", fmt.Errorf("%w: %s. Permitted languages: %s", ErrUnsupportedLanguage, language, strings.Join(Languages, ", "))
	}

	device, err := a.resolveDevice(ctx, device)
	if err != nil {
		if ctx.Err() != nil {
			a.log.Info().Err(err).Msg("Cancelled before recording started")
			return "", nil
		}
		return "", err
	}

	name, path := a.samplePath()
	log := a.log.With().Str("device", device).Str("language", language).Logger()

	log.Info().Str("path", path).Msg("Starting recording")
	a.setStatus(StatusUpdater.SetRecording)

	recorded, err := a.audio.Record(ctx, device, path, keys)
	if err != nil {
		a.setStatus(StatusUpdater.SetError)
		return "", fmt.Errorf("record: %w", err)
	}
	if recorded == "" {
		log.Info().Msg("Recording cancelled, nothing to transcribe")
		a.setStatus(StatusUpdater.SetIdle)
		return "", nil
	}

	a.setStatus(StatusUpdater.SetProcessing)

	// Past the stop key an interrupt must not lose the recording
	ctx = context.WithoutCancel(ctx)

	text, err := a.upload(ctx, language, name, recorded)
	if err != nil {
		a.setStatus(StatusUpdater.SetError)
		return "", err
	}

	if err := a.inj.Deliver(ctx, text); err != nil {
		a.setStatus(StatusUpdater.SetError)
		return "", err
	}

	log.Info().Int("chars", len(text)).Msg("Transcribed")
	a.setStatus(StatusUpdater.SetIdle)
	return text, nil
}

// SetDevice stores name as the default recording device.
func (a *App) SetDevice(ctx context.Context, name string) error {
	if _, err := a.findDevice(ctx, name); err != nil {
		return err
	}

	if err := a.cfg.SaveDevice(name); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	a.log.Info().Str("device", name).Str("config", a.cfg.Path()).Msg("Changed default audio device")
	return nil
}

func (a *App) resolveDevice(ctx context.Context, device string) (string, error) {
	if device == "" {
		device = a.cfg.Audio.DeviceID
	}
	return a.findDevice(ctx, device)
}

// findDevice checks name against the capture tool's listing. An empty name
// picks the first device.
func (a *App) findDevice(ctx context.Context, name string) (string, error) {
	devices, err := a.audio.ListDevices(ctx)
	if err != nil {
		return "", fmt.Errorf("list devices: %w", err)
	}

	if name == "" {
		if len(devices) == 0 {
			return "", ErrNoDevices
		}
		a.log.Info().Str("device", devices[0].Name).Msg("No device given, using the first one")
		return devices[0].Name, nil
	}

	for _, d := range devices {
		if d.Name == name {
			return name, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDevice, name)
}

func (a *App) upload(ctx context.Context, language, name, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("read recorded audio sample: %w", err)
	}
	defer f.Close()

	text, err := a.stt.Transcribe(ctx, whisper.Request{
		Language: language,
		APIKey:   a.cfg.APIKey,
		FileName: name,
		Audio:    f,
	})
	if err != nil {
		return "", fmt.Errorf("transcribe: %w", err)
	}
	return text, nil
}

func (a *App) setStatus(update func(StatusUpdater)) {
	if a.status != nil {
		update(a.status)
	}
}
