package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/GrupaDomanscy/whisper-connector/internal/app"
	"github.com/GrupaDomanscy/whisper-connector/internal/config"
)

// AppFactory builds the application once flags have been applied to cfg.
type AppFactory func(cfg *config.Config) (*app.App, error)

type Options struct {
	Config  *config.Config
	NewApp  AppFactory
	Keys    io.Reader // stops a recording; os.Stdin in the binary
	Version string
	Commit  string
}

type deps struct {
	opts Options
	app  *app.App
}

// NewRootCommand builds the whisper-connector command tree
func NewRootCommand(opts Options) *cobra.Command {
	rt := &deps{opts: opts}
	var logLevel string

	root := &cobra.Command{
		Use:     "whisper-connector",
		Short:   "Record from a microphone and transcribe it with Whisper",
		Long:    "whisper-connector records audio through ffmpeg until you press Enter, sends it to the OpenAI transcription API and prints the text.",
		Version: fmt.Sprintf("%s (%s)", opts.Version, opts.Commit),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if logLevel != "" {
				opts.Config.LogLevel = logLevel
			}
			a, err := opts.NewApp(opts.Config)
			if err != nil {
				cmd.SilenceUsage = true
				return err
			}
			rt.app = a
			return nil
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(
		newDevicesCommand(rt),
		newTranscribeCommand(rt),
		newUseDeviceCommand(rt),
	)

	return root
}
