package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/GrupaDomanscy/whisper-connector/internal/app"
)

func newTranscribeCommand(rt *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "transcribe <language> [device_name]",
		Short: "Record until Enter is pressed, then print the transcript",
		Long: fmt.Sprintf(`Record from device_name until Enter is pressed, then print the transcript.

Permitted languages: %s. Without device_name the device stored by
use-device is used, or else the first device ffmpeg lists.
Ctrl+C cancels the recording without transcribing anything.`, strings.Join(app.Languages, ", ")),
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.RangeArgs(1, 2)(cmd, args); err != nil {
				return err
			}
			if !slices.Contains(app.Languages, args[0]) {
				return fmt.Errorf("%w: %s. Permitted languages: %s", app.ErrUnsupportedLanguage, args[0], strings.Join(app.Languages, ", "))
			}
			return nil
		},
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return app.Languages, cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			if err := rt.opts.Config.RequireAPIKey(); err != nil {
				return err
			}

			var device string
			if len(args) == 2 {
				device = args[1]
			}

			_, err := rt.app.Transcribe(cmd.Context(), args[0], device, rt.opts.Keys)
			return err
		},
	}
}
