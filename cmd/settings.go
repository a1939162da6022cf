package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/invopop/jsonschema"
	"github.com/omxconductor/omxconductor/config"
	"github.com/omxconductor/omxconductor/player"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.Flags().StringP("format", "f", "yaml", "Output format (json, yaml)")
	settingsCmd.Flags().BoolP("schema", "s", false, "Print the JSON schema of the settings instead")
	lo.Must0(settingsCmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"json", "yaml"}, cobra.ShellCompDirectiveNoFileComp
	}))

	settingsCmd.SetOut(os.Stdout)
}

// settingsCmd prints the session settings resolved from config, env and defaults.
var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Display the resolved playback settings",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("schema")) {
			handleErr(writeSettingsSchema(cmd.OutOrStdout()))
			return
		}

		s, err := config.PlayerSettings()
		handleErr(err)
		handleErr(writeSettings(cmd.OutOrStdout(), s, lo.Must(cmd.Flags().GetString("format"))))
	},
}

func writeSettings(w io.Writer, s player.Settings, format string) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(s)
	case "yaml", "yml":
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(s); err != nil {
			return err
		}
		return encoder.Close()
	default:
		return fmt.Errorf("unknown format %q, expected json or yaml", format)
	}
}

func writeSettingsSchema(w io.Writer) error {
	reflector := new(jsonschema.Reflector)
	reflector.Anonymous = true
	reflector.Namer = func(t reflect.Type) string {
		return t.Name()
	}

	return json.NewEncoder(w).Encode(reflector.Reflect(&player.Settings{}))
}
