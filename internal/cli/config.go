package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/skeletonize/pkg/pipeline"
)

// configCommand creates the config command, which prints a config file.
func (c *CLI) configCommand() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the default or a loaded config file",
		Long: `Print a TOML config file.

Without --config the defaults are printed, ready to be saved and edited.
With --config the file is validated and printed back.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := pipeline.DefaultConfig()
			if path != "" {
				loaded, err := pipeline.LoadConfig(path)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			data, err := cfg.Encode()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), string(data))
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "config", "", "TOML config file to validate")
	return cmd
}
