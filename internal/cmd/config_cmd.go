package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/Digital-Shane/media-mover/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or save the effective configuration",
	Long: `Print the effective configuration as JSON, or write it to the user
configuration file so the current defaults become permanent.`,
	RunE: runConfigCommand,
}

var configWrite bool

func init() {
	configCmd.Flags().BoolVar(&configWrite, "write", false, "Write the effective configuration to the user config file")
	rootCmd.AddCommand(configCmd)
}

func runConfigCommand(cmd *cobra.Command, args []string) error {
	settings, err := config.Load(configLoadPath)
	if err != nil {
		return err
	}

	if configWrite {
		if err := settings.Save(""); err != nil {
			return err
		}
		path, err := config.Path()
		if err != nil {
			return err
		}
		fmt.Printf("configuration written to %s\n", path)
		return nil
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
