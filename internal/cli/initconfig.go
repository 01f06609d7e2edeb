package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"surfwatch/internal/config"
)

var initConfigPath string

func init() {
	rootCmd.AddCommand(initConfigCmd)
	initConfigCmd.Flags().StringVar(&initConfigPath, "path", "", "Where to write the config (default ~/.surfwatch/config.yaml)")
}

var initConfigCmd = &cobra.Command{
	Use:   "init-config",
	Short: "Write the commented default configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := initConfigPath
		if path == "" {
			path = filepath.Join(config.DefaultDir(), "config.yaml")
		}

		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists, not overwriting", path)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
		if err := os.WriteFile(path, []byte(config.DefaultYAML()), 0600); err != nil {
			return fmt.Errorf("write config: %w", err)
		}

		fmt.Printf("wrote %s\n", path)
		return nil
	},
}
