package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/renato0307/ferry/internal/application"
	"github.com/renato0307/ferry/internal/config"
	"github.com/renato0307/ferry/internal/paths"
)

// SettingsCmd manages settings.json
type SettingsCmd struct {
	Meta SettingsMetaCmd `cmd:"meta" help:"Show settings file location and available options" default:"1"`
	Set  SettingsSetCmd  `cmd:"set" help:"Set a setting (an empty value restores the default)"`
}

// SettingsMetaCmd displays settings metadata
type SettingsMetaCmd struct {
	Format string `help:"Output format: table or json" enum:"table,json" default:"table"`
}

// Run executes the meta command
func (s *SettingsMetaCmd) Run(cli *CLI) error {
	settingsFile := paths.GetSettingsPath()
	example := config.GetSettingsExample()

	if s.Format == "json" {
		output := map[string]any{
			"settings_file": settingsFile,
			"format":        example,
		}
		data, err := json.MarshalIndent(output, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("Settings file: %s\n\n", settingsFile)
	fmt.Println("Example settings.json:")
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, key := range config.SettingKeys() {
		fmt.Fprintf(w, "%s\t%v\n", key, example[key])
	}
	w.Flush()

	fmt.Println()
	fmt.Println("FERRY_* environment variables override these values.")
	return nil
}

// SettingsSetCmd sets one setting
type SettingsSetCmd struct {
	Key   string `arg:"" help:"Setting name (e.g., idle_timeout_seconds)"`
	Value string `arg:"" optional:"" help:"New value; omit to restore the default"`
}

// Run executes the set command
func (s *SettingsSetCmd) Run(cli *CLI) error {
	if err := application.NewSettingsService().Set(s.Key, s.Value); err != nil {
		return err
	}
	if s.Value == "" {
		fmt.Printf("Cleared '%s'\n", s.Key)
		return nil
	}
	fmt.Printf("Set '%s' to: %s\n", s.Key, s.Value)
	return nil
}
