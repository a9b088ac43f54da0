package settings

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/julianstephens/focusplan/internal/cli"
	"github.com/julianstephens/focusplan/internal/config"
	"github.com/julianstephens/focusplan/internal/validation"
)

type ConfigShowCmd struct {
	Key string `arg:"" optional:"" help:"Show a single setting."`
}

func (c *ConfigShowCmd) Run(ctx *cli.Context) error {
	cfg, err := ctx.Config()
	if err != nil {
		return err
	}
	stored, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if c.Key != "" {
		value, ok := config.Get(cfg, c.Key)
		if !ok {
			return fmt.Errorf("%w: %s", config.ErrUnknownKey, c.Key)
		}
		fmt.Println(value)
		return nil
	}

	defaults := config.ToMap(config.Default())
	fmt.Println("Effective settings (* = changed from default):")
	for _, key := range config.Keys() {
		value, _ := config.Get(cfg, key)
		mark := " "
		if v, ok := stored[key]; ok && v != defaults[key] {
			mark = "*"
		}
		if value == "" {
			value = "-"
		}
		fmt.Printf(" %s %-36s %s\n", mark, key, value)
	}
	return nil
}

type ConfigSetCmd struct {
	Key   string `arg:"" help:"Setting key."`
	Value string `arg:"" help:"New value."`
}

func (c *ConfigSetCmd) Run(ctx *cli.Context) error {
	key := strings.ToLower(strings.TrimSpace(c.Key))
	if err := config.Check(key, c.Value); err != nil {
		return err
	}
	if err := ctx.Store.SetSetting(key, c.Value); err != nil {
		return fmt.Errorf("failed to save setting: %w", err)
	}
	// The combination may still be invalid, e.g. work_end_hour before work_start_hour.
	if _, err := ctx.Config(); err != nil {
		fmt.Printf("⚠ Saved %s, but the configuration is now invalid: %v\n", key, err)
		return nil
	}
	fmt.Printf("✓ %s = %s\n", key, c.Value)
	return nil
}

type ConfigExportCmd struct {
	Output string `short:"o" help:"Write to this file instead of stdout." type:"path"`
}

func (c *ConfigExportCmd) Run(ctx *cli.Context) error {
	cfg, err := ctx.Config()
	if err != nil {
		return err
	}
	var w io.Writer = os.Stdout
	if c.Output != "" {
		f, err := os.Create(c.Output)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", c.Output, err)
		}
		defer f.Close()
		w = f
	}
	if err := config.ExportYAML(w, cfg); err != nil {
		return err
	}
	if c.Output != "" {
		fmt.Printf("✓ Settings exported to %s\n", c.Output)
	}
	return nil
}

type ConfigImportCmd struct {
	File string `arg:"" help:"YAML file to import." type:"existingfile"`
}

func (c *ConfigImportCmd) Run(ctx *cli.Context) error {
	f, err := os.Open(c.File)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", c.File, err)
	}
	defer f.Close()

	values, err := config.ImportYAML(f)
	if err != nil {
		return err
	}
	if len(values) == 0 {
		return errors.New("no settings found in " + c.File)
	}

	// Validate the merged result before anything is written.
	stored, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	merged := make(map[string]string, len(stored)+len(values))
	for k, v := range stored {
		merged[k] = v
	}
	for k, v := range values {
		merged[k] = v
	}
	if err := validation.ValidateConfig(config.Resolve(merged, nil, nil)); err != nil {
		return err
	}

	if err := ctx.Store.SaveSettings(values); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	fmt.Printf("✓ Imported %d setting(s) from %s\n", len(values), c.File)
	return nil
}
