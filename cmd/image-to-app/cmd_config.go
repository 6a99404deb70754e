package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/battlewithbytes/image-to-app/internal/config"
	"github.com/battlewithbytes/image-to-app/internal/ui"
)

var configInitForce bool

func init() {
	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false, "overwrite an existing config file")
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and create the image-to-app configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, dirs, err := loadConfig()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		fmt.Fprintln(out, ui.Cyan.Render("Paths:"))
		ui.Field(out, "Desktop", cfg.Paths.DesktopDir)
		ui.Field(out, "Storage", cfg.Paths.StorageRoot)
		ui.Field(out, "History", cfg.Paths.HistoryDB)
		fmt.Fprintln(out)
		fmt.Fprintln(out, ui.Cyan.Render("Scan:"))
		ui.Field(out, "Bundle", cfg.Scan.BundleMarker)
		ui.Field(out, "Icons", strings.Join(cfg.Scan.IconExtensions, " "))
		ui.Field(out, "Metadata", cfg.Scan.MetadataFile)
		fmt.Fprintln(out)
		fmt.Fprintln(out, ui.Cyan.Render("Desktop:"))
		ui.Field(out, "Overwrite", cfg.Desktop.Overwrite)
		ui.Field(out, "Strict", fmt.Sprintf("%v", cfg.Desktop.StrictCategories))
		ui.Field(out, "Chmod", cfg.Desktop.ChmodCommand)
		ui.Field(out, "Refresh", cfg.Desktop.RefreshCommand)
		fmt.Fprintln(out)

		path := configPath(dirs)
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintln(out, ui.Dim.Render("Config file: "+path+" (not present, using defaults)"))
		} else {
			fmt.Fprintln(out, ui.Dim.Render("Config file: "+path))
		}
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration to the config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dirs := config.ResolveDirs(os.Getenv)
		path := configPath(dirs)

		if _, err := os.Stat(path); err == nil && !configInitForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}

		if err := config.Defaults(dirs).Save(path); err != nil {
			return err
		}
		ui.Success(cmd.OutOrStdout(), "Wrote %s", ui.White.Render(path))
		return nil
	},
}
