package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/battlewithbytes/image-to-app/internal/ui"
	"github.com/battlewithbytes/image-to-app/internal/version"
)

var (
	flagConfig  string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "image-to-app [flags] [ICON_PATH] [NAME]",
	Short: "Register AppImages as desktop launcher entries",
	Example: `  image-to-app --new ./Krita.AppImage ./krita.png
  image-to-app --build ./dist
  image-to-app --icon ./new.svg Krita
  image-to-app --list --delete OldTool`,
	Version:      version.Version,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	// main prints the error itself.
	SilenceErrors:     true,
	PersistentPreRunE: setupLogging,
	RunE:              runRoot,
}

func init() {
	rootCmd.Long = ui.Green.Render("image-to-app") + " " + ui.Cyan.Render(version.Version) + "\n" +
		ui.Dim.Render("Copies an AppImage and its icon into a storage directory and installs a .desktop launcher for it.")

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "config file (default $XDG_CONFIG_HOME/image-to-app/config.yml)")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "log each step to stderr")

	registerOperationFlags(rootCmd)
}

func setupLogging(cmd *cobra.Command, args []string) error {
	log.SetFlags(0)
	if flagVerbose {
		log.SetOutput(os.Stderr)
	} else {
		log.SetOutput(io.Discard)
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		ui.Error(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
