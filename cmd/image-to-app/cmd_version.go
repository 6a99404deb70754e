package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/battlewithbytes/image-to-app/internal/config"
	"github.com/battlewithbytes/image-to-app/internal/version"
)

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%s %s\n", config.AppName, version.Version)
		fmt.Printf("  commit: %s\n", version.Commit)
		fmt.Printf("  built:  %s\n", version.Date)
	},
}
