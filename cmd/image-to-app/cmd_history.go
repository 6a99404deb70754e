package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/battlewithbytes/image-to-app/internal/engine"
	"github.com/battlewithbytes/image-to-app/internal/ui"
)

var historyLimit int

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of events to show (0 for all)")
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history [NAME]",
	Short: "Show recent register, update, icon and delete operations",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := openStore(cfg.Paths.HistoryDB)
		if err != nil {
			return err
		}
		defer store.Close()

		var events []*engine.Event
		if len(args) == 1 {
			events, err = store.ForEntry(args[0])
		} else {
			events, err = store.Recent(historyLimit)
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(out, ui.Dim.Render("No history recorded."))
			return nil
		}
		rows := make([][]string, 0, len(events))
		for _, ev := range events {
			rows = append(rows, []string{
				ev.CreatedAt.Local().Format(time.DateTime),
				ev.Action,
				ev.Entry,
				ev.Detail,
			})
		}
		fmt.Fprintln(out, ui.Table([]string{"When", "Action", "Entry", "Detail"}, rows))
		return nil
	},
}
