package command

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"chatrum/internal/overview"
)

var overviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Show the chat overview ranked by latest activity",
	RunE: func(cmd *cobra.Command, args []string) error {
		m := overview.NewModel(nil)

		rows := m.Cache.Items()
		if len(rows) == 0 {
			fmt.Println("Nothing to show.")
			return nil
		}

		for _, row := range rows {
			fmt.Printf("%s\n", row.Name)
			if row.Description != "" {
				fmt.Printf("  %s\n", row.Description)
			}
			fmt.Printf("  last activity: %s\n", row.LatestMessageTime.Format("2006-01-02 15:04:05"))
			fmt.Println(strings.Repeat("-", 50))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(overviewCmd)
}
