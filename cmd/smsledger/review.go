package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/smsledger/internal/cli"
	"github.com/Veraticus/smsledger/internal/tui"
	"github.com/Veraticus/smsledger/internal/tui/themes"
)

func reviewCmd() *cobra.Command {
	var theme string

	cmd := &cobra.Command{
		Use:   "review",
		Short: "Review submitted patterns interactively",
		Long: `Open a terminal UI over the PENDING queue.

Each pattern is previewed against its own sample SMS. Approve, reject, or
edit the regex before approving.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer closeApp(a)

			if theme == "" {
				theme = viper.GetString("tui.theme")
			}

			summary, err := tui.Run(ctx, a.patterns, tui.WithTheme(themes.ByName(theme)))
			if err != nil {
				return err
			}

			return writeLine(cmd.OutOrStdout(), cli.FormatInfo(
				fmt.Sprintf("Review finished: %d approved, %d rejected", summary.Approved, summary.Rejected)))
		},
	}

	cmd.Flags().StringVar(&theme, "theme", "", "color theme (default, mocha)")

	return cmd
}
