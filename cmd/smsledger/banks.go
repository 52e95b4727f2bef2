package main

import (
	"github.com/spf13/cobra"

	"github.com/Veraticus/smsledger/internal/cli"
	"github.com/Veraticus/smsledger/internal/model"
)

func banksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "banks",
		Short: "Inspect known banks",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List known banks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer closeApp(a)

			banks, err := a.store.ListBanks(ctx)
			if err != nil {
				return err
			}
			return writeLine(cmd.OutOrStdout(), cli.RenderBanks(banks))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "resolve <title>",
		Short: "Show which bank an SMS title resolves to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer closeApp(a)

			bank, err := a.banks.ResolveBank(ctx, args[0])
			if err != nil {
				return err
			}
			if bank == nil {
				return writeLine(cmd.OutOrStdout(), cli.FormatWarning("No bank found in SMS title: "+args[0]))
			}
			return writeLine(cmd.OutOrStdout(), cli.RenderBanks([]model.Bank{*bank}))
		},
	})

	return cmd
}
