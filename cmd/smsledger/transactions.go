package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/smsledger/internal/cli"
)

func transactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transactions",
		Short: "Save and list user transactions",
	}

	cmd.AddCommand(transactionsSaveCmd())
	cmd.AddCommand(transactionsListCmd())

	return cmd
}

func transactionsSaveCmd() *cobra.Command {
	var (
		title   string
		message string
		userID  int64
	)

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Extract an SMS and save it for a user",
		Long: `Run the SMS through the live pipeline and store the result for --user.
Nothing is saved when no pattern matches.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if userID <= 0 {
				return fmt.Errorf("--user must be a positive id")
			}

			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer closeApp(a)

			result, err := a.engine.FindPattern(ctx, message, title)
			if err != nil {
				return fmt.Errorf("extraction failed: %w", err)
			}
			if !result.Matched {
				return writeLine(cmd.OutOrStdout(), cli.FormatError(result.Message))
			}

			return saveTransaction(ctx, a, cmd.OutOrStdout(), userID, message, result)
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "SMS sender title")
	cmd.Flags().StringVarP(&message, "message", "m", "", "SMS body")
	cmd.Flags().Int64Var(&userID, "user", 0, "user the transaction belongs to")
	_ = cmd.MarkFlagRequired("message")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func transactionsListCmd() *cobra.Command {
	var (
		userID int64
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a user's saved transactions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer closeApp(a)

			txns, err := a.store.ListTransactionsByUser(ctx, userID)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), txns)
			}
			return writeLine(cmd.OutOrStdout(), cli.RenderTransactions(txns))
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 0, "user id")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
