package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Veraticus/smsledger/internal/cli"
	"github.com/Veraticus/smsledger/internal/dateparse"
	"github.com/Veraticus/smsledger/internal/extract"
	"github.com/Veraticus/smsledger/internal/model"
)

func extractCmd() *cobra.Command {
	var (
		title   string
		message string
		asJSON  bool
		save    bool
		userID  int64
		yes     bool
	)

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract transaction fields from an SMS",
		Long: `Run an SMS through the live pipeline.

The sender title picks the bank, the bank's approved patterns are tried in
order, and the first match is overlaid with pattern defaults and a merchant
category. A message nothing handles is saved as a FAILED pattern.

With --save the extracted transaction is stored for --user after confirmation.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
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

			if err := printResult(cmd.OutOrStdout(), result, asJSON); err != nil {
				return err
			}

			if !save || !result.Matched {
				return nil
			}
			if userID <= 0 {
				return fmt.Errorf("--user is required with --save")
			}

			if !yes {
				reader := cli.NewNonBlockingReader(cmd.InOrStdin())
				ok, err := cli.Confirm(ctx, reader, cmd.OutOrStdout(), "Save this transaction?")
				if err != nil {
					return err
				}
				if !ok {
					return writeLine(cmd.OutOrStdout(), cli.FormatInfo("Not saved"))
				}
			}

			return saveTransaction(ctx, a, cmd.OutOrStdout(), userID, message, result)
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "SMS sender title, e.g. VM-HDFCBK")
	cmd.Flags().StringVarP(&message, "message", "m", "", "SMS body")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	cmd.Flags().BoolVar(&save, "save", false, "save the extracted transaction")
	cmd.Flags().Int64Var(&userID, "user", 0, "user the transaction belongs to")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "save without asking")
	_ = cmd.MarkFlagRequired("message")

	return cmd
}

func checkCmd() *cobra.Command {
	var (
		title   string
		message string
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check whether an approved pattern already handles an SMS",
		Long: `Run an SMS through the pipeline without writing anything.

Makers use this before authoring a pattern to see whether one already exists.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer closeApp(a)

			result, err := a.engine.CheckPattern(ctx, message, title)
			if err != nil {
				return fmt.Errorf("check failed: %w", err)
			}
			return printResult(cmd.OutOrStdout(), result, asJSON)
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "SMS sender title")
	cmd.Flags().StringVarP(&message, "message", "m", "", "SMS body")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	_ = cmd.MarkFlagRequired("message")

	return cmd
}

func testCmd() *cobra.Command {
	var (
		regex   string
		message string
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "test",
		Short: "Test a regex against an SMS",
		Long: `Apply a regex to an SMS and show the captured fields.

No bank lookup, defaults or categorization happen here; this shows exactly what
the regex captures.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			result := extract.Extract(regex, message)
			return printResult(cmd.OutOrStdout(), result, asJSON)
		},
	}

	cmd.Flags().StringVarP(&regex, "regex", "r", "", "regex with named groups")
	cmd.Flags().StringVarP(&message, "message", "m", "", "SMS body")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	_ = cmd.MarkFlagRequired("regex")
	_ = cmd.MarkFlagRequired("message")

	return cmd
}

func printResult(w io.Writer, result model.ExtractionResult, asJSON bool) error {
	if asJSON {
		return writeJSON(w, result)
	}
	return writeLine(w, cli.RenderExtraction(result))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// transactionFrom builds a transaction from a matched extraction. An
// unparseable date is dropped rather than failing the save.
func transactionFrom(userID int64, message string, r model.ExtractionResult) *model.Transaction {
	txn := &model.Transaction{
		UserID:           userID,
		Message:          message,
		Amount:           r.Amount,
		AvailableBalance: r.AvailableBalance,
		BankName:         model.StringValue(r.BankName),
		MerchantName:     model.StringValue(r.MerchantName),
		AccountNumber:    model.StringValue(r.AccountNumber),
		TxType:           model.StringValue(r.TxType),
		MsgType:          model.StringValue(r.MsgType),
		MsgSubtype:       model.StringValue(r.MsgSubtype),
		ReferenceNo:      model.StringValue(r.ReferenceNo),
	}

	if raw := model.StringValue(r.Date); raw != "" {
		if d, ok := dateparse.Parse(raw); ok {
			txn.Date = &d
		} else {
			slog.Warn("Could not parse transaction date", "date", raw)
		}
	}
	return txn
}

func saveTransaction(ctx context.Context, a *app, w io.Writer, userID int64, message string, r model.ExtractionResult) error {
	saved, err := a.store.SaveTransaction(ctx, transactionFrom(userID, message, r))
	if err != nil {
		return fmt.Errorf("failed to save transaction: %w", err)
	}
	return writeLine(w, cli.FormatSuccess(fmt.Sprintf("Saved transaction #%d", saved.ID)))
}

// readInput opens path, or returns stdin when path is "-".
func readInput(stdin io.Reader, path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return f, nil
}
