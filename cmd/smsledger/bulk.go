package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Veraticus/smsledger/internal/cli"
	"github.com/Veraticus/smsledger/internal/engine"
)

func bulkCmd() *cobra.Command {
	var (
		file    string
		asJSON  bool
		workers int
	)

	cmd := &cobra.Command{
		Use:   "bulk",
		Short: "Extract fields from many SMS in one run",
		Long: `Process a JSON array of {"smsTitle": ..., "sms": ...} objects.

Bulk runs are dry runs: messages no pattern handles are reported but never
saved as FAILED patterns. Use "-" to read from stdin.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			items, err := loadBatch(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}

			handler := cli.NewInterruptHandler(cmd.ErrOrStderr())
			ctx := handler.HandleInterrupts(cmd.Context(), "Bulk extraction", true)
			defer handler.Stop()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer closeApp(a)

			opts := []engine.BatchOption{engine.WithWorkers(workers)}
			var progress *cli.BatchProgress
			if !asJSON {
				progress = cli.NewBatchProgress(cmd.ErrOrStderr(), len(items))
				opts = append(opts, engine.WithProgress(func(r engine.ItemResult) {
					progress.Tick(r.Matched)
				}))
			}

			result := a.engine.ProcessBatch(ctx, items, opts...)
			if handler.WasInterrupted() {
				return ctx.Err()
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), result)
			}
			return printBatch(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON file with SMS items, or - for stdin")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full result as JSON")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "concurrent workers (default: bulk.workers or 8)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func loadBatch(stdin io.Reader, path string) ([]engine.BatchItem, error) {
	r, err := readInput(stdin, path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := r.Close(); cerr != nil {
			slog.Warn("Failed to close input", "error", cerr)
		}
	}()
	return decodeBatch(r)
}

func decodeBatch(r io.Reader) ([]engine.BatchItem, error) {
	var items []engine.BatchItem
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return nil, fmt.Errorf("failed to parse SMS list: %w", err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("SMS list is empty")
	}
	return items, nil
}

func printBatch(w io.Writer, result engine.BatchResult) error {
	if err := writeLine(w, cli.RenderBatchSummary(result.BatchID, result.TotalCount, result.SuccessCount, result.FailedCount)); err != nil {
		return err
	}

	rows := make([][]string, 0, len(result.Results))
	for _, r := range result.Results {
		status := cli.SuccessIcon
		if !r.Matched {
			status = cli.ErrorIcon
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", r.Index),
			status,
			r.Title,
			cli.Truncate(r.Message, 60),
		})
	}
	return writeLine(w, cli.RenderTable([]string{"#", "", "TITLE", "RESULT"}, rows))
}
