package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Veraticus/smsledger/internal/cli"
	"github.com/Veraticus/smsledger/internal/common"
	"github.com/Veraticus/smsledger/internal/lifecycle"
	"github.com/Veraticus/smsledger/internal/model"
)

func patternsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patterns",
		Short: "Author and review extraction patterns",
		Long: `Makers save patterns as drafts and submit them; checkers approve or
reject submitted patterns. Only approved patterns are used for extraction.`,
	}

	cmd.AddCommand(patternsListCmd())
	cmd.AddCommand(patternsShowCmd())
	cmd.AddCommand(patternsAuthorCmd("draft", "Save a pattern as a draft", false))
	cmd.AddCommand(patternsAuthorCmd("submit", "Submit a pattern for review", true))
	cmd.AddCommand(patternsReviewCmd("approve", "Approve a submitted pattern", true))
	cmd.AddCommand(patternsReviewCmd("reject", "Reject a submitted pattern", false))

	return cmd
}

func patternsListCmd() *cobra.Command {
	var (
		status string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List patterns in one status",
		RunE: func(cmd *cobra.Command, _ []string) error {
			parsed, err := model.ParseStatus(status)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer closeApp(a)

			patterns, err := a.patterns.ListByStatus(ctx, parsed)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), patterns)
			}
			return writeLine(cmd.OutOrStdout(), cli.RenderPatterns(patterns))
		},
	}

	cmd.Flags().StringVarP(&status, "status", "s", string(model.StatusPending), "DRAFT, PENDING, APPROVED, REJECTED or FAILED")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")

	return cmd
}

func patternsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one pattern",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer closeApp(a)

			p, err := a.patterns.Get(ctx, id)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), p)
		},
	}
}

// patternFlags are the fields a maker or checker can set on a pattern.
type patternFlags struct {
	regex        string
	sample       string
	title        string
	bankName     string
	merchantName string
	txType       string
	msgType      string
	msgSubtype   string
}

func (f *patternFlags) register(flags *pflag.FlagSet) {
	flags.StringVarP(&f.regex, "regex", "r", "", "regex with named groups")
	flags.StringVar(&f.sample, "sample", "", "sample SMS the regex was written against")
	flags.StringVarP(&f.title, "title", "t", "", "sender title hint used to find the bank")
	flags.StringVar(&f.bankName, "bank", "", "bank name default")
	flags.StringVar(&f.merchantName, "merchant", "", "merchant name default")
	flags.StringVar(&f.txType, "tx-type", "", "transaction type default, e.g. DEBIT")
	flags.StringVar(&f.msgType, "msg-type", "", "message type default")
	flags.StringVar(&f.msgSubtype, "category", "", "category default")
}

// changed returns a pointer for each flag the user set and nil otherwise.
func changed(flags *pflag.FlagSet, name, value string) *string {
	if !flags.Changed(name) {
		return nil
	}
	return &value
}

func patternsAuthorCmd(use, short string, submit bool) *cobra.Command {
	var (
		f  patternFlags
		id int64
	)

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Long: short + `.

Without --id a new pattern is created. With --id the stored pattern is
overwritten entirely with the given fields.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer closeApp(a)

			flags := cmd.Flags()
			in := lifecycle.PatternInput{
				Regex:        f.regex,
				SampleText:   f.sample,
				TitleHint:    f.title,
				BankName:     changed(flags, "bank", f.bankName),
				MerchantName: changed(flags, "merchant", f.merchantName),
				TxType:       changed(flags, "tx-type", f.txType),
				MsgType:      changed(flags, "msg-type", f.msgType),
				MsgSubtype:   changed(flags, "category", f.msgSubtype),
			}

			var target *int64
			if flags.Changed("id") {
				target = &id
			}

			var saved *model.Pattern
			if submit {
				saved, err = a.patterns.Submit(ctx, target, in)
			} else {
				saved, err = a.patterns.SaveDraft(ctx, target, in)
			}
			if err != nil {
				return err
			}

			return writeLine(cmd.OutOrStdout(),
				cli.FormatSuccess(fmt.Sprintf("Pattern #%d is now %s", saved.ID, saved.Status)))
		},
	}

	f.register(cmd.Flags())
	cmd.Flags().Int64Var(&id, "id", 0, "existing pattern to overwrite")

	return cmd
}

func patternsReviewCmd(use, short string, approve bool) *cobra.Command {
	var f patternFlags

	cmd := &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Long: short + `.

Any field flag given is applied to the pattern first; fields not given are
left as submitted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer closeApp(a)

			flags := cmd.Flags()
			upd := lifecycle.PatternUpdate{
				ID:           id,
				Regex:        changed(flags, "regex", f.regex),
				SampleText:   changed(flags, "sample", f.sample),
				TitleHint:    changed(flags, "title", f.title),
				BankName:     changed(flags, "bank", f.bankName),
				MerchantName: changed(flags, "merchant", f.merchantName),
				TxType:       changed(flags, "tx-type", f.txType),
				MsgType:      changed(flags, "msg-type", f.msgType),
				MsgSubtype:   changed(flags, "category", f.msgSubtype),
			}

			var saved *model.Pattern
			if approve {
				saved, err = a.patterns.Approve(ctx, upd)
			} else {
				saved, err = a.patterns.Reject(ctx, upd)
			}
			if err != nil {
				return err
			}

			return writeLine(cmd.OutOrStdout(),
				cli.FormatSuccess(fmt.Sprintf("Pattern #%d is now %s", saved.ID, saved.Status)))
		},
	}

	f.register(cmd.Flags())

	return cmd
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, common.NewUserError(fmt.Sprintf("Pattern id must be a positive number, got %q", s), err)
	}
	return id, nil
}
