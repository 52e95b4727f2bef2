package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/smsledger/internal/cli"
	"github.com/Veraticus/smsledger/internal/model"
)

func merchantsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merchants",
		Short: "Manage merchant categories",
		Long: `Merchants are mapped to one of a fixed set of categories. Unknown
merchants are classified by the configured LLM and remembered.`,
	}

	cmd.AddCommand(merchantsListCmd())
	cmd.AddCommand(merchantsAddCmd())
	cmd.AddCommand(merchantsCategorizeCmd())

	return cmd
}

func merchantsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List merchant mappings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer closeApp(a)

			merchants, err := a.categorizer.List(ctx)
			if err != nil {
				return err
			}
			return writeLine(cmd.OutOrStdout(), cli.RenderMerchants(merchants))
		},
	}
}

func merchantsAddCmd() *cobra.Command {
	categories := make([]string, len(model.Categories))
	for i, c := range model.Categories {
		categories[i] = string(c)
	}

	return &cobra.Command{
		Use:   "add <merchant> <category>",
		Short: "Map a merchant to a category",
		Long:  "Map a merchant to one of: " + strings.Join(categories, ", "),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer closeApp(a)

			mc, err := a.categorizer.Add(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			return writeLine(cmd.OutOrStdout(),
				cli.FormatSuccess(fmt.Sprintf("%s → %s", mc.MerchantName, mc.Category)))
		},
	}
}

func merchantsCategorizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categorize <merchant>",
		Short: "Show the category a merchant gets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer closeApp(a)

			category := a.categorizer.Categorize(ctx, args[0])
			return writeLine(cmd.OutOrStdout(), fmt.Sprintf("%s → %s", args[0], category))
		},
	}
}
