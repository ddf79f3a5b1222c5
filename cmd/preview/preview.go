// Package preview prints a normalized statement to the terminal without
// writing any file.
package preview

import (
	"fmt"
	"io"
	"text/tabwriter"

	"fjacquet/statement-csv/cmd/common"
	"fjacquet/statement-csv/cmd/root"
	"fjacquet/statement-csv/internal/models"

	"github.com/spf13/cobra"
)

var limit int

// Cmd represents the preview command
var Cmd = &cobra.Command{
	Use:   "preview",
	Short: "Show the normalized rows of a statement",
	Long: `Standardize a statement and print the rows as a table, followed by
debit and credit totals per currency.`,
	RunE: previewFunc,
}

func init() {
	Cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show at most n rows (0 shows all)")
}

func previewFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}

	result, err := common.StandardizeInput(c.GetStandardizer(), root.SharedFlags.Input, c.GetLogger())
	if err != nil {
		return err
	}
	return Render(cmd.OutOrStdout(), result, limit)
}

// Render writes the rows of result as an aligned table, then the totals.
// A positive limit truncates the row listing but not the totals.
func Render(w io.Writer, result *models.StandardizationResult, limit int) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "DATE\tDESCRIPTION\tDEBIT\tCREDIT\tCARD\tTYPE\tLOCATION")
	for i, r := range result.Rows {
		if limit > 0 && i >= limit {
			break
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Date,
			r.Description,
			models.DisplayAmount(r.Debit, r.Currency),
			models.DisplayAmount(r.Credit, r.Currency),
			r.CardName,
			r.TransactionType,
			r.Location)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if limit > 0 && len(result.Rows) > limit {
		fmt.Fprintf(w, "... %d more rows\n", len(result.Rows)-limit)
	}

	fmt.Fprintf(w, "\n%d rows", len(result.Rows))
	if result.Filename != "" {
		fmt.Fprintf(w, " (output name %s)", result.Filename)
	}
	fmt.Fprintln(w)

	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CURRENCY\tROWS\tDEBIT\tCREDIT")
	for _, t := range models.Totals(result.Rows) {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", t.Currency, t.Count, t.Debit.Display(), t.Credit.Display())
	}
	return tw.Flush()
}
