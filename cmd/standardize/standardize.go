// Package standardize implements the command that normalizes one statement
// file and writes the result to disk.
package standardize

import (
	"fmt"

	"fjacquet/statement-csv/cmd/common"
	"fjacquet/statement-csv/cmd/root"
	export "fjacquet/statement-csv/internal/common"
	"fjacquet/statement-csv/internal/logging"

	"github.com/spf13/cobra"
)

var formatFlag string

// Cmd represents the standardize command
var Cmd = &cobra.Command{
	Use:   "standardize",
	Short: "Normalize a bank statement CSV",
	Long: `Normalize a multi-section bank statement CSV into the standard
eight-column layout. The output name is derived from the input name
("HDFC-Input.csv" becomes "HDFC-Output.csv") unless -o is given.`,
	RunE: standardizeFunc,
}

func init() {
	Cmd.Flags().StringVar(&formatFlag, "format", "", "Export format: csv or xlsx (default from config)")
}

func standardizeFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	log := c.GetLogger()
	cfg := c.GetConfig()

	formatName := cfg.Export.Format
	if formatFlag != "" {
		formatName = formatFlag
	}
	format, err := export.ParseFormat(formatName)
	if err != nil {
		return err
	}

	input := root.SharedFlags.Input
	result, err := common.StandardizeInput(c.GetStandardizer(), input, log)
	if err != nil {
		return err
	}

	output := common.OutputPath(root.SharedFlags.Output, cfg.Export.OutputDir, input, result.Filename, format)
	if err := export.WriteFile(output, result.Rows, format, log); err != nil {
		return err
	}

	log.Info("Standardization completed successfully!",
		logging.F(logging.FieldOutputFile, output),
		logging.F(logging.FieldCount, len(result.Rows)))
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d rows to %s\n", len(result.Rows), output)
	return nil
}
