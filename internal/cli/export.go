package cli

import (
	"fmt"

	"github.com/sadopc/pomo/internal/export"
	"github.com/spf13/cobra"
)

var (
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the focus session log as CSV or JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if exportFormat != "csv" && exportFormat != "json" {
			return fmt.Errorf("unsupported format %q (use csv or json)", exportFormat)
		}

		st, _, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		sessions, err := st.LoadSessions()
		if err != nil {
			return err
		}

		path := exportOut
		if path == "" {
			path = fmt.Sprintf("pomo-sessions-%s.%s", now().Format("2006-01-02"), exportFormat)
		}
		if exportFormat == "csv" {
			err = export.SessionsToCSV(sessions, path)
		} else {
			err = export.SessionsToJSON(sessions, path)
		}
		if err != nil {
			return fmt.Errorf("exporting sessions: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d sessions to %s\n", len(sessions), path)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "csv", "output format: csv or json")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default pomo-sessions-<date>.<format>)")
	rootCmd.AddCommand(exportCmd)
}
