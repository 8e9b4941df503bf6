package cli

import (
	"fmt"

	"github.com/sadopc/pomo/internal/export"
	"github.com/sadopc/pomo/internal/pomo"
	"github.com/spf13/cobra"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List, export and import task templates",
}

var templatesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List built-in and saved templates",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		out := cmd.OutOrStdout()
		for _, tpl := range pomo.Open(st).Templates() {
			kind := "saved"
			if tpl.BuiltIn {
				kind = "built-in"
			}
			units := 0
			for _, bp := range tpl.Tasks {
				units += bp.Estimated
			}
			fmt.Fprintf(out, "  %-38s %-24s %-9s %d tasks, %d pomodoros\n",
				tpl.ID, tpl.Name, kind, len(tpl.Tasks), units)
		}
		return nil
	},
}

var templatesExportCmd = &cobra.Command{
	Use:   "export PATH",
	Short: "Write saved templates to a YAML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		user, err := st.LoadTemplates()
		if err != nil {
			return err
		}
		if err := export.TemplatesToYAML(user, args[0]); err != nil {
			return fmt.Errorf("exporting templates: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d templates to %s\n", len(user), args[0])
		return nil
	},
}

var templatesImportCmd = &cobra.Command{
	Use:   "import PATH",
	Short: "Add templates from a YAML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		imported, err := export.TemplatesFromYAML(args[0])
		if err != nil {
			return err
		}

		st, _, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		session := pomo.Open(st)
		out := cmd.OutOrStdout()
		for _, it := range imported {
			tpl, err := session.ImportTemplate(it.Name, it.Tasks)
			if err != nil {
				return fmt.Errorf("importing %q: %w", it.Name, err)
			}
			fmt.Fprintf(out, "  + %s (%d tasks)\n", tpl.Name, len(tpl.Tasks))
		}
		fmt.Fprintf(out, "Imported %d templates\n", len(imported))
		return nil
	},
}

func init() {
	templatesCmd.AddCommand(templatesListCmd, templatesExportCmd, templatesImportCmd)
	rootCmd.AddCommand(templatesCmd)
}
