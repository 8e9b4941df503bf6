package cli

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/sadopc/pomo/internal/pomo"
	"github.com/sadopc/pomo/internal/store"
	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show, read or change timer settings",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print every setting",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		settings, err := st.LoadSettings()
		if err != nil {
			return err
		}
		for _, s := range store.EncodeSettings(settings) {
			fmt.Fprintf(cmd.OutOrStdout(), "%-22s %s\n", s.Key, s.Value)
		}
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Change one setting",
	Long:  "Change one setting. Keys: " + strings.Join(store.SettingKeys(), ", "),
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		settings, err := st.LoadSettings()
		if err != nil {
			return err
		}
		if err := store.ApplySetting(&settings, args[0], args[1]); err != nil {
			return err
		}
		value := encodedValue(settings, args[0])
		if err := st.SetSetting(args[0], value); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], value)
		return nil
	},
}

var settingsGetCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Print one setting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !slices.Contains(store.SettingKeys(), args[0]) {
			return fmt.Errorf("unknown setting %q: %w", args[0], pomo.ErrNotFound)
		}

		st, _, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		value, err := st.GetSetting(args[0])
		if errors.Is(err, pomo.ErrNotFound) {
			value = encodedValue(pomo.DefaultSettings(), args[0])
		} else if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), value)
		return nil
	},
}

// encodedValue is the stored form of key in s.
func encodedValue(s pomo.Settings, key string) string {
	for _, kv := range store.EncodeSettings(s) {
		if kv.Key == key {
			return kv.Value
		}
	}
	return ""
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd, settingsGetCmd, settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}
