package cmd

import (
	"fmt"

	"github.com/miramar-experience/api-go/sheets"
	"github.com/miramar-experience/api-go/utils"
	"github.com/spf13/cobra"
)

var credentialsFile string

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Publish the directory to the knowledge spreadsheet",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cfg, log)
		if err != nil {
			return err
		}
		defer a.Close()

		var override []sheets.Provider
		if credentialsFile != "" {
			override = append(override, sheets.FromFile(credentialsFile))
		}
		result, err := a.sync.Sync(cmd.Context(), utils.CronSession(), override...)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "synced %d rows to %s (%s)\n", result.Count, result.SpreadsheetID, result.Tab)
		return nil
	},
}

func init() {
	syncCmd.Flags().StringVar(&credentialsFile, "credentials", "", "service account JSON key file, takes precedence over settings and env")
}
