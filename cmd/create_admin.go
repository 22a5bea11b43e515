package cmd

import (
	"fmt"

	"github.com/miramar-experience/api-go/services"
	"github.com/spf13/cobra"
)

var adminInput services.CreateAdminInput

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an admin panel account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cfg, log)
		if err != nil {
			return err
		}
		defer a.Close()

		user, err := a.auth.CreateAdmin(cmd.Context(), adminInput)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (id %d)\n", user.Email, user.ID)
		return nil
	},
}

func init() {
	f := createAdminCmd.Flags()
	f.StringVar(&adminInput.Email, "email", "", "login email")
	f.StringVar(&adminInput.Password, "password", "", "password, 8 to 72 characters")
	f.StringVar(&adminInput.FullName, "name", "", "display name")
	_ = createAdminCmd.MarkFlagRequired("email")
	_ = createAdminCmd.MarkFlagRequired("password")
}
