package main

import (
	"errors"
	"fmt"

	"gamesite/db"
	"gamesite/store"
	"gamesite/utils"

	"github.com/spf13/cobra"
)

func createAdminCmd() *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "createadmin",
		Short: "Create a staff account, or promote an existing one",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" || password == "" {
				return errors.New("--username and --password are required")
			}
			_, conn, err := bootstrap()
			if err != nil {
				return err
			}
			if err := db.Migrate(conn); err != nil {
				return err
			}
			user, err := store.NewUserStore(conn).EnsureAdmin(cmd.Context(), username, password)
			if err != nil {
				return err
			}
			utils.LogInfo("Admin account ready", map[string]interface{}{"user_id": user.ID, "username": user.Username})
			fmt.Fprintf(cmd.OutOrStdout(), "admin %q ready (id %d)\n", user.Username, user.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "account name")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	return cmd
}
