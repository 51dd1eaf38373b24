package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-auth-service/internal/agent/config"
)

// NewLogoutCmd создаёт CLI-команду, удаляющую сохранённый токен.
//
// Токен без состояния на сервере, поэтому выход локальный.
func NewLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Удалить сохранённый токен",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Save(app.CredsPath, &config.Credentials{}); err != nil {
				return err
			}
			app.Creds = &config.Credentials{}

			fmt.Fprintln(cmd.OutOrStdout(), "logged out")
			return nil
		},
	}
}
