package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-auth-service/internal/agent/config"
)

// NewLoginCmd создаёт CLI-команду для входа пользователя.
//
// Команда получает access токен и сохраняет его в локальный файл
// учётных данных. При ошибке входа файл не изменяется.
//
// Пример использования:
//
//	authctl login --email test@example.com --password StrongPass123
func NewLoginCmd(app *App) *cobra.Command {
	var (
		email     string
		password  string
		fromStdin bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Логин пользователя (получить access токен)",
		Long: `Логин пользователя.

Пример:
  authctl login --email test@example.com --password StrongPass123
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := resolvePassword(cmd, password, fromStdin)
			if err != nil {
				return err
			}

			c := NewAPIClient(app.ServerURL, app.Insecure)
			resp, err := c.Login(email, pw)
			if err != nil {
				return err
			}

			app.Creds.Token = resp.Token
			app.Creds.Email = email

			if err := config.Save(app.CredsPath, app.Creds); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "login ok (token saved)")
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email for login")
	cmd.Flags().StringVar(&password, "password", "", "password for login (prompted if empty)")
	cmd.Flags().BoolVar(&fromStdin, "password-stdin", false, "read password from stdin")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}
