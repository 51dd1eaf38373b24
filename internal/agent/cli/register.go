package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRegisterCmd создаёт CLI-команду регистрации нового пользователя.
//
// Пример использования:
//
//	authctl register --email test@example.com --password StrongPass123
//
// Без --password пароль запрашивается в терминале без эха.
func NewRegisterCmd(app *App) *cobra.Command {
	var (
		email     string
		password  string
		fromStdin bool
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Регистрация нового пользователя",
		Long: `Регистрация нового пользователя.

Пример:
  authctl register --email test@example.com --password StrongPass123
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := resolvePassword(cmd, password, fromStdin)
			if err != nil {
				return err
			}

			c := NewAPIClient(app.ServerURL, app.Insecure)
			resp, err := c.Register(email, pw)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "registered: id=%d email=%s\n", resp.ID, resp.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email for registration")
	cmd.Flags().StringVar(&password, "password", "", "password for registration (prompted if empty)")
	cmd.Flags().BoolVar(&fromStdin, "password-stdin", false, "read password from stdin")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}
