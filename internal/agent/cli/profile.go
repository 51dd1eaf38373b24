package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// ErrNotLoggedIn — в локальном файле нет токена.
var ErrNotLoggedIn = errors.New("not logged in: run `authctl login` first")

// NewProfileCmd создаёт CLI-команду, показывающую профиль по сохранённому токену.
//
// Пример использования:
//
//	authctl profile
func NewProfileCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Показать профиль текущего пользователя",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Creds == nil || app.Creds.Token == "" {
				return ErrNotLoggedIn
			}

			c := NewAPIClient(app.ServerURL, app.Insecure)
			resp, err := c.Profile(app.Creds.Token)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "user_id=%d\nemail=%s\n", resp.UserID, resp.Email)
			return nil
		},
	}
}
