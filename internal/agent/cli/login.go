package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-livestock-market/internal/agent/config"
)

// NewLoginCmd создаёт команду входа.
//
// Access токен и данные пользователя сохраняются в локальный файл учётных данных.
//
//	livestock login --email farmer@example.com
func NewLoginCmd(app *App) *cobra.Command {
	var (
		email, password string
		fromStdin       bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Логин пользователя (сохранить access токен)",
		Long: `Логин пользователя.

Пример:
  livestock login --email farmer@example.com
  echo "$PASS" | livestock login --email farmer@example.com --password-stdin
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := passwordFlag(cmd, password, fromStdin)
			if err != nil {
				return err
			}

			resp, err := app.client().Login(cmd.Context(), email, pw)
			if err != nil {
				return err
			}

			app.Creds = &config.Credentials{
				AccessToken: resp.AccessToken,
				UserID:      resp.User.ID,
				Email:       resp.User.Email,
				Name:        resp.User.Name,
				Role:        resp.User.Role,
			}
			if err := SaveCredentials(app.CredsPath, app.Creds); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "login ok: %s (%s), token saved\n", resp.User.Email, resp.User.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email for login")
	cmd.Flags().StringVar(&password, "password", "", "password (prompted when omitted)")
	cmd.Flags().BoolVar(&fromStdin, "password-stdin", false, "read password from STDIN")
	cmd.MarkFlagRequired("email")

	return cmd
}
