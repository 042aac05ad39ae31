package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-livestock-market/internal/shared/models"
)

// NewRegisterCmd создаёт команду регистрации.
//
// Пароль можно передать флагом --password, через --password-stdin
// или ввести интерактивно.
//
//	livestock register --name Ivan --email farmer@example.com --role farmer
func NewRegisterCmd(app *App) *cobra.Command {
	var (
		req       models.RegisterRequest
		fromStdin bool
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Регистрация нового пользователя",
		Long: `Регистрация нового пользователя на сервере.

Роль: buyer (по умолчанию) или farmer.

Пример:
  livestock register --name Ivan --email farmer@example.com --role farmer --location "Tver"
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := passwordFlag(cmd, req.Password, fromStdin)
			if err != nil {
				return err
			}
			req.Password = pw

			resp, err := app.client().Register(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "registration successful (user_id=%s)\n", resp.UserID)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "display name")
	cmd.Flags().StringVar(&req.Email, "email", "", "email for registration")
	cmd.Flags().StringVar(&req.Password, "password", "", "password (prompted when omitted)")
	cmd.Flags().StringVar(&req.Phone, "phone", "", "contact phone")
	cmd.Flags().StringVar(&req.Location, "location", "", "location")
	cmd.Flags().StringVar(&req.Role, "role", "", "buyer|farmer (default buyer)")
	cmd.Flags().BoolVar(&fromStdin, "password-stdin", false, "read password from STDIN")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("email")

	return cmd
}
