package cli

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-livestock-market/internal/agent/api"
	"github.com/IvanChernomyrdin/go-livestock-market/internal/agent/config"
)

// NewLogoutCmd создаёт команду выхода.
//
// Токен удаляется локально, даже если сервер уже не принимает его (401).
func NewLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Выход (забыть access токен)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireLogin(); err != nil {
				return err
			}

			_, err := app.client().Logout(cmd.Context(), app.Creds.AccessToken)
			if err != nil && api.StatusOf(err) != http.StatusUnauthorized {
				return err
			}

			app.Creds = &config.Credentials{}
			if err := SaveCredentials(app.CredsPath, app.Creds); err != nil {
				return err
			}
			if app.Animals != nil {
				app.Animals.ReplaceAll(nil)
				if err := SaveAnimalsToFile(app.AnimalsPath, app.Animals); err != nil {
					return err
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), "logout ok")
			return nil
		},
	}
}
