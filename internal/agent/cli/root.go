// Package cli реализует командный интерфейс клиента Livestock Market.
//
// Root-команда загружает сохранённые учётные данные и локальный кэш
// объявлений, подкоманды работают с сервером через пакет api.
//
// Точка входа пакета — функция Execute.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-livestock-market/internal/agent/api"
	"github.com/IvanChernomyrdin/go-livestock-market/internal/agent/config"
	"github.com/IvanChernomyrdin/go-livestock-market/internal/agent/memory"
)

const defaultServerURL = "http://127.0.0.1:8080"

// App содержит состояние CLI, разделяемое между командами.
type App struct {
	// ServerURL — базовый URL сервера.
	ServerURL string
	// Insecure отключает проверку TLS-сертификата (самоподписанный dev-сертификат).
	Insecure bool

	CredsPath string
	Creds     *config.Credentials

	AnimalsPath string
	Animals     *memory.AnimalsStore
}

// client создаёт API-клиент по настройкам App.
func (a *App) client() *api.Client {
	return NewAPIClient(a.ServerURL, a.Insecure)
}

func (a *App) requireLogin() error {
	if !a.Creds.LoggedIn() {
		return fmt.Errorf("not logged in, run: livestock login")
	}
	return nil
}

// NewRootCmd создаёт root-команду и регистрирует подкоманды.
func NewRootCmd(buildVersion, buildDate string) *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:   "livestock",
		Short: "Livestock Market CLI: аккаунт и объявления о продаже животных",
		Long: `Livestock Market CLI.

Команды:
  register  Регистрация нового пользователя
  login     Логин (сохраняет access токен локально)
  logout    Выход
  animals   Мои объявления: list, create, update, delete
  version   Версия и дата сборки

Примеры:
  livestock register --name Ivan --email farmer@example.com --role farmer
  livestock login --email farmer@example.com
  livestock animals create --type cow --breed Holstein --age 3 --price 1500 \
      --description "milk cow" --image ./cow.jpg
  livestock animals list
`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			p, err := config.DefaultPath()
			if err != nil {
				return err
			}
			app.CredsPath = p

			creds, err := config.Load(app.CredsPath)
			if err != nil {
				return err
			}
			app.Creds = creds

			ap, err := memory.DefaultAnimalsPath()
			if err != nil {
				return err
			}
			app.AnimalsPath = ap
			app.Animals = memory.NewAnimals()
			return memory.LoadFromFile(app.AnimalsPath, app.Animals)
		},
	}

	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)

	cmd.PersistentFlags().StringVar(&app.ServerURL, "server", envOr("LIVESTOCK_SERVER", defaultServerURL), "server base URL")
	cmd.PersistentFlags().BoolVar(&app.Insecure, "insecure", false, "skip TLS certificate verification (dev only)")

	cmd.AddCommand(NewRegisterCmd(app))
	cmd.AddCommand(NewLoginCmd(app))
	cmd.AddCommand(NewLogoutCmd(app))
	cmd.AddCommand(NewAnimalsCmd(app))
	cmd.AddCommand(NewVersionCmd(buildVersion, buildDate))

	return cmd
}

// Execute запускает CLI. При ошибке печатает её в stderr и завершает процесс с кодом 1.
func Execute(buildVersion, buildDate string) {
	if err := NewRootCmd(buildVersion, buildDate).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
