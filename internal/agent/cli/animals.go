package cli

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-livestock-market/internal/agent/api"
	serr "github.com/IvanChernomyrdin/go-livestock-market/internal/shared/errors"
	"github.com/IvanChernomyrdin/go-livestock-market/internal/shared/models"
)

// NewAnimalsCmd создаёт группу команд для объявлений текущего пользователя.
func NewAnimalsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "animals",
		Aliases: []string{"animal"},
		Short:   "Мои объявления: list, create, update, delete",
	}

	cmd.AddCommand(AnimalsList(app))
	cmd.AddCommand(AnimalCreate(app))
	cmd.AddCommand(AnimalUpdate(app))
	cmd.AddCommand(AnimalDelete(app))

	return cmd
}

// AnimalsList загружает объявления с сервера, печатает таблицу и обновляет локальный кэш.
func AnimalsList(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Список моих объявлений",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireLogin(); err != nil {
				return err
			}

			animals, err := syncAnimals(cmd, app, app.client())
			if err != nil {
				return err
			}
			if len(animals) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no animals")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTYPE\tBREED\tAGE\tPRICE\tSTATUS\tIMAGES")
			for _, a := range animals {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%.2f\t%s\t%d\n",
					a.ID, a.Type, a.Breed, a.Age, a.Price, a.Status, len(a.Images))
			}
			return tw.Flush()
		},
	}
}

// animalFlags — флаги полей объявления, общие для create и update.
type animalFlags struct {
	form api.AnimalForm
}

func (f *animalFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.form.Type, "type", "", "animal type (cow, sheep, goat ...)")
	cmd.Flags().StringVar(&f.form.Breed, "breed", "", "breed")
	cmd.Flags().IntVar(&f.form.Age, "age", 0, "age in years")
	cmd.Flags().Float64Var(&f.form.Price, "price", 0, "price")
	cmd.Flags().StringVar(&f.form.Description, "description", "", "description")
	cmd.Flags().StringArrayVar(&f.form.Images, "image", nil, "path to image file (repeatable)")
}

// AnimalCreate создаёт объявление. Нужен хотя бы один --image.
//
//	livestock animals create --type cow --breed Holstein --age 3 --price 1500 \
//	    --description "milk cow" --image ./cow1.jpg --image ./cow2.jpg
func AnimalCreate(app *App) *cobra.Command {
	var f animalFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Создать объявление (с изображениями)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireLogin(); err != nil {
				return err
			}
			if len(f.form.Images) == 0 {
				return errors.New("at least one --image is required")
			}

			c := app.client()
			resp, err := c.CreateAnimal(cmd.Context(), app.Creds.AccessToken, f.form)
			if err != nil {
				return err
			}

			if _, err := syncAnimals(cmd, app, c); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: created, but local cache not refreshed: %v\n", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created animal %s\n", resp.Animal)
			return nil
		},
	}

	f.register(cmd)
	for _, name := range []string{"type", "breed", "age", "price", "description", "image"} {
		cmd.MarkFlagRequired(name)
	}
	return cmd
}

// AnimalUpdate обновляет объявление.
//
// Сервер перезаписывает все поля, поэтому не переданные флагами значения
// берутся из локального кэша (его заполняет list). --image заменяет
// изображения целиком, без него остаются прежние.
//
//	livestock animals update <id> --price 1400
func AnimalUpdate(app *App) *cobra.Command {
	var f animalFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Обновить объявление",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireLogin(); err != nil {
				return err
			}
			id := args[0]

			cached, err := app.Animals.Get(id)
			if err != nil {
				return fmt.Errorf("animal %s not found locally (run: livestock animals list): %w", id, err)
			}

			if !anyChanged(cmd, "type", "breed", "age", "price", "description", "image") {
				return errors.New("nothing to update: set at least one flag")
			}
			form := mergeForm(cmd, cached, f.form)

			c := app.client()
			if _, err := c.UpdateAnimal(cmd.Context(), app.Creds.AccessToken, id, form); err != nil {
				return err
			}

			if _, err := syncAnimals(cmd, app, c); err != nil {
				return fmt.Errorf("update ok, but list failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated animal %s\n", id)
			return nil
		},
	}

	f.register(cmd)
	return cmd
}

// AnimalDelete удаляет объявление на сервере и из кэша.
func AnimalDelete(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Удалить объявление",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireLogin(); err != nil {
				return err
			}
			id := args[0]

			if _, err := app.client().DeleteAnimal(cmd.Context(), app.Creds.AccessToken, id); err != nil {
				return err
			}

			if err := app.Animals.Delete(id); err != nil && !errors.Is(err, serr.ErrAnimalNotFound) {
				return err
			}
			if err := SaveAnimalsToFile(app.AnimalsPath, app.Animals); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "deleted animal %s\n", id)
			return nil
		},
	}
}

// syncAnimals заменяет локальный кэш списком с сервера.
func syncAnimals(cmd *cobra.Command, app *App, c *api.Client) ([]models.Animal, error) {
	animals, err := c.ListAnimals(cmd.Context(), app.Creds.AccessToken)
	if err != nil {
		return nil, err
	}
	app.Animals.ReplaceAll(animals)
	if err := SaveAnimalsToFile(app.AnimalsPath, app.Animals); err != nil {
		return nil, err
	}
	return animals, nil
}

func mergeForm(cmd *cobra.Command, cached models.Animal, in api.AnimalForm) api.AnimalForm {
	out := api.AnimalForm{
		Type:        cached.Type,
		Breed:       cached.Breed,
		Age:         cached.Age,
		Price:       cached.Price,
		Description: cached.Description,
	}
	fl := cmd.Flags()
	if fl.Changed("type") {
		out.Type = strings.TrimSpace(in.Type)
	}
	if fl.Changed("breed") {
		out.Breed = strings.TrimSpace(in.Breed)
	}
	if fl.Changed("age") {
		out.Age = in.Age
	}
	if fl.Changed("price") {
		out.Price = in.Price
	}
	if fl.Changed("description") {
		out.Description = in.Description
	}
	if fl.Changed("image") {
		out.Images = in.Images
	}
	return out
}

func anyChanged(cmd *cobra.Command, names ...string) bool {
	for _, n := range names {
		if cmd.Flags().Changed(n) {
			return true
		}
	}
	return false
}
