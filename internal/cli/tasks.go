package cli

import (
	"errors"
	"fmt"

	"taskdeck/internal/format"
	"taskdeck/internal/model"

	"github.com/spf13/cobra"
)

func newTasksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List and mutate tasks",
	}
	cmd.AddCommand(newTasksListCmd(app))
	cmd.AddCommand(newTasksCreateCmd(app))
	cmd.AddCommand(newTasksUpdateCmd(app))
	cmd.AddCommand(newTasksDeleteCmd(app))
	return cmd
}

func newTasksListCmd(app *App) *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the current user's tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := app.open()
			if err != nil {
				return err
			}
			defer d.Close()

			if _, err := d.tasks.List(cmd.Context()); err != nil {
				return err
			}
			return format.WriteJSON(cmd.OutOrStdout(), d.tasks.Search(search), app.PrettyJSON)
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "filter by title substring (case-insensitive)")
	return cmd
}

func taskStatusFlag(cmd *cobra.Command, status *string) {
	cmd.Flags().StringVar(status, "status", string(model.StatusTodo),
		fmt.Sprintf("one of %v", model.AllowedStatuses()))
}

func newTasksCreateCmd(app *App) *cobra.Command {
	var title, description, status string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a task",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := app.open()
			if err != nil {
				return err
			}
			defer d.Close()

			created, err := d.tasks.Create(cmd.Context(), title, description, model.Status(status))
			if err != nil {
				return err
			}
			return format.WriteJSON(cmd.OutOrStdout(), created, app.PrettyJSON)
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "task title")
	cmd.Flags().StringVar(&description, "description", "", "task description")
	taskStatusFlag(cmd, &status)
	return cmd
}

// selectByID loads the collection and selects the task with the given id,
// so the manager's update/delete preconditions hold for CLI calls too.
func selectByID(cmd *cobra.Command, d *deps, id int) error {
	tasks, err := d.tasks.List(cmd.Context())
	if err != nil {
		return err
	}
	for _, t := range tasks {
		if t.ID == id {
			d.tasks.Select(t)
			return nil
		}
	}
	return fmt.Errorf("no task with id %d", id)
}

func newTasksUpdateCmd(app *App) *cobra.Command {
	var id int
	var title, description, status string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update a task by id",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := app.open()
			if err != nil {
				return err
			}
			defer d.Close()

			if id == 0 {
				return errors.New("--id is required")
			}
			if err := selectByID(cmd, d, id); err != nil {
				return err
			}
			updated, err := d.tasks.Update(cmd.Context(), title, description, model.Status(status))
			if err != nil {
				return err
			}
			return format.WriteJSON(cmd.OutOrStdout(), updated, app.PrettyJSON)
		},
	}
	cmd.Flags().IntVar(&id, "id", 0, "task id")
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	taskStatusFlag(cmd, &status)
	return cmd
}

func newTasksDeleteCmd(app *App) *cobra.Command {
	var id int
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a task by id",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := app.open()
			if err != nil {
				return err
			}
			defer d.Close()

			if id == 0 {
				return errors.New("--id is required")
			}
			// Same confirmation step as the interactive client.
			if !yes {
				return errors.New("deleting is destructive; re-run with --yes to confirm")
			}
			if err := selectByID(cmd, d, id); err != nil {
				return err
			}
			return d.tasks.Delete(cmd.Context())
		},
	}
	cmd.Flags().IntVar(&id, "id", 0, "task id")
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the deletion")
	return cmd
}
