package cli

import (
	"strings"

	"taskdeck/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	BaseURL    string
	PrettyJSON bool
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "taskdeck",
		Short:        "Terminal client for the remote task API (TUI + scriptable commands)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive client
  taskdeck

  # Scriptable commands
  taskdeck login --username alice
  taskdeck tasks list
  taskdeck tasks create --title "Write report" --description "Q3 numbers"
  taskdeck analytics
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.BaseURL, "api-url", "", "task API base URL (overrides API_BASE_URL)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "pretty-print JSON output")

	cmd.AddCommand(newLoginCmd(app))
	cmd.AddCommand(newRegisterCmd(app))
	cmd.AddCommand(newLogoutCmd(app))
	cmd.AddCommand(newWhoamiCmd(app))
	cmd.AddCommand(newTasksCmd(app))
	cmd.AddCommand(newAnalyticsCmd(app))
	return cmd
}

func runTUI(app *App) error {
	d, err := app.open()
	if err != nil {
		return err
	}
	defer d.Close()

	return tui.Run(tui.Deps{
		Sessions: d.sessions,
		API:      d.api,
		Tasks:    d.tasks,
		Log:      d.log,
	})
}
