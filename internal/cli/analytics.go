package cli

import (
	"errors"

	"taskdeck/internal/format"
	"taskdeck/internal/guard"

	"github.com/spf13/cobra"
)

func newAnalyticsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "analytics",
		Short: "Show the admin analytics snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := app.open()
			if err != nil {
				return err
			}
			defer d.Close()

			switch guard.Decide(d.sessions.Session(), guard.Admin) {
			case guard.RedirectLogin:
				return errors.New("not logged in")
			case guard.RedirectDashboard:
				return errors.New("analytics is restricted to admins")
			}

			snap, err := d.api.Analytics(cmd.Context())
			if err != nil {
				return err
			}
			return format.WriteJSON(cmd.OutOrStdout(), snap, app.PrettyJSON)
		},
	}
}
