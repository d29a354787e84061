package cli

import (
	"bufio"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"taskdeck/internal/api"
	"taskdeck/internal/format"
	"taskdeck/internal/session"
	"taskdeck/internal/validation"

	"github.com/spf13/cobra"
)

func newLoginCmd(app *App) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and store the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := app.open()
			if err != nil {
				return err
			}
			defer d.Close()

			if strings.TrimSpace(username) == "" {
				return errors.New("--username is required")
			}
			if password == "" {
				// Read the password from stdin rather than argv so it stays
				// out of the shell history and process list.
				fmt.Fprint(cmd.OutOrStdout(), "Password: ")
				line, err := bufio.NewReader(os.Stdin).ReadString('\n')
				if err != nil {
					return err
				}
				password = strings.TrimRight(line, "\r\n")
			}

			res, err := d.api.Login(cmd.Context(), username, password)
			if err != nil {
				switch api.StatusCode(err) {
				case http.StatusUnprocessableEntity:
					return errors.New("invalid request: check your username/password")
				case http.StatusUnauthorized:
					return errors.New("invalid username or password")
				}
				return errors.New("login failed")
			}
			user := session.UserFromLogin(username, res.Username, res.Role, res.AccessToken)
			if err := d.sessions.Set(res.AccessToken, user); err != nil {
				return err
			}
			return format.WriteJSON(cmd.OutOrStdout(), map[string]any{
				"name": user.Name,
				"role": user.Role,
			}, app.PrettyJSON)
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "account username")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted when omitted)")
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := app.open()
			if err != nil {
				return err
			}
			defer d.Close()
			return d.sessions.Clear()
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := app.open()
			if err != nil {
				return err
			}
			defer d.Close()

			sess := d.sessions.Session()
			out := map[string]any{"logged_in": sess.LoggedIn()}
			if sess.LoggedIn() {
				out["name"] = sess.User.Name
				out["role"] = sess.User.Role
			}
			return format.WriteJSON(cmd.OutOrStdout(), out, app.PrettyJSON)
		},
	}
}

func newRegisterCmd(app *App) *cobra.Command {
	var username, password, email string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := app.open()
			if err != nil {
				return err
			}
			defer d.Close()

			in := validation.RegisterInput{Username: username, Password: password, Email: email}
			if err := validation.CheckRegister(in); err != nil {
				return err
			}
			if err := d.api.Register(cmd.Context(), username, password, email); err != nil {
				if api.StatusCode(err) == http.StatusBadRequest {
					return errors.New("username already exists")
				}
				return errors.New("registration failed")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Registration successful! You can now log in.")
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "account username")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.Flags().StringVar(&email, "email", "", "email address (optional)")
	return cmd
}
