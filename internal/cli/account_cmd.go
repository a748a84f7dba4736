package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/being/internal/cli/formatter"
	"github.com/alexanderramin/being/internal/domain"
	"github.com/alexanderramin/being/internal/service"
)

func newLoginCmd(app *App) *cobra.Command {
	var identifier, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the practice service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := promptSecret(app, "Password", &password); err != nil {
				return err
			}
			user, err := app.Auth.Login(cmd.Context(), identifier, password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success(fmt.Sprintf("Logged in as %s.", user.DisplayName())))
			return nil
		},
	}

	cmd.Flags().StringVar(&identifier, "identifier", "", "Username or email")
	cmd.Flags().StringVar(&password, "password", "", "Password (prompted when omitted)")
	_ = cmd.MarkFlagRequired("identifier")

	return cmd
}

func newSignupCmd(app *App) *cobra.Command {
	var req service.SignupRequest

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and log in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := promptSecret(app, "Password", &req.Password); err != nil {
				return err
			}
			user, err := app.Auth.Signup(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success(fmt.Sprintf("Welcome, %s. You are logged in.", user.DisplayName())))
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&req.Username, "username", "", "Username")
	cmd.Flags().StringVar(&req.Password, "password", "", "Password (prompted when omitted)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("username")

	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored login",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Auth.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Logged out."))
			return nil
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			stop := app.waitSpinner(cmd, "Loading profile…")
			user, err := app.Auth.Profile(cmd.Context())
			stop()
			if errors.Is(err, domain.ErrUnauthenticated) {
				fmt.Fprintln(out, formatter.Dim("Not logged in."))
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(out, formatter.RenderProfile(user))
			return nil
		},
	}
}

func newProfileCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage your profile",
	}
	cmd.AddCommand(newProfileSetCmd(app))
	return cmd
}

func newProfileSetCmd(app *App) *cobra.Command {
	var name, gender, email string
	var age int

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update profile fields",
		Long:  "Update the given profile fields. Fields whose flags are not passed are left unchanged.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var upd domain.ProfileUpdate
			flags := cmd.Flags()
			if flags.Changed("name") {
				upd.Name = &name
			}
			if flags.Changed("age") {
				upd.Age = &age
			}
			if flags.Changed("gender") {
				upd.Gender = &gender
			}
			if flags.Changed("email") {
				upd.Email = &email
			}
			if upd == (domain.ProfileUpdate{}) {
				return fmt.Errorf("%w: nothing to update; pass --name, --age, --gender or --email", domain.ErrInvalidInput)
			}

			user, err := app.Auth.UpdateProfile(cmd.Context(), upd)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.RenderProfile(user))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().IntVar(&age, "age", 0, "Age")
	cmd.Flags().StringVar(&gender, "gender", "", "Gender")
	cmd.Flags().StringVar(&email, "email", "", "Email address")

	return cmd
}

func newPasswordCmd(app *App) *cobra.Command {
	var oldPassword, newPassword string

	cmd := &cobra.Command{
		Use:   "password",
		Short: "Change your password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := promptSecret(app, "Current password", &oldPassword); err != nil {
				return err
			}
			if err := promptSecret(app, "New password", &newPassword); err != nil {
				return err
			}
			if err := app.Auth.ResetPassword(cmd.Context(), oldPassword, newPassword); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success("Password changed."))
			return nil
		},
	}

	cmd.Flags().StringVar(&oldPassword, "old", "", "Current password (prompted when omitted)")
	cmd.Flags().StringVar(&newPassword, "new", "", "New password (prompted when omitted)")

	return cmd
}
