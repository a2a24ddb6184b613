package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/me/yogastudio/internal/app"
)

func newLoginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the studio",
		Long:  "Authenticate with email and password. The login is saved and reused by later commands.",
		RunE: func(cmd *cobra.Command, args []string) error {
			in := bufio.NewReader(cmd.InOrStdin())
			var err error
			if email == "" {
				if email, err = prompt(cmd, in, "Email: "); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = prompt(cmd, in, "Password: "); err != nil {
					return err
				}
			}

			if _, err := yoga.Login(cmd.Context(), app.LoginForm{Email: email, Password: password}); err != nil {
				logger.Debug("login rejected", "error", errorsCause(err))
				return err
			}

			info := state.Information()
			role := "user"
			if info.Admin {
				role = "admin"
			}
			notify(cmd, "Logged in as %s (%s)", displayName(info.FirstName, info.LastName), role)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email (prompted if omitted)")
	cmd.Flags().StringVar(&password, "password", "", "Account password (prompted if omitted)")
	return cmd
}

func newRegisterCmd() *cobra.Command {
	var form app.RegisterForm

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a studio account",
		RunE: func(cmd *cobra.Command, args []string) error {
			in := bufio.NewReader(cmd.InOrStdin())
			fields := []struct {
				label string
				value *string
			}{
				{"First name: ", &form.FirstName},
				{"Last name: ", &form.LastName},
				{"Email: ", &form.Email},
				{"Password: ", &form.Password},
			}
			for _, f := range fields {
				if *f.value != "" {
					continue
				}
				v, err := prompt(cmd, in, f.label)
				if err != nil {
					return err
				}
				*f.value = v
			}

			if _, err := yoga.Register(cmd.Context(), form); err != nil {
				logger.Debug("registration rejected", "error", errorsCause(err))
				return err
			}
			notify(cmd, "Account created for %s. Log in with: yoga login --email %s", form.Email, form.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&form.FirstName, "first-name", "", "First name (3 to 20 characters)")
	cmd.Flags().StringVar(&form.LastName, "last-name", "", "Last name (3 to 20 characters)")
	cmd.Flags().StringVar(&form.Email, "email", "", "Email")
	cmd.Flags().StringVar(&form.Password, "password", "", "Password (3 to 40 characters)")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved login",
		RunE: func(cmd *cobra.Command, args []string) error {
			yoga.Logout()
			notify(cmd, "Logged out.")
			return nil
		},
	}
}

// prompt prints label and reads one line from in.
func prompt(cmd *cobra.Command, in *bufio.Reader, label string) (string, error) {
	fmt.Fprint(cmd.OutOrStdout(), label)
	line, err := in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("read %s: %w", strings.ToLower(strings.TrimSuffix(label, ": ")), err)
	}
	return strings.TrimSpace(line), nil
}

// errorsCause returns the cause hidden behind the generic login message.
func errorsCause(err error) error {
	var ae *app.AuthError
	if errors.As(err, &ae) && ae.Err != nil {
		return ae.Err
	}
	return err
}
