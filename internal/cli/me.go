package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newMeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "me",
		Short: "Show your account",
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := yoga.Me(cmd.Context())
			if err != nil {
				return explain(err)
			}
			return render(cmd, u, func(w io.Writer) {
				fmt.Fprintf(w, "Name: %s\n", displayName(u.FirstName, u.LastName))
				fmt.Fprintf(w, "Email: %s\n", u.Email)
				if u.Admin {
					fmt.Fprintln(w, "You are admin")
				}
				if u.CreatedAt != nil {
					fmt.Fprintf(w, "Create at: %s\n", formatDate(*u.CreatedAt))
				}
				if u.UpdatedAt != nil {
					fmt.Fprintf(w, "Last update: %s\n", ago(u.UpdatedAt))
				}
			})
		},
	}
	cmd.AddCommand(newMeDeleteCmd())
	return cmd
}

func newMeDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete your account and log out",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to delete the account without --yes")
			}
			out, err := yoga.DeleteAccount(cmd.Context())
			if err != nil {
				return explain(err)
			}
			notify(cmd, "%s", out.Notice)
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm account deletion")
	return cmd
}
