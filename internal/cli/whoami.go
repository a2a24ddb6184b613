package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/me/yogastudio/internal/auth"
)

type whoami struct {
	LoggedIn  bool       `json:"logged_in" yaml:"logged_in"`
	Server    string     `json:"server" yaml:"server"`
	ID        int64      `json:"id,omitempty" yaml:"id,omitempty"`
	Username  string     `json:"username,omitempty" yaml:"username,omitempty"`
	Name      string     `json:"name,omitempty" yaml:"name,omitempty"`
	Admin     bool       `json:"admin,omitempty" yaml:"admin,omitempty"`
	Subject   string     `json:"subject,omitempty" yaml:"subject,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty" yaml:"expires_at,omitempty"`
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the saved login",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := whoami{LoggedIn: state.IsLogged(), Server: cfg.Server}
			if info := state.Information(); info != nil {
				w.ID = info.ID
				w.Username = info.Username
				w.Name = displayName(info.FirstName, info.LastName)
				w.Admin = info.Admin
				if claims, err := auth.InspectToken(info.Token); err == nil {
					w.Subject = claims.Subject
					if !claims.ExpiresAt.IsZero() {
						w.ExpiresAt = &claims.ExpiresAt
					}
				} else {
					logger.Debug("token not inspectable", "error", err)
				}
			}

			return render(cmd, w, func(out io.Writer) {
				if !w.LoggedIn {
					fmt.Fprintf(out, "Not logged in to %s\n", w.Server)
					return
				}
				fmt.Fprintf(out, "Server:   %s\n", w.Server)
				fmt.Fprintf(out, "User:     %s (id %d)\n", w.Name, w.ID)
				fmt.Fprintf(out, "Username: %s\n", w.Username)
				if w.Admin {
					fmt.Fprintf(out, "Role:     admin\n")
				}
				if w.Subject != "" {
					fmt.Fprintf(out, "Token:    issued to %s\n", w.Subject)
				}
				if w.ExpiresAt != nil {
					fmt.Fprintf(out, "Expires:  %s\n", humanize.Time(*w.ExpiresAt))
				}
			})
		},
	}
}
