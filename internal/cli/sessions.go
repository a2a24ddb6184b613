package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/me/yogastudio/internal/app"
	"github.com/me/yogastudio/pkg/model"
)

type sessionOutput struct {
	Session       *model.Session `json:"session" yaml:"session"`
	Teacher       *model.Teacher `json:"teacher,omitempty" yaml:"teacher,omitempty"`
	Participating bool           `json:"participating" yaml:"participating"`
}

func newSessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sessions",
		Aliases: []string{"session"},
		Short:   "Browse and manage yoga sessions",
	}
	cmd.AddCommand(
		newSessionsListCmd(),
		newSessionsShowCmd(),
		newSessionsCreateCmd(),
		newSessionsUpdateCmd(),
		newSessionsDeleteCmd(),
	)
	return cmd
}

func newSessionsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := yoga.Listing(cmd.Context())
			if err != nil {
				return explain(fmt.Errorf("list sessions: %w", err))
			}

			return render(cmd, l.Sessions, func(w io.Writer) {
				if len(l.Sessions) == 0 {
					fmt.Fprintln(w, "No sessions found.")
					return
				}
				fmt.Fprintf(w, "%-6s  %-30s  %-20s  %-24s  %s\n", "ID", "NAME", "DATE", "TEACHER", "ATTENDEES")
				fmt.Fprintf(w, "%-6s  %-30s  %-20s  %-24s  %s\n", "--", "----", "----", "-------", "---------")
				for _, s := range l.Sessions {
					teacher := "-"
					if t, ok := l.Teachers[s.TeacherID]; ok {
						teacher = teacherName(&t)
					}
					fmt.Fprintf(w, "%-6d  %-30s  %-20s  %-24s  %d\n",
						s.ID, titleName(s.Name), formatDate(s.Date), teacher, s.Attendees())
				}
			})
		},
	}
}

func newSessionsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <session_id>",
		Short: "Show a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := yoga.SessionDetail(cmd.Context(), args[0])
			if err != nil {
				return explain(fmt.Errorf("get session %s: %w", args[0], err))
			}
			return renderSession(cmd, view)
		},
	}
}

func renderSession(cmd *cobra.Command, view *app.SessionView) error {
	s := view.Session
	out := sessionOutput{Session: s, Teacher: view.Teacher, Participating: view.IsParticipate}
	return render(cmd, out, func(w io.Writer) {
		fmt.Fprintf(w, "%s\n", titleName(s.Name))
		fmt.Fprintf(w, "  Teacher:     %s\n", teacherName(view.Teacher))
		fmt.Fprintf(w, "  Date:        %s\n", formatDate(s.Date))
		fmt.Fprintf(w, "  Attendees:   %d\n", s.Attendees())
		if view.IsParticipate {
			fmt.Fprintf(w, "  You are participating\n")
		}
		fmt.Fprintf(w, "  Description: %s\n", s.Description)
		if s.CreatedAt != nil {
			fmt.Fprintf(w, "  Created:     %s\n", formatDate(*s.CreatedAt))
		}
		if s.UpdatedAt != nil {
			fmt.Fprintf(w, "  Updated:     %s\n", ago(s.UpdatedAt))
		}
	})
}

// sessionFormFlags binds the session form fields to command flags.
type sessionFormFlags struct {
	file string
	form app.SessionForm
}

func (f *sessionFormFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "YAML file with name, date, teacher_id and description")
	cmd.Flags().StringVar(&f.form.Name, "name", "", "Session name")
	cmd.Flags().StringVar(&f.form.Date, "date", "", "Session date ("+app.DateLayout+")")
	cmd.Flags().Int64Var(&f.form.TeacherID, "teacher", 0, "Teacher ID")
	cmd.Flags().StringVar(&f.form.Description, "description", "", "Session description")
}

// apply overlays the YAML file, then any flag set on the command line, onto base.
func (f *sessionFormFlags) apply(cmd *cobra.Command, base app.SessionForm) (app.SessionForm, error) {
	form := base
	if f.file != "" {
		data, err := os.ReadFile(f.file)
		if err != nil {
			return form, fmt.Errorf("read session file: %w", err)
		}
		if err := yaml.Unmarshal(data, &form); err != nil {
			return form, fmt.Errorf("parse session file: %w", err)
		}
		logger.Debug("parsed session file", "path", f.file)
	}

	flags := cmd.Flags()
	if flags.Changed("name") {
		form.Name = f.form.Name
	}
	if flags.Changed("date") {
		form.Date = f.form.Date
	}
	if flags.Changed("teacher") {
		form.TeacherID = f.form.TeacherID
	}
	if flags.Changed("description") {
		form.Description = f.form.Description
	}
	return form, nil
}

func newSessionsCreateCmd() *cobra.Command {
	var ff sessionFormFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a session (admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			form, err := ff.apply(cmd, app.SessionForm{})
			if err != nil {
				return err
			}
			out, err := yoga.CreateSession(cmd.Context(), form)
			if err != nil {
				return explain(err)
			}
			if out.Session != nil && out.Session.ID != 0 {
				logger.Debug("session created", "id", out.Session.ID)
			}
			notify(cmd, "%s", out.Notice)
			return nil
		},
	}
	ff.register(cmd)
	return cmd
}

func newSessionsUpdateCmd() *cobra.Command {
	var ff sessionFormFlags

	cmd := &cobra.Command{
		Use:   "update <session_id>",
		Short: "Update a session (admin)",
		Long:  "Update a session. Fields not given by flags or --file keep their current values.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			current, err := yoga.EditSession(cmd.Context(), id)
			if err != nil {
				return explain(fmt.Errorf("get session %s: %w", id, err))
			}
			form, err := ff.apply(cmd, current)
			if err != nil {
				return err
			}
			out, err := yoga.UpdateSession(cmd.Context(), id, form)
			if err != nil {
				return explain(err)
			}
			notify(cmd, "%s", out.Notice)
			return nil
		},
	}
	ff.register(cmd)
	return cmd
}

func newSessionsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <session_id>",
		Short: "Delete a session (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("invalid session id %q", args[0])
			}
			out, err := yoga.DeleteSession(cmd.Context(), args[0])
			if err != nil {
				return explain(err)
			}
			notify(cmd, "%s", out.Notice)
			return nil
		},
	}
}

func newParticipateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "participate <session_id>",
		Short: "Join a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := yoga.Participate(cmd.Context(), args[0])
			if err != nil {
				return explain(fmt.Errorf("participate in session %s: %w", args[0], err))
			}
			return renderSession(cmd, view)
		},
	}
}

func newUnparticipateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unparticipate <session_id>",
		Short: "Leave a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := yoga.Unparticipate(cmd.Context(), args[0])
			if err != nil {
				return explain(fmt.Errorf("leave session %s: %w", args[0], err))
			}
			return renderSession(cmd, view)
		},
	}
}
