package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newTeachersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "teachers",
		Aliases: []string{"teacher"},
		Short:   "List studio teachers",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List teachers",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				teachers, err := yoga.Teachers(cmd.Context())
				if err != nil {
					return explain(fmt.Errorf("list teachers: %w", err))
				}
				return render(cmd, teachers, func(w io.Writer) {
					if len(teachers) == 0 {
						fmt.Fprintln(w, "No teachers found.")
						return
					}
					fmt.Fprintf(w, "%-6s  %s\n", "ID", "NAME")
					fmt.Fprintf(w, "%-6s  %s\n", "--", "----")
					for _, t := range teachers {
						fmt.Fprintf(w, "%-6d  %s\n", t.ID, displayName(t.FirstName, t.LastName))
					}
				})
			},
		},
		&cobra.Command{
			Use:   "show <teacher_id>",
			Short: "Show a teacher",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				t, err := yoga.Teacher(cmd.Context(), args[0])
				if err != nil {
					return explain(fmt.Errorf("get teacher %s: %w", args[0], err))
				}
				return render(cmd, t, func(w io.Writer) {
					fmt.Fprintf(w, "%s\n", teacherName(t))
					fmt.Fprintf(w, "  ID:      %d\n", t.ID)
					if t.CreatedAt != nil {
						fmt.Fprintf(w, "  Since:   %s\n", formatDate(*t.CreatedAt))
					}
					if t.UpdatedAt != nil {
						fmt.Fprintf(w, "  Updated: %s\n", ago(t.UpdatedAt))
					}
				})
			},
		},
	)
	return cmd
}
