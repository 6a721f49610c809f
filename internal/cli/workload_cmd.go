package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/eduwaly/eduwaly-api/internal/models"
)

func newWorkloadCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workload",
		Short: "Teacher workload sheets",
	}
	cmd.AddCommand(newWorkloadRenderCmd(app))
	return cmd
}

type renderFlags struct {
	teacherID string
	semester  string
	yearID    string
	format    string
	out       string
}

func (f *renderFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.teacherID, "teacher", "", "teacher id")
	fs.StringVar(&f.semester, "semester", "", "S1 or S2 (default S2)")
	fs.StringVar(&f.yearID, "year", "", "academic year id (default current)")
	fs.StringVar(&f.format, "format", "pdf", "csv, pdf, xlsx or ics")
	fs.StringVarP(&f.out, "out", "o", "", "output path (default generated file name)")
}

func newWorkloadRenderCmd(app *App) *cobra.Command {
	var flags renderFlags
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render one workload sheet to a file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := models.ReportFormat(strings.ToLower(flags.format))
			if !f.Valid() {
				return fmt.Errorf("unsupported format %q (want csv, pdf, xlsx or ics)", flags.format)
			}
			rendered, err := app.Workload.Render(cmd.Context(), models.ReportJobParams{
				TeacherID:      flags.teacherID,
				Semester:       flags.semester,
				AcademicYearID: flags.yearID,
				Format:         f,
			})
			if err != nil {
				return err
			}
			path := flags.out
			if path == "" {
				path = rendered.Filename
			}
			if err := os.WriteFile(path, rendered.Data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			cmd.Printf("wrote %s (%d bytes)\n", path, len(rendered.Data))
			return nil
		},
	}
	flags.register(cmd.Flags())
	_ = cmd.MarkFlagRequired("teacher")
	return cmd
}
