package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/eduwaly/eduwaly-api/internal/models"
	"github.com/eduwaly/eduwaly-api/internal/service"
)

// Migrator applies or rolls back the embedded schema migrations.
type Migrator interface {
	Up(ctx context.Context) error
	Down(ctx context.Context, steps int) error
}

// WorkloadRenderer renders one workload sheet to file bytes.
type WorkloadRenderer interface {
	Render(ctx context.Context, params models.ReportJobParams) (*service.RenderedExport, error)
}

// App holds the dependencies used by CLI commands.
type App struct {
	Migrations Migrator
	Workload   WorkloadRenderer
	Out        io.Writer
}

// NewRootCmd creates the top-level "eduwalyctl" command.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "eduwalyctl",
		Short:         "Eduwaly workload administration",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	if app.Out != nil {
		root.SetOut(app.Out)
	}

	root.AddCommand(
		newMigrateCmd(app),
		newWorkloadCmd(app),
	)
	return root
}
