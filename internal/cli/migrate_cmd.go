package cli

import (
	"github.com/spf13/cobra"
)

func newMigrateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	cmd.AddCommand(newMigrateUpCmd(app), newMigrateDownCmd(app))
	return cmd
}

func newMigrateUpCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply every pending migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Migrations.Up(cmd.Context()); err != nil {
				return err
			}
			cmd.Println("migrations applied")
			return nil
		},
	}
}

func newMigrateDownCmd(app *App) *cobra.Command {
	var steps int
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Migrations.Down(cmd.Context(), steps); err != nil {
				return err
			}
			if steps > 0 {
				cmd.Printf("rolled back %d migration(s)\n", steps)
			} else {
				cmd.Println("rolled back every migration")
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back, 0 for all")
	return cmd
}
