package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"staff_reviews/internal/app"
)

func newSchemaCmd(c *cli) *cobra.Command {
	schemaCmd := &cobra.Command{
		Use:   "schema",
		Short: "Create or drop the tables",
	}
	schemaCmd.AddCommand(
		&cobra.Command{
			Use:   "create",
			Short: "Create the employees and reviews tables if missing",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := c.employees.CreateTable(cmd.Context()); err != nil {
					return err
				}
				if err := c.reviews.CreateTable(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(c.out, "schema created")
				return nil
			},
		},
		&cobra.Command{
			Use:   "drop",
			Short: "Drop the reviews and employees tables if present",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				// reviews reference employees, so they go first
				if err := c.reviews.DropTable(cmd.Context()); err != nil {
					return err
				}
				if err := c.employees.DropTable(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(c.out, "schema dropped")
				return nil
			},
		},
	)
	return schemaCmd
}

func newSeedCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <file.json|->",
		Short: "Load employees and reviews from a JSON document",
		Long: `Load a seed document of the form
  {"employees": [{"name": "...", "job_title": "...", "reviews": [{"year": 2023, "summary": "..."}]}],
   "reviews":   [{"year": 2023, "summary": "...", "employee_id": 1}]}
Entries that fail validation are skipped and listed in the report.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := stdinOr(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			doc, err := app.ParseSeed(f)
			if err != nil {
				return err
			}
			rep, err := app.NewImportService(c.reviews, c.employees).Import(cmd.Context(), doc)
			if err != nil {
				return err
			}
			if c.isJSON() {
				return c.printJSON(rep)
			}
			fmt.Fprintf(c.out, "imported %d employees and %d reviews\n", rep.Employees, rep.Reviews)
			if len(rep.Skipped) > 0 {
				table := newTable(c.out, "Skipped", "Reason")
				for _, s := range rep.Skipped {
					_ = table.Append([]string{s.Entry, s.Reason})
				}
				return table.Render()
			}
			return nil
		},
	}
}
