package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"staff_reviews/internal/domain"
)

func newEmployeesCmd(c *cli) *cobra.Command {
	employeesCmd := &cobra.Command{
		Use:   "employees",
		Short: "Manage employees",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List employees",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			es, err := c.employees.List(cmd.Context())
			if err != nil {
				return err
			}
			return c.printEmployees(es)
		},
	}

	var name, jobTitle string
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add an employee",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := c.employees.Create(cmd.Context(), name, jobTitle)
			if err != nil {
				return err
			}
			return c.printEmployees([]domain.Employee{*e})
		},
	}
	addCmd.Flags().StringVar(&name, "name", "", "employee name")
	addCmd.Flags().StringVar(&jobTitle, "job-title", "", "employee job title")
	_ = addCmd.MarkFlagRequired("name")
	_ = addCmd.MarkFlagRequired("job-title")

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an employee",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if _, err := c.employees.Get(cmd.Context(), id); err != nil {
				return fmt.Errorf("employee %d: %w", id, err)
			}
			if err := c.employees.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "employee %d deleted\n", id)
			return nil
		},
	}

	employeesCmd.AddCommand(listCmd, addCmd, deleteCmd)
	return employeesCmd
}
