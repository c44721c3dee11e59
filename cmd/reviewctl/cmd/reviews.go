package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"staff_reviews/internal/domain"
)

func newReviewsCmd(c *cli) *cobra.Command {
	reviewsCmd := &cobra.Command{
		Use:   "reviews",
		Short: "Manage reviews",
	}

	var listEmployee int64
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List reviews, optionally for one employee",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				rs  []*domain.Review
				err error
			)
			if cmd.Flags().Changed("employee") {
				rs, err = c.reviews.ListByEmployee(cmd.Context(), listEmployee)
			} else {
				rs, err = c.reviews.GetAll(cmd.Context())
			}
			if err != nil {
				return err
			}
			return c.printReviews(c.reviews.Views(rs))
		},
	}
	listCmd.Flags().Int64Var(&listEmployee, "employee", 0, "only reviews of this employee id")

	getCmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one review",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			r, err := c.reviews.FindByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			if r == nil {
				return fmt.Errorf("review %d: %w", id, domain.ErrNotFound)
			}
			return c.printReviews([]domain.ReviewView{r.View()})
		},
	}

	var (
		year     int
		summary  string
		employee int64
	)
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a review",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := c.reviews.Create(cmd.Context(), year, summary, employee)
			if err != nil {
				return err
			}
			return c.printReviews([]domain.ReviewView{r.View()})
		},
	}
	createCmd.Flags().IntVar(&year, "year", 0, "review year (>= 2000)")
	createCmd.Flags().StringVar(&summary, "summary", "", "review summary")
	createCmd.Flags().Int64Var(&employee, "employee", 0, "employee id")
	_ = createCmd.MarkFlagRequired("year")
	_ = createCmd.MarkFlagRequired("summary")
	_ = createCmd.MarkFlagRequired("employee")

	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change the year, summary or employee of a review",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var v domain.ReviewValues
			if cmd.Flags().Changed("year") {
				v.Year = year
			}
			if cmd.Flags().Changed("summary") {
				v.Summary = summary
			}
			if cmd.Flags().Changed("employee") {
				v.EmployeeID = employee
			}
			if v == (domain.ReviewValues{}) {
				return fmt.Errorf("nothing to update: pass --year, --summary or --employee")
			}
			r, err := c.reviews.Patch(cmd.Context(), id, v)
			if err != nil {
				return err
			}
			if r == nil {
				return fmt.Errorf("review %d: %w", id, domain.ErrNotFound)
			}
			return c.printReviews([]domain.ReviewView{r.View()})
		},
	}
	updateCmd.Flags().IntVar(&year, "year", 0, "new review year (>= 2000)")
	updateCmd.Flags().StringVar(&summary, "summary", "", "new summary")
	updateCmd.Flags().Int64Var(&employee, "employee", 0, "new employee id")

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a review",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			r, err := c.reviews.FindByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			if r == nil {
				return fmt.Errorf("review %d: %w", id, domain.ErrNotFound)
			}
			if err := c.reviews.Delete(cmd.Context(), r); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "review %d deleted\n", id)
			return nil
		},
	}

	reviewsCmd.AddCommand(listCmd, getCmd, createCmd, updateCmd, deleteCmd)
	return reviewsCmd
}
