package cmd

import (
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"staff_reviews/internal/domain"
)

func newTable(w io.Writer, header ...any) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.Header(header...)
	return table
}

func (c *cli) printReviews(views []domain.ReviewView) error {
	if c.isJSON() {
		return c.printJSON(views)
	}
	table := newTable(c.out, "ID", "Year", "Summary", "Employee")
	for _, v := range views {
		id := "-"
		if v.ID != nil {
			id = strconv.FormatInt(*v.ID, 10)
		}
		_ = table.Append([]string{id, strconv.Itoa(v.Year), v.Summary, strconv.FormatInt(v.EmployeeID, 10)})
	}
	return table.Render()
}

func (c *cli) printEmployees(es []domain.Employee) error {
	if c.isJSON() {
		if es == nil {
			es = []domain.Employee{}
		}
		return c.printJSON(es)
	}
	table := newTable(c.out, "ID", "Name", "Job Title")
	for _, e := range es {
		_ = table.Append([]string{strconv.FormatInt(e.ID, 10), e.Name, e.JobTitle})
	}
	return table.Render()
}
