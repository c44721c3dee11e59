package app

import (
	"strings"

	"staff_reviews/internal/domain"
)

/********** alias registries (single source of truth) **********/

var reviewAliases = map[string][]string{
	"year":        {"year", "review_year", "reviewYear"},
	"summary":     {"summary", "text", "comment"},
	"employee_id": {"employee_id", "employeeId", "employee.id"},
}

var employeeAliases = map[string][]string{
	"name":      {"name", "full_name", "fullName"},
	"job_title": {"job_title", "jobTitle", "title"},
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// firstPresentAlias: first non-nil value for a named alias set. Values are
// returned untyped so the domain converters decide what is acceptable.
func firstPresentAlias(m map[string]any, aliases map[string][]string, key string) any {
	for _, p := range aliases[key] {
		if v := lookupAny(m, p); v != nil {
			return v
		}
	}
	return nil
}

/********** payload mappers **********/

// ReviewValuesFromPayload picks year, summary and employee id out of a
// decoded JSON object. Absent or null fields stay nil.
func ReviewValuesFromPayload(p map[string]any) domain.ReviewValues {
	return domain.ReviewValues{
		Year:       firstPresentAlias(p, reviewAliases, "year"),
		Summary:    firstPresentAlias(p, reviewAliases, "summary"),
		EmployeeID: firstPresentAlias(p, reviewAliases, "employee_id"),
	}
}

// EmployeeFromPayload builds a validated, unsaved employee from a decoded
// JSON object.
func EmployeeFromPayload(p map[string]any) (domain.Employee, error) {
	return domain.EmployeeFromValues(
		firstPresentAlias(p, employeeAliases, "name"),
		firstPresentAlias(p, employeeAliases, "job_title"),
	)
}
