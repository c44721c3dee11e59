package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"

	"staff_reviews/internal/domain"
)

// SeedDocument is the JSON accepted by ImportService:
//
//	{"employees": [{"name": "...", "job_title": "...", "reviews": [{"year": 2023, "summary": "..."}]}],
//	 "reviews":   [{"year": 2023, "summary": "...", "employee_id": 1}]}
//
// Nested reviews belong to the employee they are listed under; top-level
// reviews must name an existing employee_id.
type SeedDocument struct {
	Employees []map[string]any `json:"employees"`
	Reviews   []map[string]any `json:"reviews"`
}

// ParseSeed decodes a seed document keeping numbers as json.Number so
// fractional years are detected instead of truncated.
func ParseSeed(r io.Reader) (SeedDocument, error) {
	var doc SeedDocument
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return SeedDocument{}, fmt.Errorf("decode seed: %w", err)
	}
	return doc, nil
}

// Skip records one rejected entry.
type Skip struct {
	Entry  string `json:"entry"`
	Reason string `json:"reason"`
}

type ImportReport struct {
	Employees int    `json:"employees"`
	Reviews   int    `json:"reviews"`
	Skipped   []Skip `json:"skipped,omitempty"`
}

type ImportService struct {
	reviews   *ReviewRepository
	employees *EmployeeDirectory
}

func NewImportService(reviews *ReviewRepository, employees *EmployeeDirectory) *ImportService {
	return &ImportService{reviews: reviews, employees: employees}
}

// Import creates the tables if needed and loads doc. Entries that fail
// validation are skipped and reported; any other error aborts the import.
func (s *ImportService) Import(ctx context.Context, doc SeedDocument) (ImportReport, error) {
	var rep ImportReport

	if err := s.employees.CreateTable(ctx); err != nil {
		return rep, fmt.Errorf("create employees table: %w", err)
	}
	if err := s.reviews.CreateTable(ctx); err != nil {
		return rep, fmt.Errorf("create reviews table: %w", err)
	}

	for i, p := range doc.Employees {
		entry := fmt.Sprintf("employees[%d]", i)
		emp, err := EmployeeFromPayload(p)
		if err != nil {
			if domain.IsValidation(err) {
				rep.skip(entry, err)
				continue
			}
			return rep, err
		}
		created, err := s.employees.Create(ctx, emp.Name, emp.JobTitle)
		if err != nil {
			return rep, fmt.Errorf("%s: %w", entry, err)
		}
		rep.Employees++

		nested, _ := p["reviews"].([]any)
		for j, raw := range nested {
			rentry := fmt.Sprintf("%s.reviews[%d]", entry, j)
			rp, ok := raw.(map[string]any)
			if !ok {
				rep.Skipped = append(rep.Skipped, Skip{Entry: rentry, Reason: "not an object"})
				continue
			}
			v := ReviewValuesFromPayload(rp)
			v.EmployeeID = created.ID
			if err := s.createReview(ctx, rentry, v, &rep); err != nil {
				return rep, err
			}
		}
	}

	for i, rp := range doc.Reviews {
		if err := s.createReview(ctx, fmt.Sprintf("reviews[%d]", i), ReviewValuesFromPayload(rp), &rep); err != nil {
			return rep, err
		}
	}

	log.Info().
		Int("employees", rep.Employees).
		Int("reviews", rep.Reviews).
		Int("skipped", len(rep.Skipped)).
		Msg("seed import finished")
	return rep, nil
}

func (s *ImportService) createReview(ctx context.Context, entry string, v domain.ReviewValues, rep *ImportReport) error {
	if _, err := s.reviews.CreateFromValues(ctx, v); err != nil {
		if domain.IsValidation(err) {
			rep.skip(entry, err)
			return nil
		}
		return fmt.Errorf("%s: %w", entry, err)
	}
	rep.Reviews++
	return nil
}

func (r *ImportReport) skip(entry string, err error) {
	log.Warn().Str("entry", entry).Err(err).Msg("seed entry skipped")
	r.Skipped = append(r.Skipped, Skip{Entry: entry, Reason: err.Error()})
}
