package domain

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Employee is the collaborator reviews point at. The review core only ever
// asks whether an id resolves.
type Employee struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	JobTitle string `json:"job_title"`
}

func (e Employee) Validate() error {
	err := validation.ValidateStruct(&e,
		validation.Field(&e.Name, validation.Required.Error("must be a non-empty string"), validation.Length(0, 255)),
		validation.Field(&e.JobTitle, validation.Required.Error("must be a non-empty string"), validation.Length(0, 255)),
	)
	if err != nil {
		return invalid(ErrInvalidEmployeeRecord, err.Error())
	}
	return nil
}

// EmployeeFromValues builds an unsaved Employee from untyped input and
// validates it. Non-string fields fail with ErrInvalidEmployeeRecord.
func EmployeeFromValues(name, jobTitle any) (Employee, error) {
	n, ok := name.(string)
	if !ok {
		return Employee{}, invalid(ErrInvalidEmployeeRecord, "name: must be a non-empty string.")
	}
	j, ok := jobTitle.(string)
	if !ok {
		return Employee{}, invalid(ErrInvalidEmployeeRecord, "job_title: must be a non-empty string.")
	}
	e := Employee{Name: n, JobTitle: j}
	if err := e.Validate(); err != nil {
		return Employee{}, err
	}
	return e, nil
}
