package models

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Employee is an employee record as returned by the upstream employee
// service. Name and Salary are nil when upstream omits them or sends null.
type Employee struct {
	ID     string  `json:"id"`
	Name   *string `json:"employee_name"`
	Salary *int    `json:"employee_salary"`
	Age    int     `json:"employee_age"`
	Title  string  `json:"employee_title"`
	Email  string  `json:"employee_email,omitempty"`
}

// NameValue returns the employee name, or an empty string if it is unset.
func (e Employee) NameValue() string {
	if e.Name == nil {
		return ""
	}
	return *e.Name
}

// EmployeeInput contains the fields submitted to upstream when creating an
// employee. The ID and email are assigned upstream.
type EmployeeInput struct {
	Name   string `json:"name" yaml:"name"`
	Salary int    `json:"salary" yaml:"salary"`
	Age    int    `json:"age" yaml:"age"`
	Title  string `json:"title" yaml:"title"`
}

// Validate validates the employee input.
func (in EmployeeInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required),
		validation.Field(&in.Salary, validation.Min(0)),
		validation.Field(&in.Age, validation.Required, validation.Min(1)),
		validation.Field(&in.Title, validation.Required),
	)
}

// String returns a pointer to s.
func String(s string) *string {
	return &s
}

// Int returns a pointer to i.
func Int(i int) *int {
	return &i
}
