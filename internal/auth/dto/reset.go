package dto

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type PasswordResetInput struct {
	StudentID   string `json:"student_id"`
	Name        string `json:"name"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
}

func (i PasswordResetInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.StudentID, validation.Required),
		validation.Field(&i.Name, validation.Required),
		validation.Field(&i.DateOfBirth, validation.Date(DateLayout)),
	)
}
