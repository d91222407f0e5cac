package dto

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

const DateLayout = "2006-01-02"

type SignupInput struct {
	StudentID       string `json:"student_id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	DateOfBirth     string `json:"date_of_birth,omitempty"`
	Address         string `json:"address,omitempty"`
}

func (i SignupInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.StudentID, validation.Required, validation.Length(1, 20)),
		validation.Field(&i.Name, validation.Required, validation.Length(1, 50)),
		validation.Field(&i.Email, validation.Required, validation.Length(1, 100), is.Email),
		validation.Field(&i.Password, validation.Required, validation.Length(8, 100)),
		validation.Field(&i.PasswordConfirm, validation.Required),
		validation.Field(&i.DateOfBirth, validation.Date(DateLayout)),
		validation.Field(&i.Address, validation.Length(0, 255)),
	)
}
