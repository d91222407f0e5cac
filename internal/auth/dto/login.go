package dto

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type LoginInput struct {
	StudentID string `json:"student_id"`
	Password  string `json:"password"`
	IPAddress string `json:"-"`
	UserAgent string `json:"-"`
}

func (i LoginInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.StudentID, validation.Required),
		validation.Field(&i.Password, validation.Required),
	)
}

type LoginResponse struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	TokenType    string   `json:"token_type"`
	ExpiresIn    int64    `json:"expires_in"`
	User         UserInfo `json:"user"`
}
