package dto

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type RefreshInput struct {
	RefreshToken string `json:"refresh_token"`
}

func (i RefreshInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.RefreshToken, validation.Required),
	)
}

type RefreshResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}
