package api

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// requestValidator plugs go-playground/validator into echo's Context.Validate
type requestValidator struct {
	validate *validator.Validate
}

var _ echo.Validator = (*requestValidator)(nil)

func newRequestValidator() *requestValidator {
	return &requestValidator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

func (v *requestValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}
