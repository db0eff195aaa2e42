package dto

import (
	"github.com/go-playground/validator/v10"

	"github.com/brunoverifies/verification-service/internal/domain"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// checkStruct runs tag validation and maps the first failure to a domain error.
func checkStruct(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		fe := verrs[0]
		if fe.Tag() == "required" {
			return domain.ErrMissingField(fieldName(fe))
		}
		return domain.ErrInvalidField(fieldName(fe), "must satisfy "+fe.Tag())
	}
	return domain.ErrInvalidField("body", "invalid request")
}

func fieldName(fe validator.FieldError) string {
	switch fe.Field() {
	case "Email":
		return "email"
	case "Code":
		return "code"
	case "DiscordID":
		return "discord_id"
	case "Action":
		return "action"
	}
	return fe.Field()
}
