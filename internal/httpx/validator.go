package httpx

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"booklend/internal/platform/dateenc"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("shortdate", validateShortDate)
}

// shortdate accepts the MM/DD/YY wire encoding for calendar dates.
func validateShortDate(fl validator.FieldLevel) bool {
	_, err := dateenc.Parse(fl.Field().String())
	return err == nil
}

// ValidateStruct checks request-shape rules declared via validate tags and
// returns one detail per violated field, or nil.
func ValidateStruct(s interface{}) []ErrorDetail {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var details []ErrorDetail
	for _, fieldErr := range err.(validator.ValidationErrors) {
		field := fieldErr.Field()

		var message string
		switch fieldErr.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", field)
		case "shortdate":
			message = fmt.Sprintf("%s must be a date in MM/DD/YY form", field)
		case "gt":
			message = fmt.Sprintf("%s must be greater than %s", field, fieldErr.Param())
		default:
			message = fmt.Sprintf("%s is invalid", field)
		}

		details = append(details, ErrorDetail{
			Field:   strings.ToLower(field[:1]) + field[1:],
			Message: message,
		})
	}
	return details
}
