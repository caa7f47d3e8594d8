package handler

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Accepts the formats passengers actually type: "(21) 99876-5432",
// "21998765432", "2122334455".
var phonePattern = regexp.MustCompile(`^\(?\d{2}\)?[\s-]?9?\d{4}-?\d{4}$`)

// RegisterValidators installs the custom binding rules on gin's validator
// engine. Call once at startup.
func RegisterValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("telefone", func(fl validator.FieldLevel) bool {
			value := fl.Field().String()
			if value == "" {
				return true // optional field; pair with required to force
			}
			return phonePattern.MatchString(value)
		})
	}
}
