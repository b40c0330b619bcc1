package http

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate instancia compartida; los handlers validan los DTOs de escritura
// antes de invocar el caso de uso.
var validate = validator.New()

// validationMessage arma un mensaje legible a partir de los errores de campo.
func validationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return "datos inválidos"
	}
	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		parts = append(parts, fe.Field()+": "+fe.Tag())
	}
	return strings.Join(parts, ", ")
}
