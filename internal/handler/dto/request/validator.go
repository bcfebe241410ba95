package request

import (
	"parkshare/internal/domain/availability"
	"parkshare/internal/pkg/errs"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators installs the custom binding tags on gin's validator.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errs.New("gin binding validator is not go-playground/validator")
	}
	if err := v.RegisterValidation("hhmm", validateHHMM); err != nil {
		return errs.Wrap(err, "register hhmm")
	}
	return nil
}

// validateHHMM accepts "HH:MM" from 00:00 to 24:00.
func validateHHMM(fl validator.FieldLevel) bool {
	_, err := availability.ParseTimeOfDay(fl.Field().String())
	return err == nil
}
