package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/EgehanKilicarslan/tripsync/internal/database/service"
)

var registerOnce sync.Once

// RegisterValidators adds the payment form rules to gin's validator engine
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected validator engine")
	}

	var err error
	registerOnce.Do(func() {
		// Report JSON field names in validation errors
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		if err = v.RegisterValidation("card_number", func(fl validator.FieldLevel) bool {
			return service.ValidCardNumber(fl.Field().String())
		}); err != nil {
			return
		}
		err = v.RegisterValidation("card_expiry", func(fl validator.FieldLevel) bool {
			return service.ValidCardExpiry(fl.Field().String(), time.Now())
		})
	})
	return err
}

// validationMessage turns a binding error into a client-facing message
func validationMessage(err error) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return "Invalid request body"
	}

	fe := errs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "card_number":
		return "card number must have 16 digits"
	case "card_expiry":
		return "card expiry must be a valid MM/YY date that has not passed"
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "uuid":
		return fmt.Sprintf("%s must be a valid id", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
