package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"altis.app/tracker/internal/model"
)

var registerOnce sync.Once

// RegisterValidators adds the issue enum validators to gin's validator engine.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
				if name != "" && name != "-" {
					return name
				}
			}
			return f.Name
		})
		_ = v.RegisterValidation("issue_status", func(fl validator.FieldLevel) bool {
			return model.IssueStatus(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("issue_priority", func(fl validator.FieldLevel) bool {
			return model.IssuePriority(fl.Field().String()).Valid()
		})
	})
}

// ValidationMessage renders the first validation failure for an API client.
func ValidationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request"
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "issue_status":
		return "Invalid status. Must be one of TODO, IN_PROGRESS, DONE"
	case "issue_priority":
		return "Invalid priority. Must be one of LOW, MED, HIGH"
	case "min", "max":
		return fmt.Sprintf("%s is out of range", fe.Field())
	default:
		return fmt.Sprintf("Invalid value for %s", fe.Field())
	}
}
