package api

import (
	"errors"   // Error inspection
	"net/http" // HTTP status codes
	"reflect"  // Struct field tags
	"strings"  // Tag parsing
	"sync"     // One-time registration

	"onesi/internal/utils" // URL validation

	"github.com/gin-gonic/gin"               // Gin web framework
	"github.com/gin-gonic/gin/binding"       // Gin binding engine
	"github.com/go-playground/validator/v10" // Struct validation
	"github.com/google/uuid"                 // ID parsing
)

var registerOnce sync.Once

// RegisterValidators adds the custom binding tags to gin's validator
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		// Report fields by their JSON name
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		// weburl accepts what the link classifier can parse
		_ = v.RegisterValidation("weburl", func(fl validator.FieldLevel) bool {
			return utils.IsValidURL(fl.Field().String())
		})
	})
}

// bindingMessage turns a binding failure into a caller-facing message
func bindingMessage(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return "Invalid request body"
	}
	fe := ve[0]
	switch fe.Tag() {
	case "weburl":
		return "Please provide a valid " + fe.Field()
	case "required":
		return fe.Field() + " is required"
	case "gte":
		return fe.Field() + " must be at least " + fe.Param()
	case "max":
		return fe.Field() + " is too long"
	}
	return "Invalid value for " + fe.Field()
}

// parseID reads the :name path parameter, answering 400 when it is not a UUID
func parseID(c *gin.Context, name, message string) (string, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": message})
		return "", false
	}
	return id.String(), true
}

// ReorderRequest is the body of the reorder endpoints
type ReorderRequest struct {
	IDs []string `json:"ids" binding:"required,min=1,dive,uuid"` // New display order
}
