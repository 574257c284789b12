package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/tijara/backend/internal/infrastructure/logger"
	"github.com/tijara/backend/internal/interfaces/http/dto"
)

var setupValidatorOnce sync.Once

// SetupValidator makes validation errors report json (or form) field names
func SetupValidator() {
	setupValidatorOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			v.RegisterTagNameFunc(func(fld reflect.StructField) string {
				name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name == "" {
					name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
				}
				return name
			})
		}
	})
}

// FormatValidationErrors formats binding errors into a standard response.
// Malformed JSON yields ERR_INVALID_JSON without details.
func FormatValidationErrors(err error, requestID string) dto.Response {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return dto.NewErrorResponseWithRequestID(dto.ErrCodeInvalidJSON,
			"Corps de requête invalide", requestID)
	}

	details := make([]dto.ValidationDetail, 0, len(validationErrors))
	for _, e := range validationErrors {
		detail := dto.ValidationDetail{
			Field:   e.Field(),
			Message: getValidationMessage(e),
			Tag:     e.Tag(),
		}
		if v := e.Value(); v != nil && e.Kind() != reflect.Struct && e.Kind() != reflect.Slice {
			detail.Value = fmt.Sprint(v)
		}
		details = append(details, detail)
	}
	return dto.NewValidationErrorResponse("La requête contient des champs invalides", requestID, details)
}

// HandleValidationError answers 400 with the formatted binding errors
func HandleValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, FormatValidationErrors(err, c.GetString(logger.ContextKeyRequestID)))
}

func getValidationMessage(e validator.FieldError) string {
	isString := e.Kind() == reflect.String
	isList := e.Kind() == reflect.Slice
	switch e.Tag() {
	case "required":
		return "Ce champ est obligatoire"
	case "email":
		return "Adresse e-mail invalide"
	case "min":
		switch {
		case isString:
			return "Au moins " + e.Param() + " caractère(s)"
		case isList:
			return "Au moins " + e.Param() + " élément(s)"
		}
		return "Doit être supérieur ou égal à " + e.Param()
	case "max":
		switch {
		case isString:
			return "Au plus " + e.Param() + " caractère(s)"
		case isList:
			return "Au plus " + e.Param() + " élément(s)"
		}
		return "Doit être inférieur ou égal à " + e.Param()
	case "oneof":
		return "Valeurs autorisées : " + e.Param()
	case "uuid":
		return "Identifiant invalide"
	default:
		return "Valeur invalide"
	}
}
