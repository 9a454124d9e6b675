package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"yamdb/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// respondError writes the status and body that err maps to.
func respondError(c *gin.Context, err error) {
	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": vErr.Fields})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCode):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUnauthorized), errors.Is(err, service.ErrInactiveUser):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, errBadRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

var errBadRequest = errors.New("bad request")

// bindJSON decodes the body into req, turning binding failures into field errors.
func bindJSON(c *gin.Context, req any) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return bindingError(err)
	}
	return nil
}

func bindingError(err error) error {
	var (
		verrs   validator.ValidationErrors
		typeErr *json.UnmarshalTypeError
	)
	switch {
	case errors.As(err, &verrs):
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fieldMessage(fe)
		}
		return &service.ValidationError{Fields: fields}
	case errors.As(err, &typeErr) && typeErr.Field != "":
		return &service.ValidationError{Fields: map[string]string{
			typeErr.Field: fmt.Sprintf("expected a value of type %s", typeErr.Type),
		}}
	case errors.Is(err, io.EOF):
		return fmt.Errorf("%w: request body is empty", errBadRequest)
	}
	return fmt.Errorf("%w: malformed JSON body", errBadRequest)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "enter a valid email address"
	case "slug":
		return "enter a valid slug consisting of letters, numbers, underscores or hyphens"
	case "username":
		return "enter a valid username; this value may contain only letters, numbers and @/./+/-/_ characters and may not be \"me\""
	case "oneof":
		return fmt.Sprintf("value must be one of: %s", fe.Param())
	case "max":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("ensure this field has no more than %s characters", fe.Param())
		}
		return fmt.Sprintf("ensure this value is less than or equal to %s", fe.Param())
	case "min":
		switch fe.Kind().String() {
		case "string":
			return "this field may not be blank"
		case "slice":
			return "this list may not be empty"
		}
		return fmt.Sprintf("ensure this value is greater than or equal to %s", fe.Param())
	}
	return fmt.Sprintf("failed on the %q rule", fe.Tag())
}
