package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/timecapsule-app/timecapsule-backend/internal/apperr"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report violations under json field names so paths match the wire format
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Body decodes a JSON request body into dst and validates it. A missing body,
// malformed JSON, or any schema violation raises a typed BadRequest; on success
// dst holds the validated value with zero-value defaults applied.
func Body(body io.Reader, dst any) error {
	if body == nil {
		return apperr.BadRequest("Request body is required")
	}

	if err := json.NewDecoder(body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.BadRequest("Request body is required")
		}
		return apperr.BadRequest("Invalid request body")
	}

	return Struct(dst)
}

// Struct validates dst, collecting every violation into a single composed
// message. One violation renders inline, several render as a bulleted list.
func Struct(dst any) error {
	err := validate.Struct(dst)
	if err == nil {
		return nil
	}

	var violations validator.ValidationErrors
	if !errors.As(err, &violations) || len(violations) == 0 {
		return apperr.BadRequest("Validation failed")
	}

	if len(violations) == 1 {
		fe := violations[0]
		return apperr.BadRequest(fmt.Sprintf("Validation failed: %s - %s", fieldPath(fe), messageFor(fe)))
	}

	lines := make([]string, 0, len(violations))
	for _, fe := range violations {
		lines = append(lines, fmt.Sprintf("  • %s: %s", fieldPath(fe), messageFor(fe)))
	}
	return apperr.BadRequest("Validation failed:\n" + strings.Join(lines, "\n"))
}

// fieldPath returns the dotted path of the offending field relative to the
// request struct, e.g. "location.type" or "images[0].url".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx != -1 {
		return ns[idx+1:]
	}
	if ns == "" {
		return "root"
	}
	return ns
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("cannot exceed %s characters", fe.Param())
		}
		return fmt.Sprintf("cannot exceed %s", fe.Param())
	case "len":
		return fmt.Sprintf("must have length %s", fe.Param())
	case "eq":
		return fmt.Sprintf("must equal %q", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "hexadecimal":
		return "must be a hex string"
	case "url":
		return "must be a valid URL"
	default:
		return "is invalid"
	}
}
