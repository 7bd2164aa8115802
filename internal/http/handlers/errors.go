// Package handlers: error names for transport fallbacks and the translation
// of request binding failures into validation details.
//
// Typed component failures carry their own names (apperr.Kind.String()); the
// names below cover responses produced by the router itself.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const (
	ErrNameNotFound         = "NotFound"
	ErrNameMethodNotAllowed = "MethodNotAllowed"
)

// Binding failure details.
const (
	DetailBodyRequired = "request body is required"
	DetailBodyTooLarge = "request body too large"
	DetailInvalidJSON  = "invalid JSON body"
)

var jsonNamesOnce sync.Once

// useJSONFieldNames makes validator report json field names instead of Go
// struct field names.
func useJSONFieldNames() {
	jsonNamesOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

// bindingDetail turns a ShouldBindJSON error into a caller-facing detail.
func bindingDetail(err error) string {
	if errors.Is(err, io.EOF) {
		return DetailBodyRequired
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return DetailBodyTooLarge
	}
	var ves validator.ValidationErrors
	if errors.As(err, &ves) {
		parts := make([]string, 0, len(ves))
		for _, fe := range ves {
			parts = append(parts, fe.Field()+": failed '"+fe.Tag()+"' validation")
		}
		return strings.Join(parts, "; ")
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return "invalid type for field " + typeErr.Field
	}
	return DetailInvalidJSON
}
