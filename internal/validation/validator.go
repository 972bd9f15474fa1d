// Sightmap - Biodiversity Occurrence Mapping
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sightmap

// Package validation wraps a shared go-playground/validator instance with
// the custom tags used by module descriptors, seed options and API requests.
//
//	type boundsRequest struct {
//	    South float64 `validate:"latitude"`
//	}
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    details := verr.Details()
//	    ...
//	}
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once

	moduleIDPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)
)

// FieldError is one failed field.
type FieldError struct {
	Field   string
	Tag     string
	Param   string // "100" for "max=100"
	Message string
}

// RequestValidationError collects every failed field of one struct.
type RequestValidationError struct {
	Fields []FieldError
}

// Error joins the field messages.
func (ve *RequestValidationError) Error() string {
	if len(ve.Fields) == 0 {
		return "validation failed"
	}
	messages := make([]string, len(ve.Fields))
	for i, f := range ve.Fields {
		messages[i] = f.Message
	}
	return strings.Join(messages, "; ")
}

// Details describes the failed fields for an API error body: the field and
// tag directly when one field failed, otherwise a "fields" list.
func (ve *RequestValidationError) Details() map[string]interface{} {
	switch len(ve.Fields) {
	case 0:
		return nil
	case 1:
		return map[string]interface{}{"field": ve.Fields[0].Field, "tag": ve.Fields[0].Tag}
	}
	fields := make([]map[string]interface{}, len(ve.Fields))
	for i, f := range ve.Fields {
		fields[i] = map[string]interface{}{"field": f.Field, "tag": f.Tag, "message": f.Message}
	}
	return map[string]interface{}{"fields": fields}
}

// GetValidator returns the shared validator, registering custom tags once.
//
// Custom tags:
//   - module_id: a letter followed by letters, digits, '_' or '-'
//   - trimmed: no leading or trailing whitespace
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// Registration only fails for an empty tag or nil func.
		_ = validate.RegisterValidation("module_id", func(fl validator.FieldLevel) bool {
			return moduleIDPattern.MatchString(fl.Field().String())
		})
		_ = validate.RegisterValidation("trimmed", func(fl validator.FieldLevel) bool {
			v := fl.Field().String()
			return strings.TrimSpace(v) == v
		})
	})
	return validate
}

// ValidateStruct returns nil or a *RequestValidationError listing each failed field.
func ValidateStruct(s interface{}) *RequestValidationError {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &RequestValidationError{Fields: []FieldError{{Field: "unknown", Tag: "unknown", Message: err.Error()}}}
	}

	out := &RequestValidationError{Fields: make([]FieldError, len(fieldErrs))}
	for i, fe := range fieldErrs {
		out.Fields[i] = FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Param:   fe.Param(),
			Message: message(fe),
		}
	}
	return out
}

var messages = map[string]string{
	"required":  "%s is required",
	"latitude":  "%s must be a valid latitude (-90 to 90)",
	"longitude": "%s must be a valid longitude (-180 to 180)",
	"module_id": "%s must start with a letter and contain only letters, digits, _ or -",
	"trimmed":   "%s must not have leading or trailing whitespace",
}

// Messages with a parameter; the field name comes first.
var paramMessages = map[string]string{
	"oneof":    "%s must be one of: %s",
	"gte":      "%s must be greater than or equal to %s",
	"lte":      "%s must be less than or equal to %s",
	"gtefield": "%s must not be less than %s",
	"min":      "%s must be at least %s",
	"max":      "%s must be at most %s",
}

func message(fe validator.FieldError) string {
	if tmpl, ok := messages[fe.Tag()]; ok {
		return fmt.Sprintf(tmpl, fe.Field())
	}
	tmpl, ok := paramMessages[fe.Tag()]
	if !ok {
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
	msg := fmt.Sprintf(tmpl, fe.Field(), fe.Param())
	if fe.Kind().String() == "string" && (fe.Tag() == "min" || fe.Tag() == "max") {
		msg += " characters"
	}
	return msg
}
