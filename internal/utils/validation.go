package utils

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors represents multiple validation errors
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	var messages []string
	for _, err := range ve {
		messages = append(messages, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return strings.Join(messages, ", ")
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
var digitsRegex = regexp.MustCompile(`^[0-9]+$`)

// IsValidEmail checks if the string is a plausible email address
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// IsDigits checks if the string consists of exactly n digits
func IsDigits(s string, n int) bool {
	return len(s) == n && digitsRegex.MatchString(s)
}

// ValidateStruct validates a struct using reflection and struct tags.
// Returns ValidationErrors listing every violated rule; validation is pure,
// so repeated calls with the same input yield the same result.
func ValidateStruct(s interface{}) error {
	var errors ValidationErrors

	v := reflect.ValueOf(s)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return fmt.Errorf("expected struct, got %s", v.Kind())
	}

	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		if !field.CanInterface() {
			continue
		}

		// Validate nested structs so form sections report their own fields
		if field.Kind() == reflect.Struct && fieldType.Tag.Get("validate") == "" {
			if err := ValidateStruct(field.Interface()); err != nil {
				if nested, ok := err.(ValidationErrors); ok {
					errors = append(errors, nested...)
				}
			}
			continue
		}

		validateTag := fieldType.Tag.Get("validate")
		if validateTag == "" {
			continue
		}

		rules := strings.Split(validateTag, ",")
		for _, rule := range rules {
			rule = strings.TrimSpace(rule)
			if err := validateField(fieldType.Name, field, rule); err != nil {
				errors = append(errors, *err)
			}
		}
	}

	if len(errors) > 0 {
		return errors
	}

	return nil
}

// validateField validates a single field against a rule
func validateField(fieldName string, field reflect.Value, rule string) *ValidationError {
	parts := strings.Split(rule, "=")
	ruleName := parts[0]
	var ruleValue string
	if len(parts) > 1 {
		ruleValue = parts[1]
	}

	switch ruleName {
	case "required":
		if isEmpty(field) {
			return &ValidationError{Field: fieldName, Message: "is required"}
		}
	case "email":
		if field.Kind() == reflect.String {
			email := field.String()
			if email != "" && !IsValidEmail(email) {
				return &ValidationError{Field: fieldName, Message: "must be a valid email address"}
			}
		}
	case "digits":
		if field.Kind() == reflect.String {
			value := field.String()
			n := parseIntOrDefault(ruleValue, 0)
			if value != "" && !IsDigits(value, n) {
				return &ValidationError{
					Field:   fieldName,
					Message: fmt.Sprintf("must be exactly %d digits", n),
				}
			}
		}
	case "min":
		if field.Kind() == reflect.String {
			if field.String() != "" && len(field.String()) < parseIntOrDefault(ruleValue, 0) {
				return &ValidationError{
					Field:   fieldName,
					Message: fmt.Sprintf("must be at least %s characters", ruleValue),
				}
			}
		}
	case "gt":
		if isNumeric(field) {
			if getNumericValue(field) <= float64(parseIntOrDefault(ruleValue, 0)) {
				return &ValidationError{
					Field:   fieldName,
					Message: fmt.Sprintf("must be greater than %s", ruleValue),
				}
			}
		}
	}

	return nil
}

func isEmpty(field reflect.Value) bool {
	switch field.Kind() {
	case reflect.String:
		return strings.TrimSpace(field.String()) == ""
	case reflect.Slice, reflect.Map, reflect.Array:
		return field.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return field.IsNil()
	default:
		return field.IsZero()
	}
}

func isNumeric(field reflect.Value) bool {
	switch field.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func getNumericValue(field reflect.Value) float64 {
	switch field.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(field.Int())
	case reflect.Float32, reflect.Float64:
		return field.Float()
	}
	return 0
}

func parseIntOrDefault(s string, def int) int {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}
