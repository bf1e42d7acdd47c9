package validator

import (
	"fmt"
	"net/mail"
	"net/url"
	"reflect"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"sync"
)

// Rule pairs a check with the error reported when the check fails.
type Rule struct {
	Check func() bool
	Error ValidationError
}

// ValidatorFunc builds a Rule for the given field value and rule parameters.
type ValidatorFunc func(field string, value reflect.Value, params []string) Rule

var (
	registryMu sync.RWMutex
	registry   = map[string]ValidatorFunc{
		"required": requiredValidator,
		"min":      minValidator,
		"max":      maxValidator,
		"len":      lenValidator,
		"email":    emailValidator,
		"url":      urlValidator,
		"uuid":     uuidValidator,
		"alpha":    alphaValidator,
		"alphanum": alphanumValidator,
		"numeric":  numericValidator,
		"in":       inValidator,
		"regex":    regexValidator,
		"positive": positiveValidator,
	}
)

// RegisterValidator adds a custom validator function to the registry.
// Registering under an existing name replaces the built-in rule.
func RegisterValidator(name string, fn ValidatorFunc) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = fn
}

// ValidateStruct validates a struct based on its `validate` field tags.
// Rules are separated by semicolons, parameters by a colon:
//
//	type CreateUserRequest struct {
//		Name  string `json:"name" validate:"required;min:2;max:50"`
//		Email string `json:"email" validate:"required;email"`
//	}
//
// Returns ValidationErrors carrying one entry per failed rule, or nil when
// the value passes.
func ValidateStruct(v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return fmt.Errorf("validator: must pass a struct or pointer to struct, got %T", v)
	}

	var errs ValidationErrors
	validateStructRecursive(rv, "", &errs)

	if errs.IsEmpty() {
		return nil
	}
	return errs
}

func validateStructRecursive(rv reflect.Value, prefix string, errs *ValidationErrors) {
	rt := rv.Type()

	for i := 0; i < rv.NumField(); i++ {
		field := rv.Field(i)
		structField := rt.Field(i)
		if !structField.IsExported() {
			continue
		}

		tag := structField.Tag.Get("validate")
		if tag == "-" {
			continue
		}

		fieldPath := fieldName(structField)
		if prefix != "" {
			fieldPath = prefix + "." + fieldPath
		}

		// Untagged nested structs are still traversed.
		if field.Kind() == reflect.Struct && tag == "" {
			validateStructRecursive(field, fieldPath, errs)
			continue
		}

		if field.Kind() == reflect.Pointer {
			if field.IsNil() {
				if tag != "" {
					validateField(fieldPath, field, tag, errs)
				}
				continue
			}
			elem := field.Elem()
			if elem.Kind() == reflect.Struct && tag == "" {
				validateStructRecursive(elem, fieldPath, errs)
			} else if tag != "" {
				validateField(fieldPath, elem, tag, errs)
			}
			continue
		}

		if tag == "" {
			continue
		}

		validateField(fieldPath, field, tag, errs)
	}
}

// fieldName prefers the json tag name so reported fields match the wire format.
func fieldName(sf reflect.StructField) string {
	if tag := sf.Tag.Get("json"); tag != "" && tag != "-" {
		if name, _, _ := strings.Cut(tag, ","); name != "" {
			return name
		}
	}
	return sf.Name
}

func validateField(fieldPath string, field reflect.Value, tag string, errs *ValidationErrors) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	for _, ruleStr := range strings.Split(tag, ";") {
		ruleStr = strings.TrimSpace(ruleStr)
		if ruleStr == "" {
			continue
		}

		name, paramStr, _ := strings.Cut(ruleStr, ":")
		name = strings.TrimSpace(name)

		var params []string
		if paramStr = strings.TrimSpace(paramStr); paramStr != "" {
			params = strings.Split(paramStr, ",")
			for i := range params {
				params[i] = strings.TrimSpace(params[i])
			}
		}

		fn, ok := registry[name]
		if !ok {
			continue
		}
		rule := fn(fieldPath, field, params)
		if rule.Check != nil && !rule.Check() {
			errs.Add(rule.Error)
		}
	}
}

// Built-in validators.

func requiredValidator(field string, value reflect.Value, _ []string) Rule {
	return Rule{
		Check: func() bool {
			if !value.IsValid() {
				return false
			}
			switch value.Kind() {
			case reflect.String:
				return strings.TrimSpace(value.String()) != ""
			case reflect.Slice, reflect.Map, reflect.Array:
				return value.Len() > 0
			case reflect.Pointer, reflect.Interface:
				return !value.IsNil()
			default:
				return !value.IsZero()
			}
		},
		Error: ValidationError{Field: field, Message: "field is required"},
	}
}

func minValidator(field string, value reflect.Value, params []string) Rule {
	if len(params) < 1 {
		return Rule{Check: func() bool { return true }}
	}
	switch value.Kind() {
	case reflect.String:
		min, _ := strconv.Atoi(params[0])
		return Rule{
			Check: func() bool { return len(value.String()) >= min },
			Error: ValidationError{Field: field, Message: fmt.Sprintf("must be at least %d characters", min)},
		}
	case reflect.Slice, reflect.Array, reflect.Map:
		min, _ := strconv.Atoi(params[0])
		return Rule{
			Check: func() bool { return value.Len() >= min },
			Error: ValidationError{Field: field, Message: fmt.Sprintf("must have at least %d items", min)},
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		min, _ := strconv.ParseInt(params[0], 10, 64)
		return Rule{
			Check: func() bool { return value.Int() >= min },
			Error: ValidationError{Field: field, Message: fmt.Sprintf("must be at least %d", min)},
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		min, _ := strconv.ParseUint(params[0], 10, 64)
		return Rule{
			Check: func() bool { return value.Uint() >= min },
			Error: ValidationError{Field: field, Message: fmt.Sprintf("must be at least %d", min)},
		}
	case reflect.Float32, reflect.Float64:
		min, _ := strconv.ParseFloat(params[0], 64)
		return Rule{
			Check: func() bool { return value.Float() >= min },
			Error: ValidationError{Field: field, Message: fmt.Sprintf("must be at least %g", min)},
		}
	}
	return Rule{Check: func() bool { return true }}
}

func maxValidator(field string, value reflect.Value, params []string) Rule {
	if len(params) < 1 {
		return Rule{Check: func() bool { return true }}
	}
	switch value.Kind() {
	case reflect.String:
		max, _ := strconv.Atoi(params[0])
		return Rule{
			Check: func() bool { return len(value.String()) <= max },
			Error: ValidationError{Field: field, Message: fmt.Sprintf("must be at most %d characters", max)},
		}
	case reflect.Slice, reflect.Array, reflect.Map:
		max, _ := strconv.Atoi(params[0])
		return Rule{
			Check: func() bool { return value.Len() <= max },
			Error: ValidationError{Field: field, Message: fmt.Sprintf("must have at most %d items", max)},
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		max, _ := strconv.ParseInt(params[0], 10, 64)
		return Rule{
			Check: func() bool { return value.Int() <= max },
			Error: ValidationError{Field: field, Message: fmt.Sprintf("must be at most %d", max)},
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		max, _ := strconv.ParseUint(params[0], 10, 64)
		return Rule{
			Check: func() bool { return value.Uint() <= max },
			Error: ValidationError{Field: field, Message: fmt.Sprintf("must be at most %d", max)},
		}
	case reflect.Float32, reflect.Float64:
		max, _ := strconv.ParseFloat(params[0], 64)
		return Rule{
			Check: func() bool { return value.Float() <= max },
			Error: ValidationError{Field: field, Message: fmt.Sprintf("must be at most %g", max)},
		}
	}
	return Rule{Check: func() bool { return true }}
}

func lenValidator(field string, value reflect.Value, params []string) Rule {
	if len(params) < 1 {
		return Rule{Check: func() bool { return true }}
	}
	want, _ := strconv.Atoi(params[0])
	return Rule{
		Check: func() bool {
			switch value.Kind() {
			case reflect.String, reflect.Slice, reflect.Array, reflect.Map:
				return value.Len() == want
			}
			return true
		},
		Error: ValidationError{Field: field, Message: fmt.Sprintf("must have exactly %d characters", want)},
	}
}

func emailValidator(field string, value reflect.Value, _ []string) Rule {
	return Rule{
		Check: func() bool {
			if value.Kind() != reflect.String {
				return false
			}
			s := value.String()
			if s == "" {
				return true // emptiness is the `required` rule's concern
			}
			addr, err := mail.ParseAddress(s)
			return err == nil && addr.Address == s
		},
		Error: ValidationError{Field: field, Message: "must be a valid email address"},
	}
}

func urlValidator(field string, value reflect.Value, _ []string) Rule {
	return Rule{
		Check: func() bool {
			if value.Kind() != reflect.String {
				return false
			}
			s := value.String()
			if s == "" {
				return true
			}
			u, err := url.Parse(s)
			return err == nil && u.Scheme != "" && u.Host != ""
		},
		Error: ValidationError{Field: field, Message: "must be a valid URL"},
	}
}

var uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

func uuidValidator(field string, value reflect.Value, _ []string) Rule {
	return Rule{
		Check: func() bool {
			if value.Kind() != reflect.String {
				return false
			}
			s := value.String()
			return s == "" || uuidRegex.MatchString(s)
		},
		Error: ValidationError{Field: field, Message: "must be a valid UUID"},
	}
}

var (
	alphaRegex    = regexp.MustCompile(`^[a-zA-Z]+$`)
	alphanumRegex = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
	numericRegex  = regexp.MustCompile(`^-?[0-9]+(\.[0-9]+)?$`)
)

func alphaValidator(field string, value reflect.Value, _ []string) Rule {
	return stringMatchRule(field, value, alphaRegex, "must contain only letters")
}

func alphanumValidator(field string, value reflect.Value, _ []string) Rule {
	return stringMatchRule(field, value, alphanumRegex, "must contain only letters and digits")
}

func numericValidator(field string, value reflect.Value, _ []string) Rule {
	return stringMatchRule(field, value, numericRegex, "must be numeric")
}

func stringMatchRule(field string, value reflect.Value, re *regexp.Regexp, msg string) Rule {
	return Rule{
		Check: func() bool {
			if value.Kind() != reflect.String {
				return true
			}
			s := value.String()
			return s == "" || re.MatchString(s)
		},
		Error: ValidationError{Field: field, Message: msg},
	}
}

func inValidator(field string, value reflect.Value, params []string) Rule {
	return Rule{
		Check: func() bool {
			if len(params) == 0 {
				return true
			}
			var s string
			switch value.Kind() {
			case reflect.String:
				s = value.String()
			case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
				s = strconv.FormatInt(value.Int(), 10)
			default:
				return true
			}
			return s == "" || slices.Contains(params, s)
		},
		Error: ValidationError{Field: field, Message: fmt.Sprintf("must be one of: %s", strings.Join(params, ", "))},
	}
}

func regexValidator(field string, value reflect.Value, params []string) Rule {
	if len(params) < 1 || value.Kind() != reflect.String {
		return Rule{Check: func() bool { return true }}
	}
	re, err := regexp.Compile(params[0])
	if err != nil {
		return Rule{
			Check: func() bool { return false },
			Error: ValidationError{Field: field, Message: "invalid validation pattern"},
		}
	}
	return Rule{
		Check: func() bool {
			s := value.String()
			return s == "" || re.MatchString(s)
		},
		Error: ValidationError{Field: field, Message: "has an invalid format"},
	}
}

func positiveValidator(field string, value reflect.Value, _ []string) Rule {
	return Rule{
		Check: func() bool {
			switch value.Kind() {
			case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
				return value.Int() > 0
			case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
				return value.Uint() > 0
			case reflect.Float32, reflect.Float64:
				return value.Float() > 0
			}
			return true
		},
		Error: ValidationError{Field: field, Message: "must be positive"},
	}
}
