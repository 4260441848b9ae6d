package store

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gamesite/utils"

	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already exists")
)

// ValidationError reports bad input. Field and Message describe the first
// offending field; when the input failed struct validation the validator's
// errors are kept and reachable through Unwrap.
type ValidationError struct {
	Field   string
	Message string

	err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return e.err }

func invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// translate maps driver errors onto the store's error kinds.
func translate(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	msg := strings.ToLower(err.Error())
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey),
		strings.Contains(msg, "unique constraint"),
		strings.Contains(msg, "duplicate key"):
		return fmt.Errorf("%s: %w", what, ErrDuplicate)
	case errors.Is(err, gorm.ErrForeignKeyViolated),
		strings.Contains(msg, "foreign key constraint"),
		strings.Contains(msg, "violates foreign key"):
		return &ValidationError{Field: "non_field_errors", Message: "Referenced object does not exist."}
	case strings.Contains(msg, "not null constraint"),
		strings.Contains(msg, "violates not-null"):
		return &ValidationError{Field: "non_field_errors", Message: "A required value is missing."}
	case strings.Contains(msg, "value too long"):
		return &ValidationError{Field: "non_field_errors", Message: "A value is longer than its column allows."}
	case strings.Contains(msg, "numeric field overflow"),
		strings.Contains(msg, "out of range"):
		return &ValidationError{Field: "non_field_errors", Message: "A number is outside the allowed range."}
	}
	return fmt.Errorf("%s: %w", what, err)
}

// fromValidator converts validator errors into a ValidationError on the
// first offending field.
func fromValidator(err error) error {
	errs := utils.ValidationErrors(err)
	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	if len(fields) == 0 {
		return err
	}
	return &ValidationError{Field: fields[0], Message: errs[fields[0]], err: err}
}
