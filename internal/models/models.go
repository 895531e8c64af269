// package models defines the data model for the release dashboard
package models

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/desertthunder/kedoo/internal/shared"
	"github.com/go-playground/validator/v10"
)

// Record defines the base interface for all persisted records.
type Record interface {
	RecordID() string // RecordID returns the unique identifier of the record
	Owner() string    // Owner returns the id of the owning user, or "" for unowned records
	Validate() error  // Validate checks the record's fields and returns an error if they are invalid
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// validateStruct runs struct tag validation and folds failures into a single [shared.ErrInvalidInput] error.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
	}
	sort.Strings(fields)

	return fmt.Errorf("%w: %s", shared.ErrInvalidInput, strings.Join(fields, ", "))
}

// CompactStrings trims entries and drops blank ones. A nil input yields an empty, non-nil slice.
func CompactStrings(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
