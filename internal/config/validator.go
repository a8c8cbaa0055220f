// internal/config/validator.go
//
// Thin wrapper around go-playground/validator.
//
// Context
// -------
// `internal/config/loader.go` calls `validateStruct` immediately after it
// unmarshals the merged Koanf tree and resolves Vault references.  Any tag
// mismatch or validation error aborts startup, so the binary never runs with
// partial, malformed, or missing configuration.
//
// Field tags cover single-field rules.  The one cross-section rule, "the
// database backend needs a DSN", is a struct-level validation registered
// below because `required_if` cannot see sibling sections.
//
// Notes
// -----
//   • Oxford commas, two spaces after periods.

package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

//
// validator instance (package-level singleton)
//

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())
	val.RegisterStructValidation(validateBackend, Config{})
	return val
}

// validateBackend enforces backend-specific requirements across sections.
func validateBackend(sl validator.StructLevel) {
	c := sl.Current().Interface().(Config)
	if c.Submission.Backend == BackendDatabase && c.Database.DSN == "" {
		sl.ReportError(c.Database.DSN, "Database.DSN", "DSN", "required_with_database_backend", "")
	}
}

//
// public API
//

// validateStruct returns a readable summary of every failing field, or nil.
func validateStruct(c *Config) error {
	err := v.Struct(c)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(parts, "; "))
}
