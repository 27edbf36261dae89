// Package validation wraps go-playground/validator with the rules used for
// generator parameters and configuration, and reports failures as
// ValidationErrors keyed by JSON field name.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/flowgraph/randgraph/internal/core/graph"
	"github.com/flowgraph/randgraph/pkg/serialization"
)

// Store kinds accepted by the store_kind tag. Only persistent stores are
// listed; memory.Store is for tests and embedding.
var storeKinds = []string{"none", "sqlite", "postgres"}

// GraphParams is implemented by structs that carry a vertex and edge count.
// Struct checks that the pair admits a simple graph.
type GraphParams interface {
	GraphParams() (vertices, edges int)
}

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterValidation("store_kind", validateStoreKind)
	validate.RegisterValidation("blob_format", validateBlobFormat)

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
}

// Struct validates s by its `validate` tags, then, if s implements
// GraphParams, checks the edge budget.
func Struct(s any) error {
	var errs ValidationErrors

	if err := validate.Struct(s); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}
		for _, fe := range fieldErrs {
			errs = append(errs, ValidationError{
				Field:   fe.Field(),
				Value:   fe.Value(),
				Message: message(fe),
			})
		}
	}

	if p, ok := s.(GraphParams); ok && len(errs) == 0 {
		n, m := p.GraphParams()
		if m > graph.MaxEdges(n) {
			errs = append(errs, ValidationError{
				Field:   "edges",
				Value:   m,
				Message: fmt.Sprintf("a simple graph on %d vertices has at most %d edges", n, graph.MaxEdges(n)),
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field is required"
	case "min", "gte":
		return fmt.Sprintf("minimum value/length is %s", fe.Param())
	case "max", "lte":
		return fmt.Sprintf("maximum value/length is %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "store_kind":
		return fmt.Sprintf("must be one of %v", storeKinds)
	case "blob_format":
		return "must be codec[+compression], e.g. msgpack+zstd"
	default:
		return fmt.Sprintf("validation failed: %s", fe.Tag())
	}
}

func validateStoreKind(fl validator.FieldLevel) bool {
	kind := fl.Field().String()
	for _, k := range storeKinds {
		if kind == k {
			return true
		}
	}
	return false
}

func validateBlobFormat(fl validator.FieldLevel) bool {
	_, err := serialization.ParseFormat(fl.Field().String())
	return err == nil
}
