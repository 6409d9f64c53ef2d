// Package validation provides struct tag validation for ssekit configs
// and handler inputs, backed by the validator library.
//
//	type Config struct {
//	    Name string `validate:"required,min=2"`
//	}
//	err := validation.Validate(cfg)
package validation
