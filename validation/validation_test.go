package validation

import (
	"strings"
	"testing"

	"github.com/kbukum/ssekit/errors"
)

type sampleConfig struct {
	Name  string `json:"name" validate:"required,min=2"`
	Shape string `json:"shape" validate:"omitempty,oneof=dot ring"`
}

func TestValidate_Success(t *testing.T) {
	cfg := sampleConfig{Name: "events", Shape: "dot"}
	if err := Validate(cfg); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}

func TestValidate_MissingRequired(t *testing.T) {
	cfg := sampleConfig{}
	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for missing name")
	}

	appErr := errors.AsAppError(err)
	if appErr == nil {
		t.Fatal("expected AppError")
	}
	if appErr.Code != errors.ErrCodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %s", appErr.Code)
	}
	if !strings.Contains(appErr.Message, "name") {
		t.Errorf("expected message to name the field, got %q", appErr.Message)
	}
}

func TestValidate_OneOf(t *testing.T) {
	cfg := sampleConfig{Name: "events", Shape: "triangle"}
	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for bad shape")
	}
	if !strings.Contains(err.Error(), "one of") {
		t.Errorf("expected oneof message, got %q", err.Error())
	}
}

func TestToSnakeCase(t *testing.T) {
	if got := toSnakeCase("SubscriberID"); got != "subscriber_i_d" {
		// Matches the simple rune-wise conversion.
		t.Errorf("unexpected snake case: %s", got)
	}
	if got := toSnakeCase("Name"); got != "name" {
		t.Errorf("expected 'name', got %s", got)
	}
}
