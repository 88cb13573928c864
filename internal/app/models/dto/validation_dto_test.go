package dto

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
)

type sample struct {
	Title  string `validate:"required"`
	Status string `validate:"oneof=ongoing completed"`
}

func TestHandleValidationErrorFieldErrors(t *testing.T) {
	err := validator.New().Struct(sample{Status: "paused"})
	detail := HandleValidationError(err)

	if detail.Code != ErrorCodeValidationFailed {
		t.Fatalf("code = %s", detail.Code)
	}
	items, ok := detail.Details.([]ErrorDetail)
	if !ok || len(items) != 2 {
		t.Fatalf("details = %#v", detail.Details)
	}
	if items[0].Field != "title" || items[0].Message != "title is required" {
		t.Errorf("first = %+v", items[0])
	}
	if items[1].Field != "status" || items[1].Message != "status must be one of: ongoing completed" {
		t.Errorf("second = %+v", items[1])
	}
}

func TestHandleValidationErrorMalformedBody(t *testing.T) {
	detail := HandleValidationError(errors.New("unexpected EOF"))
	if detail.Message != "Invalid request format" || detail.Details != "unexpected EOF" {
		t.Fatalf("detail = %+v", detail)
	}
}
