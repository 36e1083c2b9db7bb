package core

import (
	"testing"
)

type validated struct {
	Title string `json:"title" validate:"notblank"`
	Due   string `json:"due_date" validate:"required,isodate"`
}

func TestValidators(t *testing.T) {
	validate, translator := NewValidator()

	tests := []struct {
		name       string
		val        validated
		wantFields map[string]string
	}{
		{name: "valid", val: validated{Title: "Read", Due: "2026-02-13"}},
		{
			name: "blank title",
			val:  validated{Title: "   ", Due: "2026-02-13"},
			wantFields: map[string]string{
				"title": "this field cannot be blank",
			},
		},
		{
			name: "missing due date",
			val:  validated{Title: "Read"},
			wantFields: map[string]string{
				"due_date": "this field is required",
			},
		},
		{
			name: "impossible date",
			val:  validated{Title: "Read", Due: "2026-02-30"},
			wantFields: map[string]string{
				"due_date": "enter a valid date (YYYY-MM-DD)",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidationErrorFrom(validate.Struct(tt.val), translator)
			if tt.wantFields == nil {
				if err != nil {
					t.Fatalf("Struct() unexpected error = %v", err)
				}
				return
			}
			vErr, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("Struct() error = %T %v, want *ValidationError", err, err)
			}
			if !IsValidationError(err) {
				t.Error("IsValidationError() = false")
			}
			got := make(map[string]string, len(vErr.Fields))
			for _, f := range vErr.Fields {
				got[f.Field] = f.Error
			}
			for fld, msg := range tt.wantFields {
				if got[fld] != msg {
					t.Errorf("field %s error = %q, want %q", fld, got[fld], msg)
				}
			}
		})
	}
}
