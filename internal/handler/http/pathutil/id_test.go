package pathutil

import (
	"errors"
	"testing"
)

func TestParseID(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantID    int64
		wantError error
	}{
		{name: "valid ID", raw: "123", wantID: 123},
		{name: "surrounding spaces", raw: " 7 ", wantID: 7},
		{name: "max int64", raw: "9223372036854775807", wantID: 9223372036854775807},
		{name: "not a number", raw: "abc", wantError: ErrInvalidID},
		{name: "zero", raw: "0", wantError: ErrInvalidID},
		{name: "negative", raw: "-1", wantError: ErrInvalidID},
		{name: "empty", raw: "", wantError: ErrInvalidID},
		{name: "overflow", raw: "9223372036854775808", wantError: ErrInvalidID},
		{name: "hex", raw: "0x10", wantError: ErrInvalidID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := ParseID(tt.raw)
			if !errors.Is(err, tt.wantError) {
				t.Errorf("ParseID() error = %v, wantError %v", err, tt.wantError)
			}
			if id != tt.wantID {
				t.Errorf("ParseID() = %v, want %v", id, tt.wantID)
			}
		})
	}
}

func TestParsePage(t *testing.T) {
	tests := []struct {
		raw       string
		want      int
		wantError error
	}{
		{"1", 1, nil},
		{"42", 42, nil},
		{"0", 0, ErrInvalidPage},
		{"-3", 0, ErrInvalidPage},
		{"two", 0, ErrInvalidPage},
		{"", 0, ErrInvalidPage},
	}
	for _, tt := range tests {
		got, err := ParsePage(tt.raw)
		if !errors.Is(err, tt.wantError) || got != tt.want {
			t.Errorf("ParsePage(%q) = %d, %v; want %d, %v", tt.raw, got, err, tt.want, tt.wantError)
		}
	}
}
