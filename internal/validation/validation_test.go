package validation

import (
	"errors"
	"testing"

	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/apperrors"
)

func TestParseInt(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"2081", 2081, false},
		{"-3", -3, false},
		{"007", 7, false},
		{"", 0, true},
		{"12a", 0, true},
		{" 12", 0, true},
		{"+12", 0, true},
		{"1.5", 0, true},
		{"0x10", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseInt(tt.in)
			if tt.wantErr {
				if !errors.Is(err, apperrors.ErrNotANumber) {
					t.Errorf("ParseInt(%q) error = %v, want ErrNotANumber", tt.in, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseInt(%q) = %d, %v; want %d", tt.in, got, err, tt.want)
			}
		})
	}
}

func TestParseBsDate(t *testing.T) {
	t.Run("valid date", func(t *testing.T) {
		y, m, d, err := ParseBsDate("2081", "1", "4")
		if err != nil {
			t.Fatalf("ParseBsDate() returned unexpected error: %v", err)
		}
		if y != 2081 || m != 1 || d != 4 {
			t.Errorf("Expected 2081/1/4, got %d/%d/%d", y, m, d)
		}
	})

	t.Run("reports every invalid field", func(t *testing.T) {
		_, _, _, err := ParseBsDate("abc", "13", "0")

		var verr *Error
		if !errors.As(err, &verr) {
			t.Fatalf("Expected *Error, got %v", err)
		}
		for _, field := range []string{"year", "month", "day"} {
			if _, ok := verr.Fields[field]; !ok {
				t.Errorf("Expected field %q to be reported", field)
			}
		}
	})

	t.Run("rejects years outside the supported range", func(t *testing.T) {
		_, _, _, err := ParseBsDate("1969", "1", "1")
		if err == nil {
			t.Error("Expected error for year 1969")
		}
	})
}

func TestParseAdMonth(t *testing.T) {
	if _, _, err := ParseAdMonth("2024", "4"); err != nil {
		t.Errorf("ParseAdMonth(2024, 4) returned unexpected error: %v", err)
	}
	if _, _, err := ParseAdMonth("2024", "0"); err == nil {
		t.Error("Expected error for month 0")
	}
	if _, _, err := ParseAdMonth("1900", "1"); err == nil {
		t.Error("Expected error for year 1900")
	}
}

func TestValidateAdDate(t *testing.T) {
	iso, err := ValidateAdDate("2024-4-16")
	if err != nil || iso != "2024-04-16" {
		t.Errorf("ValidateAdDate(2024-4-16) = %q, %v", iso, err)
	}

	for _, in := range []string{"", "2024-02-30", "16-04-2024", "1800-01-01"} {
		if _, err := ValidateAdDate(in); err == nil {
			t.Errorf("Expected error for %q", in)
		}
	}
}
