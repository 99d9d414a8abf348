package normalize

import (
	"reflect"
	"testing"
)

func TestEmail(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"user@example.com", "user@example.com"},
		{"USER@EXAMPLE.COM", "user@example.com"},
		{"  User@Example.Com  ", "user@example.com"},
		{"", ""},
		{"   ", ""},
		{"Mixed.Case@Domain.ORG", "mixed.case@domain.org"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Email(tt.input)
			if got != tt.want {
				t.Errorf("Email(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"John Doe", "John Doe"},
		{"  John Doe  ", "John Doe"},
		{"", ""},
		{"   ", ""},
		{"UPPERCASE NAME", "UPPERCASE NAME"}, // Name preserves case
		{"lowercase name", "lowercase name"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Name(tt.input)
			if got != tt.want {
				t.Errorf("Name(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTitleCase(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"acme blood bank", "Acme Blood Bank"},
		{"ACME BLOOD BANK", "Acme Blood Bank"},
		{"  red  cross  ", "Red Cross"},
		{"", ""},
		{"x", "X"},
		{"ärzte ohne grenzen", "Ärzte Ohne Grenzen"},
		{"ÉCOLE polytechnique", "École Polytechnique"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := TitleCase(tt.input)
			if got != tt.want {
				t.Errorf("TitleCase(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCollaborators(t *testing.T) {
	tests := []struct {
		name string
		list []string
		raw  string
		want []string
	}{
		{"nil input", nil, "", []string{}},
		{"empty list", []string{}, "ignored, list wins", []string{}},
		{"list trimmed", []string{" Red Cross ", "", "Rotary"}, "", []string{"Red Cross", "Rotary"}},
		{"raw split", nil, "Red Cross, Rotary , ,Lions", []string{"Red Cross", "Rotary", "Lions"}},
		{"raw only commas", nil, ",,,", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Collaborators(tt.list, tt.raw)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Collaborators(%v, %q) = %v, want %v", tt.list, tt.raw, got, tt.want)
			}
			if got == nil {
				t.Errorf("Collaborators must never return nil")
			}
		})
	}
}
