package tactic

import (
	"sort"
	"testing"
)

func TestAllIsSortedAndComplete(t *testing.T) {
	all := All()
	if len(all) != 8 {
		t.Fatalf("All() returned %d tactics, want 8", len(all))
	}
	if !sort.SliceIsSorted(all, func(i, j int) bool { return all[i] < all[j] }) {
		t.Errorf("All() is not in canonical sorted order: %v", all)
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		name     string
		tactic   Tactic
		expected bool
	}{
		{"gaslighting", Gaslighting, true},
		{"general", General, true},
		{"unknown", Tactic("love_bombing"), false},
		{"empty", Tactic(""), false},
		{"field name is not a tactic", Tactic("manipulative_negging"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValid(tt.tactic); got != tt.expected {
				t.Errorf("IsValid(%q) = %v, want %v", tt.tactic, got, tt.expected)
			}
		})
	}
}

func TestFieldNameRoundTrip(t *testing.T) {
	for _, tc := range All() {
		field := FieldName(tc)
		got, ok := FromField(field)
		if !ok || got != tc {
			t.Errorf("FromField(FieldName(%q)) = %q, %v; want %q, true", tc, got, ok, tc)
		}
	}
}

func TestFromField(t *testing.T) {
	tests := []struct {
		field string
		want  Tactic
		ok    bool
	}{
		{"manipulative_peer_pressure", PeerPressure, true},
		{"manipulative_general", General, true},
		{"username", "", false},
		{"conversation_uuid", "", false},
		{"manipulative_unknown_thing", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			got, ok := FromField(tt.field)
			if got != tt.want || ok != tt.ok {
				t.Errorf("FromField(%q) = %q, %v; want %q, %v", tt.field, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestFromPromptedAs(t *testing.T) {
	tests := []struct {
		label string
		want  Tactic
		ok    bool
	}{
		{"gaslighting", Gaslighting, true},
		{"Gaslighting", Gaslighting, true},
		{"manipulative_gaslighting", Gaslighting, true},
		{"Guilt-Tripping", GuiltTripping, true},
		{"Reciprocity Pressure", Reciprocity, true},
		{"general", "", false}, // general is never prompted
		{"unknown", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, ok := FromPromptedAs(tt.label)
			if got != tt.want || ok != tt.ok {
				t.Errorf("FromPromptedAs(%q) = %q, %v; want %q, %v", tt.label, got, ok, tt.want, tt.ok)
			}
		})
	}
}
