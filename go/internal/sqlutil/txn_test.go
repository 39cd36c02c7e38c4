package sqlutil

import "testing"

func TestRebind(t *testing.T) {
	tests := []struct {
		driver, query, want string
	}{
		{"postgres", "a = ? AND b = ?", "a = $1 AND b = $2"},
		{"postgres", "SELECT 1", "SELECT 1"},
		{"sqlite", "a = ?", "a = ?"},
	}
	for _, tt := range tests {
		if got := Rebind(tt.driver, tt.query); got != tt.want {
			t.Errorf("Rebind(%q, %q) = %q, want %q", tt.driver, tt.query, got, tt.want)
		}
	}
}
