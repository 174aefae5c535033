package utils

import "testing"

func TestGenerateIDLength(t *testing.T) {
	for _, n := range []int{1, 6, 16} {
		if got := GenerateID(n); len(got) != n {
			t.Fatalf("GenerateID(%d) = %q, len %d", n, got, len(got))
		}
	}
}

func TestGenerateIDDistinct(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateID(8)
		if seen[id] {
			t.Fatalf("duplicate id %q after %d draws", id, i)
		}
		seen[id] = true
	}
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Alice", "Alice"},
		{"  Alice  ", "Alice"},
		{"", "Batter"},
		{"   ", "Batter"},
		{"abcdefghijklmnopqrstuvwxyz", "abcdefghijklmnop"},
	}
	for _, tt := range tests {
		if got := SanitizeName(tt.in, 16, "Batter"); got != tt.want {
			t.Fatalf("SanitizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(-5, 0, 20); got != 0 {
		t.Fatalf("Clamp(-5) = %v", got)
	}
	if got := Clamp(35, 0, 20); got != 20 {
		t.Fatalf("Clamp(35) = %v", got)
	}
	if got := Clamp(7.5, 0, 20); got != 7.5 {
		t.Fatalf("Clamp(7.5) = %v", got)
	}
}
