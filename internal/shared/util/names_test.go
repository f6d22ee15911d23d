package util

import "testing"

func TestHashUserKeyIsStableHex(t *testing.T) {
	got := HashUserKey("guest:g1")
	if got != HashUserKey("guest:g1") {
		t.Fatalf("hash not stable: %s", got)
	}
	if got == HashUserKey("guest:g2") {
		t.Fatal("distinct users hashed to the same key")
	}
	if len(got) != 64 {
		t.Fatalf("len = %d, want 64 hex chars", len(got))
	}
	for _, ch := range got {
		if !((ch >= 'a' && ch <= 'f') || (ch >= '0' && ch <= '9')) {
			t.Fatalf("non-hex character %c", ch)
		}
	}
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "lease.pdf", want: "lease.pdf"},
		{in: "  lease.pdf  ", want: "lease.pdf"},
		{in: "a/b\\c.pdf", want: "a_b_c.pdf"},
		{in: "../etc/passwd", wantErr: true},
		{in: "   ", wantErr: true},
	}
	for _, tt := range tests {
		got, err := SanitizeFileName(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("SanitizeFileName(%q): want error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("SanitizeFileName(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
