package s3

import (
	"strings"
	"testing"
)

func TestObjectKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{name: "no prefix", prefix: "", key: "user/lease.pdf", want: "user/lease.pdf"},
		{name: "prefix", prefix: "docs", key: "user/lease.pdf", want: "docs/user/lease.pdf"},
		{name: "prefix with slashes", prefix: "/docs/", key: "/user/lease.pdf", want: "docs/user/lease.pdf"},
		{name: "nested prefix", prefix: "docs/prod", key: "user/lease.pdf", want: "docs/prod/user/lease.pdf"},
		{name: "derived artifact key", prefix: "docs", key: "user/lease.pdf.report.html", want: "docs/user/lease.pdf.report.html"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := &Store{prefix: strings.Trim(strings.TrimSpace(tt.prefix), "/")}
			if got := s.objectKey(tt.key); got != tt.want {
				t.Fatalf("objectKey(%q) with prefix %q = %q, want %q", tt.key, tt.prefix, got, tt.want)
			}
		})
	}
}

func TestUploadTokenIsUnique(t *testing.T) {
	t.Parallel()
	if uploadToken() == uploadToken() {
		t.Fatal("consecutive upload tokens collided")
	}
}
