package textutil

import "testing"

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "photo.png", want: "photo.png"},
		{name: "trimmed", in: "  photo.png ", want: "photo.png"},
		{name: "decomposed accent", in: "Cafe\u0301.txt", want: "Caf\u00e9.txt"},
		{name: "directory dropped", in: "/tmp/upload/report.pdf", want: "report.pdf"},
		{name: "windows path", in: `C:\Users\me\notes.docx`, want: "notes.docx"},
		{name: "empty", in: "   ", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeName(tt.in); got != tt.want {
				t.Fatalf("NormalizeName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitizeFileName(t *testing.T) {
	if got := SanitizeFileName(` a/b:c*d?"<>|.png `); got != "a-b-c-d.png" {
		t.Fatalf("unexpected sanitized name %q", got)
	}
	if got := SanitizeFileName("   "); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}

func TestLabel(t *testing.T) {
	cases := map[string]string{
		"image-resize":      "Image Resize",
		"document-compress": "Document Compress",
		"processing":        "Processing",
		"":                  "",
	}
	for in, want := range cases {
		if got := Label(in); got != want {
			t.Fatalf("Label(%q) = %q, want %q", in, got, want)
		}
	}
}
