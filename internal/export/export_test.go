package export

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"testing"
)

func TestWriteZipDeduplicatesNames(t *testing.T) {
	var buf bytes.Buffer
	names, err := WriteZip(&buf, []Entry{
		{Name: "converted-photo.jpg", Data: []byte("one")},
		{Name: "converted-photo.jpg", Data: []byte("two")},
		{Name: "Converted-Photo.JPG", Data: []byte("three")},
		{Name: "converted-photo-2.jpg", Data: []byte("four")},
		{Name: "a/b.txt", Data: []byte("five")},
	})
	if err != nil {
		t.Fatalf("WriteZip: %v", err)
	}
	want := []string{"converted-photo.jpg", "converted-photo-2.jpg", "Converted-Photo-3.JPG", "converted-photo-2-2.jpg", "a-b.txt"}
	if len(names) != len(want) {
		t.Fatalf("names = %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("names = %v, want %v", names, want)
		}
	}

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("read zip: %v", err)
	}
	if len(zr.File) != len(want) {
		t.Fatalf("archive holds %d files", len(zr.File))
	}
	rc, err := zr.File[1].Open()
	if err != nil {
		t.Fatalf("open entry: %v", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read entry: %v", err)
	}
	if string(data) != "two" {
		t.Fatalf("entry content = %q", data)
	}
}

func TestWriteZipEmpty(t *testing.T) {
	if _, err := WriteZip(io.Discard, nil); !errors.Is(err, ErrNoEntries) {
		t.Fatalf("expected ErrNoEntries, got %v", err)
	}
}
