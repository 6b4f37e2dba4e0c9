// Package export bundles completed results into a ZIP archive.
package export

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"fileconverser/internal/media"
	"fileconverser/internal/textutil"
)

// ErrNoEntries is returned when there is nothing to archive.
var ErrNoEntries = errors.New("no completed results to export")

// Entry is one file of an archive.
type Entry struct {
	Name     string
	Data     []byte
	Modified time.Time
}

// WriteZip writes entries as a ZIP archive. Entry names are sanitised and
// made unique by appending "-2", "-3" ... before the extension. It returns
// the names actually written, in order.
func WriteZip(w io.Writer, entries []Entry) ([]string, error) {
	if len(entries) == 0 {
		return nil, ErrNoEntries
	}
	zw := zip.NewWriter(w)
	used := make(map[string]int, len(entries))
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := uniqueName(used, entry.Name)
		header := &zip.FileHeader{Name: name, Method: zip.Deflate}
		if !entry.Modified.IsZero() {
			header.Modified = entry.Modified
		}
		fw, err := zw.CreateHeader(header)
		if err != nil {
			return nil, fmt.Errorf("create zip entry %s: %w", name, err)
		}
		if _, err := fw.Write(entry.Data); err != nil {
			return nil, fmt.Errorf("write zip entry %s: %w", name, err)
		}
		names = append(names, name)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalize zip: %w", err)
	}
	return names, nil
}

func uniqueName(used map[string]int, name string) string {
	name = textutil.SanitizeFileName(name)
	if name == "" {
		name = "file"
	}
	key := strings.ToLower(name)
	count := used[key]
	used[key] = count + 1
	if count == 0 {
		return name
	}
	base := media.BaseName(name)
	ext := strings.TrimPrefix(name, base)
	for n := count + 1; ; n++ {
		candidate := base + "-" + strconv.Itoa(n) + ext
		ckey := strings.ToLower(candidate)
		if used[ckey] == 0 {
			used[ckey] = 1
			return candidate
		}
	}
}
