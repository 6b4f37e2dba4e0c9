package media

import (
	"math"
	"strings"

	"github.com/dustin/go-humanize"
)

// Download name prefixes used per queue family.
const (
	PrefixConverted = "converted-"
	PrefixResized   = "resized-"
	PrefixOptimized = "optimized-"
)

// BaseName strips the final extension. Names whose only dot is the leading
// one are returned unchanged.
func BaseName(name string) string {
	idx := strings.LastIndexByte(name, '.')
	if idx <= 0 {
		return name
	}
	return name[:idx]
}

// DownloadName builds the default "converted-" download name.
func DownloadName(originalName, targetFormat string) string {
	return DownloadNameWithPrefix(originalName, targetFormat, PrefixConverted)
}

// DownloadNameWithPrefix builds "{prefix}{basename}.{format}" with the format
// lower-cased.
func DownloadNameWithPrefix(originalName, targetFormat, prefix string) string {
	return prefix + BaseName(originalName) + "." + strings.ToLower(targetFormat)
}

// FormatBytes renders a byte count for people.
func FormatBytes(size int64) string {
	if size <= 0 {
		return "0 B"
	}
	return humanize.IBytes(uint64(size))
}

// ReductionPercent reports how much smaller result is than original, rounded
// to a whole percent. Growth yields a negative value.
func ReductionPercent(original, result int64) int {
	if original <= 0 {
		return 0
	}
	return int(math.Round((1 - float64(result)/float64(original)) * 100))
}
