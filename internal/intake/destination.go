package intake

import (
	"fmt"
	"strings"

	"fileconverser/internal/media"
	"fileconverser/internal/queue"
)

// Screen names a workspace a drop can land on.
type Screen string

const (
	ScreenHome      Screen = "home"
	ScreenDocuments Screen = "documents"
	ScreenImages    Screen = "images"
	ScreenCompress  Screen = "compress"
	ScreenResize    Screen = "resize"
	ScreenHelp      Screen = "help"
)

// CompressTab selects which compress queue the compress screen shows.
type CompressTab string

const (
	TabDocs   CompressTab = "docs"
	TabImages CompressTab = "imgs"
)

// Destination is the active screen and compress tab at the time of a drop.
type Destination struct {
	Screen      Screen      `json:"screen"`
	CompressTab CompressTab `json:"tab,omitempty"`
}

// ParseDestination validates screen and tab names. Empty values default to
// the home screen and the documents tab.
func ParseDestination(screen, tab string) (Destination, error) {
	dest := Destination{Screen: ScreenHome, CompressTab: TabDocs}
	switch s := Screen(strings.ToLower(strings.TrimSpace(screen))); s {
	case "":
	case ScreenHome, ScreenDocuments, ScreenImages, ScreenCompress, ScreenResize, ScreenHelp:
		dest.Screen = s
	default:
		return Destination{}, fmt.Errorf("unknown screen %q", screen)
	}
	switch t := CompressTab(strings.ToLower(strings.TrimSpace(tab))); t {
	case "":
	case TabDocs, TabImages:
		dest.CompressTab = t
	default:
		return Destination{}, fmt.Errorf("unknown compress tab %q", tab)
	}
	return dest, nil
}

// autoNavigates reports whether drops on this screen move the user to the
// screen of the queue that received files.
func (d Destination) autoNavigates() bool {
	return d.Screen == ScreenHome || d.Screen == ScreenHelp
}

// kindFor picks the store for a file of the given category.
func (d Destination) kindFor(category media.Category) queue.Kind {
	if category == media.CategoryImage {
		switch {
		case d.Screen == ScreenResize:
			return queue.KindImageResize
		case d.Screen == ScreenCompress && d.CompressTab == TabImages:
			return queue.KindImageCompress
		default:
			return queue.KindImageConvert
		}
	}
	if d.Screen == ScreenCompress && d.CompressTab == TabDocs {
		return queue.KindDocumentCompress
	}
	return queue.KindDocumentConvert
}

// navigationOrder is the priority used when a drop on home or help fills
// several queues.
var navigationOrder = []queue.Kind{
	queue.KindImageResize,
	queue.KindImageConvert,
	queue.KindDocumentCompress,
	queue.KindImageCompress,
	queue.KindDocumentConvert,
}

// DestinationFor returns the screen and tab that show a queue kind.
func DestinationFor(kind queue.Kind) Destination {
	switch kind {
	case queue.KindImageResize:
		return Destination{Screen: ScreenResize}
	case queue.KindImageConvert:
		return Destination{Screen: ScreenImages}
	case queue.KindDocumentCompress:
		return Destination{Screen: ScreenCompress, CompressTab: TabDocs}
	case queue.KindImageCompress:
		return Destination{Screen: ScreenCompress, CompressTab: TabImages}
	default:
		return Destination{Screen: ScreenDocuments}
	}
}
