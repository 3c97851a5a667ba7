package ir

import "strings"

// FamilyKind classifies elements into the tag families the pipeline
// attaches extra data to. The indexing transform extracts the
// per-family payloads below; generic elements get no payload.
type FamilyKind int

const (
	OtherFamily FamilyKind = iota
	SvgFamily
	LinkFamily
	HeadingFamily
	MediaFamily
)

func (k FamilyKind) String() string {
	switch k {
	case SvgFamily:
		return "svg"
	case LinkFamily:
		return "link"
	case HeadingFamily:
		return "heading"
	case MediaFamily:
		return "media"
	default:
		return "other"
	}
}

// FamilyData is the per-family payload attached at indexing time.
// One concrete type per family stands in for the original pipeline's
// per-stage associated types.
type FamilyData interface {
	FamilyKind() FamilyKind
}

// SvgData describes an svg-family element.
type SvgData struct {
	IsRoot  bool // <svg> itself, vs. nested svg-namespace tags
	ViewBox string
	Width   float64
	Height  float64
	HasDim  bool
}

func (*SvgData) FamilyKind() FamilyKind { return SvgFamily }

// LinkType classifies an href target.
type LinkType int

const (
	RelativeLink LinkType = iota
	AbsoluteLink
	ExternalLink
	FragmentLink
)

// LinkData describes a link-family element (a or link tags).
type LinkData struct {
	Type LinkType
	Href string
}

func (*LinkData) FamilyKind() FamilyKind { return LinkFamily }

// HeadingData describes an h1-h6 element.
type HeadingData struct {
	Level      int
	OriginalID string
}

func (*HeadingData) FamilyKind() FamilyKind { return HeadingFamily }

// MediaData describes img/video/audio/source elements.
type MediaData struct {
	Src        string
	IsSvgImage bool
}

func (*MediaData) FamilyKind() FamilyKind { return MediaFamily }

var svgTags = map[string]bool{
	"svg": true, "path": true, "g": true, "circle": true, "ellipse": true,
	"rect": true, "line": true, "polyline": true, "polygon": true,
	"defs": true, "use": true, "symbol": true, "text": true,
	"tspan": true, "marker": true, "pattern": true, "clipPath": true,
	"mask": true, "filter": true, "linearGradient": true, "radialGradient": true,
	"stop": true, "image": true, "foreignObject": true,
}

// IdentifyFamily determines the family of an element from its tag and
// attributes.
func IdentifyFamily(tag string, attrs Attrs) FamilyKind {
	switch tag {
	case "a", "link":
		if attrs.Has("href") {
			return LinkFamily
		}
		return OtherFamily
	case "h1", "h2", "h3", "h4", "h5", "h6":
		return HeadingFamily
	case "img", "video", "audio", "source":
		return MediaFamily
	}
	if svgTags[tag] {
		return SvgFamily
	}
	return OtherFamily
}

// ClassifyLink buckets an href value.
func ClassifyLink(href string) LinkType {
	switch {
	case strings.HasPrefix(href, "#"):
		return FragmentLink
	case strings.HasPrefix(href, "http://"), strings.HasPrefix(href, "https://"):
		return ExternalLink
	case strings.HasPrefix(href, "/"):
		return AbsoluteLink
	case strings.HasPrefix(href, "./"), strings.HasPrefix(href, "../"):
		return RelativeLink
	case strings.Contains(href, "://"), strings.Contains(href, ":"):
		// mailto:, tel:, and friends.
		return ExternalLink
	default:
		return RelativeLink
	}
}

// HeadingLevel returns 1-6 for h1-h6 and 0 otherwise.
func HeadingLevel(tag string) int {
	if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
		return int(tag[1] - '0')
	}
	return 0
}
