// Package id assigns content-based stable identifiers to document
// tree nodes.
//
// Identity is a pure function of (parent seed, node kind, key
// attributes, occurrence index). Two independent compilations of
// equivalent content therefore agree on every node's identifier,
// which is what lets the diff engine match nodes across versions.
//
// Occurrence index, not position: identical siblings are
// disambiguated by how many same-keyed siblings precede them, so a
// pure reorder leaves every identifier unchanged and diffs as moves.
package id

import (
	"fmt"
	"strconv"
)

// StableID identifies one logical node across tree versions.
// The zero value is the reserved detached/unset sentinel.
type StableID uint64

// Detached returns the reserved placeholder ID that never matches a
// real node.
func Detached() StableID { return 0 }

func (s StableID) IsDetached() bool { return s == 0 }

func (s StableID) Raw() uint64 { return uint64(s) }

// AttrValue returns the ID encoded for identity attributes and
// hot-reload messages: lowercase hex, no prefix, so a client can
// resolve it with an attribute selector.
func (s StableID) AttrValue() string {
	return strconv.FormatUint(uint64(s), 16)
}

// ParseAttrValue is the inverse of AttrValue.
func ParseAttrValue(v string) (StableID, error) {
	raw, err := strconv.ParseUint(v, 16, 64)
	if err != nil {
		return Detached(), fmt.Errorf("bad stable id %q: %w", v, err)
	}
	return StableID(raw), nil
}

func (s StableID) String() string {
	if s.IsDetached() {
		return "#detached"
	}
	return "#" + s.AttrValue()
}

// PageSeed distinguishes identifiers across pages. Derived from the
// page's logical key (URL path) and mixed into the root traversal
// seed, so a patch for one page can never address a node on another.
type PageSeed uint64

// PageSeedFromPath derives a seed from a page path.
func PageSeedFromPath(path string) PageSeed {
	return PageSeed(NewHasher().Str("__page__").Str(path).Sum64())
}

// ZeroSeed is for single-page or test scenarios.
func ZeroSeed() PageSeed { return 0 }

// KeyAttr reports whether an attribute name participates in identity.
// Only id, key and data-key* are keyed; everything else (class,
// style, ...) is excluded so attribute edits never change identity.
func KeyAttr(name string) bool {
	return name == "id" || name == "key" || len(name) >= 8 && name[:8] == "data-key"
}

// ForElement computes the StableID of an element node.
//
// attrs is the element's full ordered attribute list; only key
// attributes are hashed. occurrence is the count of prior siblings
// sharing this element's content key. The element's own ID becomes
// the parent seed for its children, chaining ancestry into every
// descendant without passing full paths.
func ForElement(tag string, attrs [][2]string, occurrence int, parentSeed uint64) StableID {
	h := NewHasher().U64(parentSeed).Str(tag)
	for _, kv := range attrs {
		if KeyAttr(kv[0]) {
			h = h.Str(kv[0]).Str(kv[1])
		}
	}
	return StableID(h.Int(occurrence).Sum64())
}

// ForText computes the StableID of a text node. Content is excluded
// on purpose: a text edit must diff as "same node, new text"
// (Keep + UpdateText), not as Delete + Insert.
func ForText(occurrence int, parentSeed uint64) StableID {
	return StableID(NewHasher().
		U64(parentSeed).
		Str("__text__").
		Int(occurrence).
		Sum64())
}
