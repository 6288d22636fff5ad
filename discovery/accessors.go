package discovery

import (
	"strings"

	"github.com/pevans/linkharvest/snapshot"
)

// Accessor reads one candidate link value from an element.
type Accessor func(snapshot.Element) string

// HrefProperty reads the resolved href of link-bearing elements.
func HrefProperty() Accessor {
	return func(el snapshot.Element) string { return el.Href() }
}

// Attribute reads a raw attribute value.
func Attribute(name string) Accessor {
	return func(el snapshot.Element) string { return el.Attr(name) }
}

// LinkAccessors returns the href property followed by one accessor per
// attribute, in the order given.
func LinkAccessors(attrs []string) []Accessor {
	accessors := []Accessor{HrefProperty()}
	for _, name := range attrs {
		accessors = append(accessors, Attribute(name))
	}
	return accessors
}

// FirstNonEmpty applies accessors in order and returns the first non-empty
// value.
func FirstNonEmpty(el snapshot.Element, accessors []Accessor) string {
	for _, get := range accessors {
		if v := strings.TrimSpace(get(el)); v != "" {
			return v
		}
	}
	return ""
}

// attrContains matches elements having any of attrs containing needle.
func attrContains(needle string, attrs ...string) snapshot.Matcher {
	return func(el snapshot.Element) bool {
		for _, name := range attrs {
			if strings.Contains(el.Attr(name), needle) {
				return true
			}
		}
		return false
	}
}

// anchorTo matches anchors whose raw href contains needle.
func anchorTo(needle string) snapshot.Matcher {
	contains := attrContains(needle, "href")
	return func(el snapshot.Element) bool {
		return el.Tag() == "a" && contains(el)
	}
}

func isAnchor(el snapshot.Element) bool {
	return el.Tag() == "a"
}
