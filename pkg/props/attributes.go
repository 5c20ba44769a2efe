package props

import "strings"

// attr creates an Attr with the given key and value.
func attr(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// Identity attributes

// TestID sets the testID attribute used by UI tests to find the node.
func TestID(id string) Attr { return attr("testID", id) }

// NativeID sets the nativeID attribute.
func NativeID(id string) Attr { return attr("nativeID", id) }

// Style attributes

// Style sets a style attribute; the key is prefixed with "style.".
// Example: Style("margin", 8) → style.margin=8
func Style(key string, value any) Attr { return attr("style."+key, value) }

// BackgroundColor sets style.backgroundColor.
func BackgroundColor(color string) Attr { return Style("backgroundColor", color) }

// Opacity sets style.opacity.
func Opacity(opacity float64) Attr { return Style("opacity", opacity) }

// Flex sets style.flex.
func Flex(flex float64) Attr { return Style("flex", flex) }

// Content attributes

// Text sets the text content of a text node.
func Text(content string) Attr { return attr("text", content) }

// Source sets the image source URI.
func Source(uri string) Attr { return attr("source", uri) }

// Accessibility attributes

// Accessible marks the node as an accessibility element.
func Accessible(accessible bool) Attr { return attr("accessible", accessible) }

// AccessibilityLabel sets the accessibilityLabel attribute.
func AccessibilityLabel(label string) Attr { return attr("accessibilityLabel", label) }

// AccessibilityRole sets the accessibilityRole attribute.
func AccessibilityRole(role string) Attr { return attr("accessibilityRole", role) }

// Behavior attributes

// PointerEvents sets pointerEvents ("auto", "none", "box-only", "box-none").
func PointerEvents(mode string) Attr { return attr("pointerEvents", strings.ToLower(mode)) }

// Collapsable sets whether the node may be flattened away by the mounting
// layer.
func Collapsable(collapsable bool) Attr { return attr("collapsable", collapsable) }

// If returns attr if condition is true, an empty Attr otherwise.
func If(condition bool, a Attr) Attr {
	if condition {
		return a
	}
	return Attr{}
}
