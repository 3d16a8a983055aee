package notion

import (
	"strings"

	"github.com/jomei/notionapi"
)

// PlainText concatenates the plain text of a rich text array.
func PlainText(rts []notionapi.RichText) string {
	var b strings.Builder
	for _, rt := range rts {
		b.WriteString(rt.PlainText)
	}
	return b.String()
}

// TextProperty reads a title, rich text or select property as a string. The
// second result is false when the property is missing or of another type.
func TextProperty(p notionapi.Page, name string) (string, bool) {
	switch prop := p.Properties[name].(type) {
	case *notionapi.TitleProperty:
		return PlainText(prop.Title), true
	case *notionapi.RichTextProperty:
		return PlainText(prop.RichText), true
	case *notionapi.SelectProperty:
		return prop.Select.Name, true
	default:
		return "", false
	}
}

// NumberProperty reads a number property. The second result is false when the
// property is missing or not a number.
func NumberProperty(p notionapi.Page, name string) (float64, bool) {
	prop, ok := p.Properties[name].(*notionapi.NumberProperty)
	if !ok {
		return 0, false
	}
	return prop.Number, true
}
