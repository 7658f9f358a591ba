package dom

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// ParseHTML ingests a generated page into a Document.
//
// Only element and text nodes survive; comments, doctypes and processing
// instructions are dropped. Inline style attributes are expanded into the
// element's style map, class attributes into its class list, so the engine
// sees authored styles the same way it sees its own mutations.
func ParseHTML(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	doc := &Document{}
	for n := root.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == html.ElementNode {
			doc.Root = convert(n)
			break
		}
	}
	if doc.Root == nil {
		doc.Root = NewElement("html")
	}
	return doc, nil
}

// ParseHTMLString is ParseHTML over a string, for tests and scenarios.
func ParseHTMLString(s string) (*Document, error) {
	return ParseHTML(strings.NewReader(s))
}

func convert(n *html.Node) *Element {
	el := NewElement(n.Data)

	for _, a := range n.Attr {
		switch a.Key {
		case "style":
			for prop, val := range parseInlineStyle(a.Val) {
				el.SetStyle(prop, val)
			}
		case "class":
			for _, c := range strings.Fields(a.Val) {
				el.AddClass(c)
			}
		default:
			el.SetAttr(a.Key, a.Val)
		}
	}

	var text strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			text.WriteString(c.Data)
		case html.ElementNode:
			el.AppendChild(convert(c))
		}
	}
	el.Text = strings.TrimSpace(text.String())

	return el
}

// parseInlineStyle splits "prop: value; prop: value" into a map.
// Malformed declarations are skipped, matching how browsers recover.
func parseInlineStyle(s string) map[string]string {
	out := make(map[string]string)
	for _, decl := range strings.Split(s, ";") {
		prop, val, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		prop = strings.TrimSpace(prop)
		val = strings.TrimSpace(val)
		if prop == "" || val == "" {
			continue
		}
		out[prop] = val
	}
	return out
}
