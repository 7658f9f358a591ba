package dom

import (
	"sort"
	"strings"
)

// Element is a single node in the document tree.
//
// Attributes are the authored markers (data-effect, data-duration, ...).
// Style is the engine's primary mutation mechanism - it models the inline
// style attribute and is written by effect handlers and the fallback
// manager. Classes model the class attribute.
type Element struct {
	Tag string

	attrs   map[string]string
	style   map[string]string
	classes []string

	// Text is the element's own text content (direct text children,
	// concatenated). Counters and text effects read and rewrite it.
	Text string

	Parent   *Element
	children []*Element
}

// NewElement creates a detached element with the given tag.
func NewElement(tag string) *Element {
	return &Element{
		Tag:   tag,
		attrs: make(map[string]string),
		style: make(map[string]string),
	}
}

// Attr returns the attribute value and whether it was present.
func (e *Element) Attr(name string) (string, bool) {
	v, ok := e.attrs[name]
	return v, ok
}

// AttrOr returns the attribute value, or fallback if absent.
func (e *Element) AttrOr(name, fallback string) string {
	if v, ok := e.attrs[name]; ok {
		return v
	}
	return fallback
}

// SetAttr sets an attribute value.
func (e *Element) SetAttr(name, value string) {
	if e.attrs == nil {
		e.attrs = make(map[string]string)
	}
	e.attrs[name] = value
}

// HasAttr reports whether the attribute is present (even if empty).
func (e *Element) HasAttr(name string) bool {
	_, ok := e.attrs[name]
	return ok
}

// Style returns the inline style value for a property ("" if unset).
func (e *Element) Style(prop string) string {
	return e.style[prop]
}

// SetStyle sets an inline style property.
func (e *Element) SetStyle(prop, value string) {
	if e.style == nil {
		e.style = make(map[string]string)
	}
	e.style[prop] = value
}

// StyleProps returns the set inline style property names, sorted.
// Used by the harness to snapshot final visual state deterministically.
func (e *Element) StyleProps() []string {
	props := make([]string, 0, len(e.style))
	for p := range e.style {
		props = append(props, p)
	}
	sort.Strings(props)
	return props
}

// AddClass appends a class if not already present.
func (e *Element) AddClass(name string) {
	if e.HasClass(name) {
		return
	}
	e.classes = append(e.classes, name)
}

// RemoveClass removes a class if present.
func (e *Element) RemoveClass(name string) {
	for i, c := range e.classes {
		if c == name {
			e.classes = append(e.classes[:i], e.classes[i+1:]...)
			return
		}
	}
}

// HasClass reports whether the class is present.
func (e *Element) HasClass(name string) bool {
	for _, c := range e.classes {
		if c == name {
			return true
		}
	}
	return false
}

// Classes returns a copy of the class list in insertion order.
func (e *Element) Classes() []string {
	out := make([]string, len(e.classes))
	copy(out, e.classes)
	return out
}

// Children returns the element's children in document order.
// The returned slice is a copy; appending to it does not mutate the tree.
func (e *Element) Children() []*Element {
	out := make([]*Element, len(e.children))
	copy(out, e.children)
	return out
}

// ChildCount returns the number of children without copying.
func (e *Element) ChildCount() int {
	return len(e.children)
}

// AppendChild attaches a child at the end. Handler-owned helper nodes
// (overlays, marquee strips, particle canvases) are inserted this way.
func (e *Element) AppendChild(child *Element) {
	child.Parent = e
	e.children = append(e.children, child)
}

// TextContent returns the element's own text plus all descendant text,
// in document order.
func (e *Element) TextContent() string {
	var b strings.Builder
	e.collectText(&b)
	return b.String()
}

func (e *Element) collectText(b *strings.Builder) {
	b.WriteString(e.Text)
	for _, c := range e.children {
		c.collectText(b)
	}
}

// Document is the root of a parsed page.
type Document struct {
	Root *Element
}

// NewDocument creates a document with an empty root element.
func NewDocument() *Document {
	return &Document{Root: NewElement("html")}
}

// Walk visits every element in document order (depth-first, pre-order).
// Returning false from fn stops the walk.
func (d *Document) Walk(fn func(*Element) bool) {
	if d.Root == nil {
		return
	}
	walk(d.Root, fn)
}

func walk(e *Element, fn func(*Element) bool) bool {
	if !fn(e) {
		return false
	}
	for _, c := range e.children {
		if !walk(c, fn) {
			return false
		}
	}
	return true
}

// ElementsWithAttr returns all elements carrying the attribute,
// in document order.
func (d *Document) ElementsWithAttr(name string) []*Element {
	var out []*Element
	d.Walk(func(e *Element) bool {
		if e.HasAttr(name) {
			out = append(out, e)
		}
		return true
	})
	return out
}

// ElementsByTag returns all elements with the given tag, in document order.
func (d *Document) ElementsByTag(tag string) []*Element {
	var out []*Element
	d.Walk(func(e *Element) bool {
		if e.Tag == tag {
			out = append(out, e)
		}
		return true
	})
	return out
}

// FirstWithAttr returns the first element carrying the attribute, or nil.
func (d *Document) FirstWithAttr(name string) *Element {
	var found *Element
	d.Walk(func(e *Element) bool {
		if e.HasAttr(name) {
			found = e
			return false
		}
		return true
	})
	return found
}

// Rect is an element's position in page coordinates.
// Top is measured from the top of the page, not the viewport.
type Rect struct {
	Top    float64
	Left   float64
	Width  float64
	Height float64
}

// Bottom returns Top + Height.
func (r Rect) Bottom() float64 { return r.Top + r.Height }

// Layout supplies element geometry. The engine never measures anything
// itself; the host (or a test scenario) decides where elements sit.
type Layout interface {
	Rect(el *Element) Rect
}

// FlowLayout is the default layout: elements are stacked in document order,
// one block per element. Good enough for CLI simulation of a generated
// page; tests that care about exact geometry use an explicit map.
type FlowLayout struct {
	BlockHeight float64
	PageWidth   float64

	order map[*Element]int
}

// NewFlowLayout builds a flow layout over the document's marked elements.
func NewFlowLayout(doc *Document, markerAttr string, blockHeight, pageWidth float64) *FlowLayout {
	fl := &FlowLayout{
		BlockHeight: blockHeight,
		PageWidth:   pageWidth,
		order:       make(map[*Element]int),
	}
	for i, el := range doc.ElementsWithAttr(markerAttr) {
		fl.order[el] = i
	}
	return fl
}

// Rect implements Layout. Unmarked elements inherit their nearest marked
// ancestor's rect, or sit at the top of the page.
func (fl *FlowLayout) Rect(el *Element) Rect {
	for e := el; e != nil; e = e.Parent {
		if i, ok := fl.order[e]; ok {
			return Rect{
				Top:    float64(i) * fl.BlockHeight,
				Left:   0,
				Width:  fl.PageWidth,
				Height: fl.BlockHeight,
			}
		}
	}
	return Rect{Width: fl.PageWidth, Height: fl.BlockHeight}
}

// MapLayout is an explicit element→rect table for tests and scenarios.
type MapLayout struct {
	Rects   map[*Element]Rect
	Default Rect
}

// Rect implements Layout.
func (ml *MapLayout) Rect(el *Element) Rect {
	if r, ok := ml.Rects[el]; ok {
		return r
	}
	return ml.Default
}
