package engine

import (
	"fmt"
	"strings"

	"github.com/pageforge/flourish/internal/dom"
	"github.com/pageforge/flourish/internal/input"
	"github.com/pageforge/flourish/internal/trace"
)

// Ambient behaviors are page-level niceties outside the effect registry:
// the auto-hiding navbar, the cursor glow helper, the mobile menu toggle,
// and smooth anchor scrolling. They install during setup, after directive
// registration, and only in a full (non-embedded, motion-allowed) context.

const (
	// NavbarAttr marks the element that hides on downward scroll.
	NavbarAttr = "data-navbar"
	// MenuToggleAttr marks mobile menu toggle buttons.
	MenuToggleAttr = "data-menu-toggle"
	// MenuAttr marks the mobile menu panel.
	MenuAttr = "data-menu"
	// AnchorAttr carries an in-page anchor target ("#pricing").
	AnchorAttr = "data-anchor"

	// NavbarHiddenClass is toggled on the navbar element.
	NavbarHiddenClass = "nav-hidden"
	// MenuOpenClass is toggled on the menu panel.
	MenuOpenClass = "menu-open"
	// CursorGlowClass names the pointer-following helper element.
	CursorGlowClass = "fx-cursor-glow"

	// navbarThreshold is how far down the page the hide behavior starts;
	// near the top the navbar always shows.
	navbarThreshold = 100.0
)

// installAmbient wires the page-level behaviors. Callers guarantee a full
// context: bus and coord exist, the profile allows motion.
func (e *Engine) installAmbient() {
	e.installNavbar()
	e.installCursorGlow()
	e.installMobileMenu()
	e.installAnchors()
}

func (e *Engine) installNavbar() {
	nav := e.doc.FirstWithAttr(NavbarAttr)
	if nav == nil {
		return
	}
	e.navbarEl = nav
	e.navLast = 0
	e.record(trace.KindAmbient, "", nav, "navbar installed")
}

// updateNavbar hides the navbar on downward scroll past the threshold and
// shows it again on any upward scroll. Driven from raw scroll intent, not
// the smoothed position, so it reacts immediately.
func (e *Engine) updateNavbar(pos float64) {
	if e.navbarEl == nil {
		return
	}
	switch {
	case pos <= navbarThreshold || pos < e.navLast:
		if e.navbarEl.HasClass(NavbarHiddenClass) {
			e.navbarEl.RemoveClass(NavbarHiddenClass)
			e.record(trace.KindAmbient, "", e.navbarEl, "navbar shown")
		}
	case pos > e.navLast:
		if !e.navbarEl.HasClass(NavbarHiddenClass) {
			e.navbarEl.AddClass(NavbarHiddenClass)
			e.record(trace.KindAmbient, "", e.navbarEl, "navbar hidden")
		}
	}
	e.navLast = pos
}

// installCursorGlow appends a pointer-following helper element to the root.
// Skipped on low-power profiles: touch devices have no hover pointer and
// the per-move style writes are pure cost there.
func (e *Engine) installCursorGlow() {
	if e.profile.IsLowPower {
		return
	}
	glow := dom.NewElement("div")
	glow.AddClass(CursorGlowClass)
	glow.SetStyle("opacity", "0")
	e.doc.Root.AppendChild(glow)

	e.bus.OnMove(func(ev input.Event) {
		glow.SetStyle("left", fmt.Sprintf("%.1fpx", ev.X))
		glow.SetStyle("top", fmt.Sprintf("%.1fpx", ev.Y))
		glow.SetStyle("opacity", "1")
	})
	e.record(trace.KindAmbient, "", glow, "cursor glow installed")
}

func (e *Engine) installMobileMenu() {
	menu := e.doc.FirstWithAttr(MenuAttr)
	toggles := e.doc.ElementsWithAttr(MenuToggleAttr)
	if menu == nil || len(toggles) == 0 {
		return
	}
	for _, t := range toggles {
		toggle := t
		e.bus.OnClick(func(ev input.Event) {
			if ev.Target != toggle {
				return
			}
			if menu.HasClass(MenuOpenClass) {
				menu.RemoveClass(MenuOpenClass)
				e.record(trace.KindAmbient, "", menu, "menu closed")
			} else {
				menu.AddClass(MenuOpenClass)
				e.record(trace.KindAmbient, "", menu, "menu opened")
			}
		})
	}
	e.record(trace.KindAmbient, "", menu, "mobile menu installed")
}

// installAnchors routes clicks on in-page anchor links through the smooth
// scroll layer. Links are matched by href="#id" or an explicit data-anchor
// attribute; the target is the element whose id matches.
func (e *Engine) installAnchors() {
	for _, a := range e.doc.ElementsByTag("a") {
		target := anchorTarget(a)
		if target == "" {
			continue
		}
		link, id := a, target
		e.bus.OnClick(func(ev input.Event) {
			if ev.Target != link {
				return
			}
			dest := e.elementByID(id)
			if dest == nil {
				return
			}
			top := e.layout.Rect(dest).Top
			if e.smooth != nil {
				e.smooth.Intent(top)
			} else {
				e.coord.Scroll(top)
			}
			e.record(trace.KindAmbient, "", dest, fmt.Sprintf("anchor scroll to %.0f", top))
		})
	}
}

func anchorTarget(a *dom.Element) string {
	if v, ok := a.Attr(AnchorAttr); ok {
		return strings.TrimPrefix(strings.TrimSpace(v), "#")
	}
	href := a.AttrOr("href", "")
	if strings.HasPrefix(href, "#") && len(href) > 1 {
		return href[1:]
	}
	return ""
}

func (e *Engine) elementByID(id string) *dom.Element {
	var found *dom.Element
	e.doc.Walk(func(el *dom.Element) bool {
		if el.AttrOr("id", "") == id {
			found = el
			return false
		}
		return true
	})
	return found
}
