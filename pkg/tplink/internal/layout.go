package internal

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Layout identifies how a statistics page embeds its port data
type Layout int

const (
	// LayoutSimple is a single script block placed before <head> that holds
	// max_port_num and the all_info object (TL-SG108E, TL-SG1016DE)
	LayoutSimple Layout = iota
	// LayoutConvoluted keeps max_port_num in a head script and the port data
	// interleaved in two body string variables (TL-SG1024DE)
	LayoutConvoluted
)

func (l Layout) String() string {
	switch l {
	case LayoutSimple:
		return "simple"
	case LayoutConvoluted:
		return "convoluted"
	default:
		return "unknown"
	}
}

// DetectLayout reports LayoutConvoluted when the first <script> of the page
// sits inside an explicit <head> element.
//
// This walks raw tokens instead of a parsed tree: an HTML5 tree builder moves a
// script that precedes <head> into an implied head, which would make both
// layouts look the same.
func DetectLayout(markup string) Layout {
	z := html.NewTokenizer(strings.NewReader(markup))
	inHead := false

	for {
		switch z.Next() {
		case html.ErrorToken:
			return LayoutSimple
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			switch atom.Lookup(name) {
			case atom.Head:
				inHead = true
			case atom.Script:
				if inHead {
					return LayoutConvoluted
				}
				return LayoutSimple
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if atom.Lookup(name) == atom.Head {
				inHead = false
			}
		}
	}
}
