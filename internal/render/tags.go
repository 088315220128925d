package render

import "golang.org/x/net/html/atom"

// preserved lists inline tags emitted verbatim (without attributes, except a[href]).
var preserved = map[atom.Atom]bool{
	atom.A:      true,
	atom.B:      true,
	atom.I:      true,
	atom.U:      true,
	atom.S:      true,
	atom.Em:     true,
	atom.Strong: true,
	atom.Code:   true,
	atom.Sup:    true,
	atom.Sub:    true,
	atom.Del:    true,
	atom.Ins:    true,
	atom.Strike: true,
	atom.Small:  true,
	atom.Big:    true,
	atom.Kbd:    true,
	atom.Var:    true,
	atom.Q:      true,
}

// substituted maps structural tags to the inline tag that stands in for them.
var substituted = map[atom.Atom]atom.Atom{
	atom.Dt:      atom.B,
	atom.Th:      atom.B,
	atom.Caption: atom.B,
}

// dropped elements contribute nothing, not even text.
var dropped = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Template: true,
}

// keepsWrapper lists elements never collapsed into a bare line break.
var keepsWrapper = map[atom.Atom]bool{
	atom.Html:    true,
	atom.Head:    true,
	atom.Body:    true,
	atom.Section: true,
}
