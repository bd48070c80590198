package source

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// blockAtoms end a line of text when they close.
var blockAtoms = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Tr: true, atom.Li: true, atom.Pre: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Table: true, atom.Ul: true, atom.Ol: true, atom.Blockquote: true,
}

// skipAtoms never contribute visible text.
var skipAtoms = map[atom.Atom]bool{
	atom.Script: true, atom.Style: true, atom.Head: true, atom.Noscript: true, atom.Template: true,
}

// sourceBreaks folds markup line breaks, which a browser does not render.
var sourceBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// HTMLToText renders an HTML document roughly the way a browser's innerText
// would: line breaks at <br>, <hr> and block boundaries, entities decoded,
// scripts and styles dropped. Spaces inside text nodes are kept so chat
// lines keep their spacing; newlines in the markup only count inside <pre>.
func HTMLToText(doc string) (string, error) {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return "", err
	}
	var (
		b     strings.Builder
		inPre int
		walk  func(n *html.Node)
	)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if inPre > 0 {
				b.WriteString(n.Data)
			} else {
				b.WriteString(sourceBreaks.Replace(n.Data))
			}
			return
		case html.ElementNode:
			if skipAtoms[n.DataAtom] {
				return
			}
			if n.DataAtom == atom.Br || n.DataAtom == atom.Hr {
				b.WriteByte('\n')
				return
			}
		}
		pre := n.Type == html.ElementNode && n.DataAtom == atom.Pre
		if pre {
			inPre++
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if pre {
			inPre--
		}
		if n.Type == html.ElementNode && blockAtoms[n.DataAtom] {
			endLine(&b)
		}
	}
	walk(root)

	text := b.String()
	for strings.Contains(text, "\n\n\n") {
		text = strings.ReplaceAll(text, "\n\n\n", "\n\n")
	}
	return strings.Trim(text, "\n"), nil
}

func endLine(b *strings.Builder) {
	s := b.String()
	if len(s) > 0 && !strings.HasSuffix(s, "\n") {
		b.WriteByte('\n')
	}
}

// LooksLikeHTML reports whether data appears to be an HTML page rather than
// a plain-text log.
func LooksLikeHTML(data string) bool {
	head := strings.ToLower(strings.TrimSpace(data))
	if len(head) > 512 {
		head = head[:512]
	}
	return strings.HasPrefix(head, "<!doctype html") ||
		strings.HasPrefix(head, "<html") ||
		strings.Contains(head, "<body") ||
		strings.Contains(head, "<br")
}
