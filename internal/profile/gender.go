package profile

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Gender is a canonical gender value from a character profile.
type Gender string

const (
	GenderUnknown     Gender = ""
	GenderNone        Gender = "None"
	GenderFemale      Gender = "Female"
	GenderMale        Gender = "Male"
	GenderHerm        Gender = "Herm"
	GenderMaleHerm    Gender = "Male-Herm"
	GenderShemale     Gender = "Shemale"
	GenderCuntBoy     Gender = "Cunt-Boy"
	GenderTransgender Gender = "Transgender"
)

// Genders lists every canonical value.
var Genders = []Gender{
	GenderNone, GenderFemale, GenderMale, GenderHerm, GenderMaleHerm,
	GenderShemale, GenderCuntBoy, GenderTransgender,
}

// DefaultLinkColor is used for Male and for unknown genders.
const DefaultLinkColor = "#88b3ff"

var genderColors = map[Gender]string{
	GenderNone:        "#9aa0a6",
	GenderFemale:      "#ff66b3",
	GenderHerm:        "#5b2b8a",
	GenderMaleHerm:    "#1f4b99",
	GenderShemale:     "#b38bfa",
	GenderCuntBoy:     "#3fb950",
	GenderTransgender: "#ff9800",
}

// Color is the hex colour a renderer uses for a name of this gender.
func (g Gender) Color() string {
	if c, ok := genderColors[g]; ok {
		return c
	}
	return DefaultLinkColor
}

// Canonical maps raw text to a known gender, ignoring case and surrounding
// whitespace. Unknown values return GenderUnknown.
func Canonical(raw string) Gender {
	raw = strings.TrimSpace(raw)
	for _, g := range Genders {
		if strings.EqualFold(string(g), raw) {
			return g
		}
	}
	return GenderUnknown
}

var (
	labelPrefixRe = regexp.MustCompile(`^[^A-Za-z]*:`)
	tagLabelRe    = regexp.MustCompile(`(?i)<span[^>]*class=[^>]*taglabel[^>]*>\s*Gender\s*</span>\s*:\s*([^<]+)`)
	anyTagRe      = regexp.MustCompile(`<[^>]+>`)
	// Longer names first so "Male-Herm" is not read as "Male".
	plainGenderRe = regexp.MustCompile(`(?i)\bGender\b\s*:\s*(Male-Herm|Cunt-Boy|Transgender|Shemale|Female|Herm|Male|None)\b`)
)

// ParseGender extracts the gender from a profile page. It reads the
// "<span class="taglabel">Gender</span>: Value" pair from the parsed tree
// and falls back to pattern matching on the raw markup and on its text.
func ParseGender(page string) Gender {
	if g := genderFromTree(page); g != GenderUnknown {
		return g
	}
	if m := tagLabelRe.FindStringSubmatch(page); m != nil {
		if g := Canonical(m[1]); g != GenderUnknown {
			return g
		}
	}
	plain := anyTagRe.ReplaceAllString(page, " ")
	if m := plainGenderRe.FindStringSubmatch(plain); m != nil {
		return Canonical(m[1])
	}
	return GenderUnknown
}

func genderFromTree(page string) Gender {
	root, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return GenderUnknown
	}
	var found Gender
	var walk func(n *html.Node) bool
	walk = func(n *html.Node) bool {
		if isTagLabel(n) && strings.EqualFold(strings.TrimSpace(textOf(n)), "gender") {
			if g := Canonical(labelPrefixRe.ReplaceAllString(siblingText(n), "")); g != GenderUnknown {
				found = g
				return true
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}
	walk(root)
	return found
}

// siblingText collects the text after a label up to the next <br> or label.
func siblingText(label *html.Node) string {
	var b strings.Builder
	for n := label.NextSibling; n != nil; n = n.NextSibling {
		switch n.Type {
		case html.ElementNode:
			if n.DataAtom == atom.Br || isTagLabel(n) {
				return strings.TrimSpace(b.String())
			}
			b.WriteString(" ")
			b.WriteString(textOf(n))
		case html.TextNode:
			b.WriteString(n.Data)
		}
	}
	return strings.TrimSpace(b.String())
}

func isTagLabel(n *html.Node) bool {
	if n.Type != html.ElementNode || n.DataAtom != atom.Span {
		return false
	}
	for _, a := range n.Attr {
		if a.Key == "class" && hasClass(a.Val, "taglabel") {
			return true
		}
	}
	return false
}

func hasClass(attr, class string) bool {
	for _, c := range strings.Fields(attr) {
		if c == class {
			return true
		}
	}
	return false
}

func textOf(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(textOf(c))
	}
	return b.String()
}
