package core

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mikey/email-munger/internal/fuzzy"
	"github.com/mikey/email-munger/internal/utils"
)

var (
	addressPattern = regexp.MustCompile(`[\w.-]+@[\w.-]+`)
	bracketed      = regexp.MustCompile(`<.*?>`)
	mailtoOpen     = regexp.MustCompile(`\[mailto:.*?:`)
	mailtoEmpty    = regexp.MustCompile(`\[mailto:\]`)

	// ocrFixes maps look-alike glyphs that scanning introduces around addresses.
	ocrFixes = strings.NewReplacer("›", ">", "‹", "<", "©", "@")
)

// NameOrder selects how a Name is rendered
type NameOrder int

const (
	// FirstMiddleLast renders "John Q Smith".
	FirstMiddleLast NameOrder = iota
	// LastFirstMiddle renders "Smith, John Q".
	LastFirstMiddle
)

// Name is a person's name split into first name, middle initial and last name.
type Name struct {
	raw      string
	first    string
	middle   string
	last     string
	redacted bool
}

func (n Name) Raw() string { return n.raw }
func (n Name) First() string { return n.first }
func (n Name) Middle() string { return n.middle }
func (n Name) Last() string { return n.last }
func (n Name) IsRedacted() bool { return n.redacted }

// IsZero reports whether no name part was recovered.
func (n Name) IsZero() bool {
	return n.first == "" && n.middle == "" && n.last == ""
}

// FullName renders the name in the given order, skipping empty parts.
func (n Name) FullName(order NameOrder) string {
	given := joinNonEmpty(n.first, n.middle)
	if order == LastFirstMiddle && n.last != "" {
		if given == "" {
			return n.last
		}
		return n.last + ", " + given
	}
	return joinNonEmpty(given, n.last)
}

// Similarity is the token-order-insensitive ratio of the two names. Names
// with nothing recovered never resemble anything.
func (n Name) Similarity(other Name) int {
	a, b := n.FullName(FirstMiddleLast), other.FullName(FirstMiddleLast)
	if a == "" || b == "" {
		return 0
	}
	return fuzzy.TokenSortRatio(a, b)
}

// EmailAddress is an address split at the "@".
type EmailAddress struct {
	user     string
	domain   string
	found    bool
	redacted bool
}

func (a EmailAddress) User() string { return a.user }
func (a EmailAddress) Domain() string { return a.domain }
func (a EmailAddress) Found() bool { return a.found }
func (a EmailAddress) IsRedacted() bool { return a.redacted }

// Whole returns "user@domain", or "" when no address was found.
func (a EmailAddress) Whole() string {
	if !a.found {
		return ""
	}
	return a.user + "@" + a.domain
}

// Similarity averages the domain and user ratios. It is 0 unless both
// addresses have a user and a domain.
func (a EmailAddress) Similarity(other EmailAddress) float64 {
	if a.user == "" || a.domain == "" || other.user == "" || other.domain == "" {
		return 0
	}
	return float64(fuzzy.Ratio(a.domain, other.domain))/2 + float64(fuzzy.Ratio(a.user, other.user))/2
}

// Contact is one identity mention: the raw field text with its parsed Name and EmailAddress.
// Name and address are independent; either may be missing.
type Contact struct {
	raw       string
	sentinel  string
	name      Name
	address   EmailAddress
	addresses int
	namePart  string
	sanitize  bool
}

func (c *Contact) Raw() string { return c.raw }
func (c *Contact) Name() Name { return c.name }
func (c *Contact) EmailAddress() EmailAddress { return c.address }
func (c *Contact) HasEmailAddress() bool { return c.address.found }
func (c *Contact) Sanitize() bool { return c.sanitize }

// HasName reports whether a name was parsed rather than redacted or missing.
func (c *Contact) HasName() bool {
	return !c.name.redacted && !c.name.IsZero()
}

// IsRedacted reports whether both the name and the address were masked.
func (c *Contact) IsRedacted() bool {
	return c.name.redacted && c.address.redacted
}

// IsEmpty reports whether the raw text is blank.
func (c *Contact) IsEmpty() bool {
	return strings.TrimSpace(c.raw) == ""
}

// ContentLength counts the runes of the raw text once the sentinel is removed.
func (c *Contact) ContentLength() int {
	text := c.raw
	if c.sentinel != "" {
		text = strings.ReplaceAll(text, c.sentinel, "")
	}
	return utf8.RuneCountInString(text)
}

// IsMangled reports whether the name/address split is unreliable: several
// addresses in one field, an "@" left in the name part, or unbalanced angle brackets.
func (c *Contact) IsMangled() bool {
	if c.addresses > 1 {
		return true
	}
	if strings.Contains(c.namePart, "@") {
		return true
	}
	fixed := ocrFixes.Replace(c.raw)
	return strings.Count(fixed, "<") != strings.Count(fixed, ">")
}

// WithSanitize returns a copy of c whose String output is or is not folded to ASCII.
func (c *Contact) WithSanitize(sanitize bool) *Contact {
	cp := *c
	cp.sanitize = sanitize
	return &cp
}

// String renders "Last, First M <user@domain>".
func (c *Contact) String() string {
	out := c.name.FullName(LastFirstMiddle)
	if whole := c.address.Whole(); whole != "" {
		out = joinNonEmpty(out, "<"+whole+">")
	}
	if c.sanitize {
		out = utils.ASCII(out)
	}
	return out
}

// IdentityParser turns free-text From/To/CC values into Contacts
type IdentityParser struct {
	sentinel        string
	redactionCutoff int
}

// NewIdentityParser creates a new IdentityParser. An empty sentinel turns
// redaction detection off.
func NewIdentityParser(sentinel string, redactionCutoff int) *IdentityParser {
	return &IdentityParser{
		sentinel:        sentinel,
		redactionCutoff: redactionCutoff,
	}
}

// Sentinel returns the redaction sentinel the parser looks for.
func (p *IdentityParser) Sentinel() string {
	return p.sentinel
}

// Parse builds a Contact from raw. It never fails; what cannot be
// recognised is left missing or marked redacted.
func (p *IdentityParser) Parse(raw string) *Contact {
	c := &Contact{
		raw:      raw,
		sentinel: p.sentinel,
		sanitize: true,
	}
	text := ocrFixes.Replace(raw)

	matches := addressPattern.FindAllString(text, -1)
	c.addresses = countDistinct(matches)

	match := ""
	if len(matches) > 0 {
		match = matches[0]
		c.address = splitAddress(strings.TrimSpace(match))
	} else if p.sentinel != "" && strings.Contains(text, p.sentinel) {
		c.address.redacted = true
	}

	if p.sentinel != "" && fuzzy.Ratio(p.sentinel, text) > p.redactionCutoff {
		c.name.redacted = true
		return c
	}

	namePart := text
	if match != "" {
		namePart = strings.ReplaceAll(namePart, match, "")
	}
	namePart = bracketed.ReplaceAllString(namePart, "")
	namePart = mailtoOpen.ReplaceAllString(namePart, "")
	namePart = mailtoEmpty.ReplaceAllString(namePart, "")
	c.namePart = strings.TrimSpace(namePart)
	c.name = p.parseName(c.namePart)

	return c
}

// parseName reads "Last, First M" or "First M Last" forms.
func (p *IdentityParser) parseName(raw string) Name {
	n := Name{raw: raw}
	text := utils.CollapseSpaces(raw)
	if p.sentinel != "" {
		text = utils.CollapseSpaces(strings.ReplaceAll(text, p.sentinel, ""))
	}

	if last, given, ok := strings.Cut(text, ","); ok {
		n.last = capitalize(strings.TrimSpace(last))
		given, _, _ = strings.Cut(given, ",")
		tokens := strings.Fields(given)
		switch {
		case len(tokens) == 2:
			n.first = capitalize(tokens[0])
			n.middle = initial(tokens[1])
		case len(tokens) > 0:
			n.first = capitalize(tokens[0])
		}
		return n
	}

	tokens := strings.Fields(text)
	switch {
	case len(tokens) == 3:
		n.first = capitalize(tokens[0])
		n.middle = initial(tokens[1])
		n.last = capitalize(tokens[2])
	case len(tokens) == 2:
		n.first = capitalize(tokens[0])
		n.last = capitalize(tokens[1])
	case len(tokens) > 0:
		n.first = capitalize(tokens[0])
	}
	return n
}

func splitAddress(whole string) EmailAddress {
	user, domain, _ := strings.Cut(whole, "@")
	return EmailAddress{
		user:   user,
		domain: strings.TrimRight(domain, ".-"),
		found:  true,
	}
}

// capitalize upper-cases the first rune and lower-cases the rest.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

func initial(s string) string {
	if s == "" {
		return ""
	}
	r, _ := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r))
}

func countDistinct(values []string) int {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		seen[strings.ToLower(v)] = struct{}{}
	}
	return len(seen)
}

func joinNonEmpty(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}
