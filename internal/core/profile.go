package core

import (
	"strings"
	"unicode"

	"github.com/mikey/email-munger/internal/utils"
)

// Profile is a cluster of contacts believed to name one person. It always
// has at least one member, and its representative is rebuilt from the
// members whenever they change.
type Profile struct {
	members        []*Contact
	representative *Contact
	synth          *IdentityParser
	cutoff         int
}

// newProfile builds a profile over members, which must not be empty.
func newProfile(synth *IdentityParser, cutoff int, members ...*Contact) *Profile {
	p := &Profile{
		members: make([]*Contact, 0, len(members)),
		synth:   synth,
		cutoff:  cutoff,
	}
	p.members = append(p.members, members...)
	p.updateRepresentative()
	return p
}

// Members returns the member contacts in insertion order.
func (p *Profile) Members() []*Contact {
	out := make([]*Contact, len(p.members))
	copy(out, p.members)
	return out
}

// Len returns the number of members.
func (p *Profile) Len() int {
	return len(p.members)
}

// Representative returns the synthesized contact summarising the members.
func (p *Profile) Representative() *Contact {
	return p.representative
}

// Summary renders the representative and members as strings.
func (p *Profile) Summary() ProfileSummary {
	summary := ProfileSummary{Representative: p.representative.String()}
	for _, m := range p.members {
		summary.Members = append(summary.Members, m.String())
	}
	return summary
}

// Add appends c and rebuilds the representative.
func (p *Profile) Add(c *Contact) {
	p.members = append(p.members, c)
	p.updateRepresentative()
}

// Matches reports whether c's name or address resembles the representative
// closely enough to join this profile.
func (p *Profile) Matches(c *Contact) bool {
	_, ok := p.score(c)
	return ok
}

// Contains reports whether a member renders exactly like c.
func (p *Profile) Contains(c *Contact) bool {
	want := c.String()
	for _, m := range p.members {
		if m.String() == want {
			return true
		}
	}
	return false
}

// Dict maps the ASCII rendering of the representative to the ASCII
// renderings of the members.
func (p *Profile) Dict() map[string][]string {
	members := make([]string, len(p.members))
	for i, m := range p.members {
		members[i] = m.WithSanitize(true).String()
	}
	return map[string][]string{p.representative.WithSanitize(true).String(): members}
}

func (p *Profile) String() string {
	members := make([]string, len(p.members))
	for i, m := range p.members {
		members[i] = m.String()
	}
	return p.representative.String() + ": [" + strings.Join(members, "; ") + "]"
}

// score returns the stronger of the name and address similarities between
// the representative and c, and whether it clears the cutoff.
func (p *Profile) score(c *Contact) (float64, bool) {
	rep := p.representative
	name := float64(rep.Name().Similarity(c.Name()))
	addr := rep.EmailAddress().Similarity(c.EmailAddress())
	cutoff := float64(p.cutoff)
	return max(name, addr), name > cutoff || addr > cutoff
}

func (p *Profile) updateRepresentative() {
	p.representative = p.synth.Parse(synthesize(p.members))
}

// synthesize builds "First M Last user@domain" by a per-position majority
// vote over the members.
func synthesize(members []*Contact) string {
	parts := []func(*Contact) string{
		func(c *Contact) string { return c.Name().First() },
		func(c *Contact) string { return c.Name().Middle() },
		func(c *Contact) string { return c.Name().Last() },
	}

	var b strings.Builder
	for _, part := range parts {
		values := make([]string, len(members))
		for i, m := range members {
			values[i] = part(m)
		}
		b.WriteString(vote(values, isNameRune))
		b.WriteByte(' ')
	}

	var users, domains []string
	for _, m := range members {
		if m.HasEmailAddress() {
			users = append(users, m.EmailAddress().User())
			domains = append(domains, m.EmailAddress().Domain())
		}
	}
	if len(users) > 0 {
		b.WriteString(vote(users, anyRune))
		b.WriteByte('@')
		b.WriteString(vote(domains, anyRune))
	}

	return utils.CollapseSpaces(b.String())
}

// vote aligns values by rune position. At each position the first rune, in
// member order, that accept allows and that fills at least half of the slots
// is kept. Members too short for a position leave their slot empty.
func vote(values []string, accept func(rune) bool) string {
	aligned := make([][]rune, len(values))
	width := 0
	for i, v := range values {
		aligned[i] = []rune(v)
		width = max(width, len(aligned[i]))
	}

	var out []rune
	counts := make(map[rune]int)
	for pos := 0; pos < width; pos++ {
		clear(counts)
		for _, r := range aligned {
			if pos < len(r) {
				counts[r[pos]]++
			}
		}
		for _, r := range aligned {
			if pos >= len(r) {
				continue
			}
			ch := r[pos]
			if accept(ch) && 2*counts[ch] >= len(aligned) {
				out = append(out, ch)
				break
			}
		}
	}
	return string(out)
}

func isNameRune(r rune) bool {
	return unicode.IsLetter(r) || r == '-'
}

func anyRune(rune) bool {
	return true
}
