package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestIdentityParser() *IdentityParser {
	s := DefaultSettings()
	return NewIdentityParser(s.Sentinel, s.RedactionCutoff)
}

func TestIdentityParser_Parse(t *testing.T) {
	p := newTestIdentityParser()

	tests := []struct {
		raw     string
		first   string
		middle  string
		last    string
		address string
		render  string
	}{
		{"Smith, John Q <jsmith@example.com>", "John", "Q", "Smith", "jsmith@example.com", "Smith, John Q <jsmith@example.com>"},
		{"John Smith jsmith@example.com.", "John", "", "Smith", "jsmith@example.com", "Smith, John <jsmith@example.com>"},
		{"smith, JOHN quincy", "John", "Q", "Smith", "", "Smith, John Q"},
		{"John Quincy Smith", "John", "Q", "Smith", "", "Smith, John Q"},
		{"Cher", "Cher", "", "", "", "Cher"},
		{"rroe@example.com", "", "", "", "rroe@example.com", "<rroe@example.com>"},
		{"Rick Roe ‹rroe©example.com›", "Rick", "", "Roe", "rroe@example.com", "Roe, Rick <rroe@example.com>"},
		{"Roe, Rick <rroe@example.com.>", "Rick", "", "Roe", "rroe@example.com", "Roe, Rick <rroe@example.com>"},
		{"Smith,John", "John", "", "Smith", "", "Smith, John"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			c := p.Parse(tt.raw)

			assert.Equal(t, tt.raw, c.Raw())
			assert.Equal(t, tt.first, c.Name().First())
			assert.Equal(t, tt.middle, c.Name().Middle())
			assert.Equal(t, tt.last, c.Name().Last())
			assert.Equal(t, tt.address, c.EmailAddress().Whole())
			assert.Equal(t, tt.address != "", c.HasEmailAddress())
			assert.Equal(t, tt.render, c.String())
			assert.False(t, c.IsMangled())
			assert.False(t, c.IsRedacted())
		})
	}
}

func TestIdentityParser_Redaction(t *testing.T) {
	p := newTestIdentityParser()

	t.Run("fully redacted", func(t *testing.T) {
		c := p.Parse(DefaultSentinel)

		assert.True(t, c.Name().IsRedacted())
		assert.True(t, c.EmailAddress().IsRedacted())
		assert.True(t, c.IsRedacted())
		assert.False(t, c.HasName())
		assert.Equal(t, 0, c.ContentLength())
		assert.Empty(t, c.String())
	})

	t.Run("address redacted", func(t *testing.T) {
		c := p.Parse("Rick Roe " + DefaultSentinel)

		assert.False(t, c.Name().IsRedacted())
		assert.True(t, c.EmailAddress().IsRedacted())
		assert.False(t, c.IsRedacted())
		assert.Equal(t, "Rick Roe", c.Name().FullName(FirstMiddleLast))
		assert.Equal(t, 9, c.ContentLength())
	})

	t.Run("name redacted next to an address", func(t *testing.T) {
		c := p.Parse(DefaultSentinel + " <rroe@example.com>")

		assert.False(t, c.IsRedacted())
		assert.False(t, c.HasName())
		assert.Equal(t, "rroe@example.com", c.EmailAddress().Whole())
	})

	t.Run("empty sentinel disables redaction", func(t *testing.T) {
		c := NewIdentityParser("", 90).Parse(DefaultSentinel)

		assert.False(t, c.Name().IsRedacted())
		assert.False(t, c.EmailAddress().IsRedacted())
	})
}

func TestContact_IsMangled(t *testing.T) {
	p := newTestIdentityParser()

	tests := []struct {
		raw  string
		want bool
	}{
		{"a@x.com; b@y.com", true},
		{"Doe, Jane <jane.doe@example.com", true},
		{"A@X.com <a@x.com>", false},
		{"Doe, Jane <jane.doe@example.com>", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Parse(tt.raw).IsMangled())
		})
	}
}

func TestContact_Sanitize(t *testing.T) {
	c := newTestIdentityParser().Parse("Jöhn Smïth <jsmith@example.com>")

	assert.True(t, c.Sanitize())
	assert.Equal(t, "Smith, John <jsmith@example.com>", c.String())

	raw := c.WithSanitize(false)
	assert.Equal(t, "Smïth, Jöhn <jsmith@example.com>", raw.String())
	assert.True(t, c.Sanitize(), "WithSanitize must not modify the receiver")
}

func TestContact_EmptyAndLength(t *testing.T) {
	p := newTestIdentityParser()

	assert.True(t, p.Parse("   ").IsEmpty())
	assert.False(t, p.Parse("x").IsEmpty())
	assert.Equal(t, 4, p.Parse("Jöhn").ContentLength())
}

func TestName_FullNameAndSimilarity(t *testing.T) {
	p := newTestIdentityParser()
	a := p.Parse("Smith, John Q").Name()
	b := p.Parse("John Smith").Name()

	assert.Equal(t, "John Q Smith", a.FullName(FirstMiddleLast))
	assert.Equal(t, "Smith, John Q", a.FullName(LastFirstMiddle))
	assert.Equal(t, 91, a.Similarity(b))
	assert.Equal(t, 0, p.Parse("x@y.com").Name().Similarity(p.Parse("x@y.com").Name()))
}

func TestEmailAddress_Similarity(t *testing.T) {
	p := newTestIdentityParser()
	a := p.Parse("jsmith@example.com").EmailAddress()

	assert.InDelta(t, 100.0, a.Similarity(p.Parse("<jsmith@example.com>").EmailAddress()), 0.001)
	assert.InDelta(t, 91.5, a.Similarity(p.Parse("jsmyth@example.com").EmailAddress()), 0.001)
	assert.Zero(t, a.Similarity(p.Parse("John Smith").EmailAddress()))
	assert.Zero(t, a.Similarity(p.Parse("@example.com").EmailAddress()))
}
