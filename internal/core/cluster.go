package core

import (
	"fmt"

	"go.uber.org/zap"
)

// MergeStrategy selects how the merge pass picks profiles to combine.
type MergeStrategy string

const (
	// StrategyBestFirst merges the single best-scoring pair per pass.
	StrategyBestFirst MergeStrategy = "best_first"
	// StrategyUnionFind merges every matching pair of a pass at once.
	StrategyUnionFind MergeStrategy = "union_find"
)

// ParseMergeStrategy validates a configured strategy name.
func ParseMergeStrategy(name string) (MergeStrategy, error) {
	switch s := MergeStrategy(name); s {
	case StrategyBestFirst, StrategyUnionFind:
		return s, nil
	case "":
		return StrategyBestFirst, nil
	default:
		return "", fmt.Errorf("unsupported merge strategy: %s", name)
	}
}

// PassFunc is called after every merge pass that changed the profile set.
type PassFunc func(pass int, profiles []*Profile)

// Clusterer resolves contacts into profiles. It owns its profile set and
// is not safe for concurrent use.
type Clusterer struct {
	strategy  MergeStrategy
	cutoff    int
	maxLength int
	synth     *IdentityParser
	logger    *zap.Logger
	profiles  []*Profile
	passes    int
	onPass    PassFunc
}

// NewClusterer creates a new Clusterer
func NewClusterer(settings Settings, strategy MergeStrategy, logger *zap.Logger) *Clusterer {
	return &Clusterer{
		strategy:  strategy,
		cutoff:    settings.MergeCutoff,
		maxLength: settings.MaxContactLength,
		// Representatives are synthesized from parsed parts and never hold the sentinel.
		synth:  NewIdentityParser("", settings.RedactionCutoff),
		logger: logger,
	}
}

// OnPass registers fn to observe merge progress.
func (c *Clusterer) OnPass(fn PassFunc) {
	c.onPass = fn
}

// Profiles returns the current profiles in order.
func (c *Clusterer) Profiles() []*Profile {
	out := make([]*Profile, len(c.profiles))
	copy(out, c.profiles)
	return out
}

// Passes returns the number of merge passes that changed the profile set.
func (c *Clusterer) Passes() int {
	return c.passes
}

// Skips reports whether contact is unusable for clustering: fully redacted,
// blank, or long enough to be a captured sentence.
func (c *Clusterer) Skips(contact *Contact) bool {
	return contact.IsRedacted() || contact.IsEmpty() || contact.ContentLength() > c.maxLength
}

// Add places contact in the first profile whose representative matches it,
// or starts a new profile. It reports false when the contact is skipped.
func (c *Clusterer) Add(contact *Contact) bool {
	if c.Skips(contact) {
		return false
	}
	if p := c.Lookup(contact); p != nil {
		p.Add(contact)
		return true
	}
	c.profiles = append(c.profiles, newProfile(c.synth, c.cutoff, contact))
	return true
}

// AddAll adds contacts in order and returns how many were kept.
func (c *Clusterer) AddAll(contacts []*Contact) int {
	kept := 0
	for _, contact := range contacts {
		if c.Add(contact) {
			kept++
		}
	}
	c.logger.Debug("Created initial profiles",
		zap.Int("contacts", len(contacts)),
		zap.Int("kept", kept),
		zap.Int("profiles", len(c.profiles)))
	return kept
}

// Lookup returns the first profile whose representative matches contact, or nil.
func (c *Clusterer) Lookup(contact *Contact) *Profile {
	for _, p := range c.profiles {
		if p.Matches(contact) {
			return p
		}
	}
	return nil
}

// Merge combines matching profiles until a pass finds nothing to merge and
// returns the number of profiles absorbed. Calling it again afterwards is a no-op.
func (c *Clusterer) Merge() int {
	before := len(c.profiles)
	for {
		var merged bool
		switch c.strategy {
		case StrategyUnionFind:
			merged = c.unionFindPass()
		default:
			merged = c.bestFirstPass()
		}
		if !merged {
			break
		}
		c.passes++
		if c.onPass != nil {
			c.onPass(c.passes, c.Profiles())
		}
	}

	absorbed := before - len(c.profiles)
	c.logger.Info("Merged profiles",
		zap.String("strategy", string(c.strategy)),
		zap.Int("before", before),
		zap.Int("after", len(c.profiles)),
		zap.Int("passes", c.passes))
	return absorbed
}

// Build adds contacts and merges to a fixpoint.
func (c *Clusterer) Build(contacts []*Contact) []*Profile {
	c.AddAll(contacts)
	c.Merge()
	return c.Profiles()
}

// bestFirstPass merges the pair with the highest score. Pairs are visited
// with i < j and ties go to the earliest pair, so the result depends only on
// the profile order. The merged profile takes the slot of the first one.
func (c *Clusterer) bestFirstPass() bool {
	bi, bj, best := -1, -1, -1.0
	for i := 0; i < len(c.profiles); i++ {
		for j := i + 1; j < len(c.profiles); j++ {
			score, ok := c.profiles[i].score(c.profiles[j].representative)
			if ok && score > best {
				bi, bj, best = i, j, score
			}
		}
	}
	if bi < 0 {
		return false
	}

	a, b := c.profiles[bi], c.profiles[bj]
	merged := newProfile(c.synth, c.cutoff, append(a.Members(), b.members...)...)
	c.logger.Debug("Merging profiles",
		zap.String("into", a.representative.String()),
		zap.String("from", b.representative.String()),
		zap.Float64("score", best))

	c.profiles[bi] = merged
	c.profiles = append(c.profiles[:bj], c.profiles[bj+1:]...)
	return true
}

// unionFindPass joins every matching pair found against the representatives
// as they stood at the start of the pass. Each group is rebuilt at the slot
// of its lowest member, keeping members in profile order.
func (c *Clusterer) unionFindPass() bool {
	n := len(c.profiles)
	sets := newDisjointSet(n)
	joined := false
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if sets.find(i) == sets.find(j) {
				continue
			}
			if _, ok := c.profiles[i].score(c.profiles[j].representative); ok {
				sets.union(i, j)
				joined = true
			}
		}
	}
	if !joined {
		return false
	}

	groups := make(map[int][]*Contact, n)
	for i, p := range c.profiles {
		root := sets.find(i)
		groups[root] = append(groups[root], p.members...)
	}

	next := make([]*Profile, 0, len(groups))
	for i, p := range c.profiles {
		if sets.find(i) != i {
			continue
		}
		if len(groups[i]) == p.Len() {
			next = append(next, p)
			continue
		}
		next = append(next, newProfile(c.synth, c.cutoff, groups[i]...))
	}
	c.profiles = next
	return true
}

// disjointSet is a union-find forest whose roots are always the smallest index.
type disjointSet struct {
	parent []int
}

func newDisjointSet(n int) *disjointSet {
	ds := &disjointSet{parent: make([]int, n)}
	for i := range ds.parent {
		ds.parent[i] = i
	}
	return ds
}

func (ds *disjointSet) find(i int) int {
	for ds.parent[i] != i {
		ds.parent[i] = ds.parent[ds.parent[i]]
		i = ds.parent[i]
	}
	return i
}

func (ds *disjointSet) union(a, b int) {
	ra, rb := ds.find(a), ds.find(b)
	switch {
	case ra < rb:
		ds.parent[rb] = ra
	case rb < ra:
		ds.parent[ra] = rb
	}
}
