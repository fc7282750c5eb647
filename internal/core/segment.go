package core

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mikey/email-munger/internal/utils"
)

const (
	// labelPrefixRunes is how much of a line is inspected for a From or Sent label.
	labelPrefixRunes = 6
	// sentWindow is how many lines after a From line may hold the Sent line.
	sentWindow = 4
	// threadWindowStart and threadWindowEnd bound the lines after a boundary
	// searched for forward or reply markers.
	threadWindowStart = 2
	threadWindowEnd   = 4
)

var (
	fromSpellings   = []string{"from", "prom"}
	sentSpellings   = []string{"sent", "date"}
	forwardMarkers  = []string{"fw:", "pin:", "fwd"}
	replyMarkers    = []string{"re:"}
	threadMarkerSet = append(append([]string{}, forwardMarkers...), replyMarkers...)
)

// IssueKind classifies a structural problem found while segmenting.
type IssueKind int

const (
	// IssueNoBoundary means the document has lines but no From/Sent pair.
	IssueNoBoundary IssueKind = iota
	// IssueSentPastEnd means a From line sat too close to the end for its Sent lookahead.
	IssueSentPastEnd
	// IssueThreadPastEnd means the forward/reply lookahead was cut by the end of the document.
	IssueThreadPastEnd
)

func (k IssueKind) String() string {
	switch k {
	case IssueNoBoundary:
		return "no message boundary"
	case IssueSentPastEnd:
		return "sent lookahead past end of document"
	case IssueThreadPastEnd:
		return "thread lookahead past end of document"
	default:
		return "unknown"
	}
}

// SegmentIssue records where segmentation hit a structural problem.
type SegmentIssue struct {
	Kind IssueKind
	Line int
}

// Segmentation is the Segmenter's output for one document.
type Segmentation struct {
	Blocks [][]string
	Issues []SegmentIssue
}

// NeedsReview reports whether segmentation found any structural problem.
func (s *Segmentation) NeedsReview() bool {
	return len(s.Issues) > 0
}

// lookahead is the outcome of scanning a bounded window after a line.
type lookahead int

const (
	lookaheadNotFound lookahead = iota
	lookaheadFound
	lookaheadPastEnd
)

// Segmenter splits a document's lines into per-message blocks
type Segmenter struct {
	useThreads bool
}

// NewSegmenter creates a new Segmenter. With useThreads a block whose
// header carries a forward or reply marker runs to the end of the document.
func NewSegmenter(useThreads bool) *Segmenter {
	return &Segmenter{useThreads: useThreads}
}

// Split returns the message blocks of lines in document order. It never
// fails; structural problems are reported in Segmentation.Issues.
func (s *Segmenter) Split(lines []string) *Segmentation {
	seg := &Segmentation{}
	boundaries := s.boundaries(lines, seg)

	if len(boundaries) == 0 {
		if hasContent(lines) {
			seg.Issues = append(seg.Issues, SegmentIssue{Kind: IssueNoBoundary})
		}
		return seg
	}

	for n, start := range boundaries {
		end := len(lines)
		if n+1 < len(boundaries) {
			end = boundaries[n+1]
		}

		if s.useThreads {
			switch scanThreadMarkers(lines, start) {
			case lookaheadFound:
				end = len(lines)
			case lookaheadPastEnd:
				seg.Issues = append(seg.Issues, SegmentIssue{Kind: IssueThreadPastEnd, Line: start})
			}
		}

		block := make([]string, 0, end-start)
		for _, line := range lines[start:end] {
			block = append(block, utils.CollapseSpaces(line))
		}
		if len(block) > 0 {
			seg.Blocks = append(seg.Blocks, block)
		}
	}

	return seg
}

// boundaries returns the indexes of lines that open a message: a From label
// followed within sentWindow lines by a Sent label.
func (s *Segmenter) boundaries(lines []string, seg *Segmentation) []int {
	var found []int
	for i := 0; i < len(lines)-1; i++ {
		if !hasLabel(lines[i], fromSpellings) {
			continue
		}
		switch scanSent(lines, i) {
		case lookaheadFound:
			found = append(found, i)
		case lookaheadPastEnd:
			seg.Issues = append(seg.Issues, SegmentIssue{Kind: IssueSentPastEnd, Line: i})
		}
	}
	return found
}

func scanSent(lines []string, from int) lookahead {
	for x := 1; x <= sentWindow; x++ {
		if from+x >= len(lines) {
			return lookaheadPastEnd
		}
		if hasLabel(lines[from+x], sentSpellings) {
			return lookaheadFound
		}
	}
	return lookaheadNotFound
}

func scanThreadMarkers(lines []string, start int) lookahead {
	for x := threadWindowStart; x <= threadWindowEnd; x++ {
		if start+x >= len(lines) {
			return lookaheadPastEnd
		}
		if hasMarker(lines[start+x], threadMarkerSet) {
			return lookaheadFound
		}
	}
	return lookaheadNotFound
}

// hasLabel reports whether one of spellings occurs in the first few runes of line.
func hasLabel(line string, spellings []string) bool {
	prefix := []rune(line)
	if len(prefix) > labelPrefixRunes {
		prefix = prefix[:labelPrefixRunes]
	}
	head := strings.ToLower(string(prefix))
	for _, sp := range spellings {
		if strings.Contains(head, sp) {
			return true
		}
	}
	return false
}

// hasMarker reports whether one of markers starts a word in line, so "RE:"
// matches but the tail of "before:" does not.
func hasMarker(line string, markers []string) bool {
	lower := strings.ToLower(line)
	for _, m := range markers {
		for off := 0; off < len(lower); {
			idx := strings.Index(lower[off:], m)
			if idx < 0 {
				break
			}
			at := off + idx
			if prev, _ := utf8.DecodeLastRuneInString(lower[:at]); at == 0 || !isWordRune(prev) {
				return true
			}
			off = at + 1
		}
	}
	return false
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func hasContent(lines []string) bool {
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			return true
		}
	}
	return false
}
