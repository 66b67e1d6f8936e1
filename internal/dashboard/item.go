package dashboard

import (
	"github.com/spigell/talent-matcher/internal/scoring"
	"github.com/spigell/talent-matcher/internal/talent"
)

// PlaceholderScore is carried by catalog entries. It is never displayed.
const PlaceholderScore = 0.0

// Item is one row of the resume list. It is either a CatalogEntry or a
// ScoredMatch; use a type switch to tell them apart.
type Item interface {
	ResumeID() int
	Title() string
	File() FileRef
	item()
}

// FileRef is everything needed to download the file behind an item.
type FileRef struct {
	URL      string
	Filename string
}

// CatalogEntry is a resume shown while browsing without a match run.
type CatalogEntry struct {
	Resume talent.Resume
}

func (e CatalogEntry) ResumeID() int { return e.Resume.ID }
func (e CatalogEntry) Title() string { return e.Resume.Title }
func (e CatalogEntry) File() FileRef {
	return FileRef{URL: e.Resume.FileURL, Filename: e.Resume.Filename}
}
func (e CatalogEntry) Score() float64 { return PlaceholderScore }
func (CatalogEntry) item()            {}

// ScoredMatch is a quality match with its interpreted score.
type ScoredMatch struct {
	Candidate talent.MatchCandidate
	Score     scoring.Interpretation
}

func newScoredMatch(c talent.MatchCandidate) ScoredMatch {
	return ScoredMatch{Candidate: c, Score: scoring.Interpret(c.RelevanceScore)}
}

func (m ScoredMatch) ResumeID() int { return m.Candidate.ResumeID }
func (m ScoredMatch) Title() string { return m.Candidate.Title }
func (m ScoredMatch) File() FileRef {
	return FileRef{URL: m.Candidate.FileURL, Filename: m.Candidate.Filename}
}
func (ScoredMatch) item() {}
