package dashboard

import (
	"fmt"
	"io"
	"strings"

	"github.com/spigell/talent-matcher/internal/filtering"
	"github.com/spigell/talent-matcher/internal/scoring"
	"github.com/spigell/talent-matcher/internal/talent"
	"github.com/spigell/talent-matcher/internal/utils"
)

const (
	excerptLength = 150
	dateLayout    = "Jan 2, 2006, 03:04 PM"
)

const (
	emptyCatalogTitle   = "No Resumes Yet"
	emptyCatalogMessage = "Upload your first resume to get started with AI-powered talent matching."
	emptyMatchesTitle   = "No Quality Matches Found"
	emptyMatchesMessage = "No resumes with good relevance scores were found. Try adjusting your job description to be more specific, or upload more diverse resumes to expand your talent pool."
	emptyMatchesTip     = "Tip: Only matches with negative scores (indicating good relevance) are shown. Positive scores indicate poor matches and are filtered out."
	processingNotice    = "Processing in Progress: some resumes are still being processed for AI search. They will appear in search results once processing is complete."
)

// view is a consistent copy of everything the list view shows.
type view struct {
	state     State
	matchMode bool
	summary   filtering.Summary
	items     []Item
	pending   bool
}

func (d *Dashboard) snapshot() view {
	d.mu.RLock()
	defer d.mu.RUnlock()

	v := view{
		state:     d.state(),
		matchMode: d.matches != nil,
		items:     d.items(),
		pending:   (&talent.Resumes{Items: d.catalog}).HasPending(),
	}
	if d.matches != nil {
		v.summary = d.matches.summary
	}
	return v
}

// Headline is the title of the resume list.
func (d *Dashboard) Headline() string {
	return d.snapshot().headline()
}

// SummaryLines describes shown and hidden matches. It is empty outside match mode.
func (d *Dashboard) SummaryLines() []string {
	return d.snapshot().summaryLines()
}

// EmptyState returns the title and message for the empty states.
func (d *Dashboard) EmptyState() (title, message string, ok bool) {
	return d.snapshot().emptyState()
}

// Render writes the resume list view.
func (d *Dashboard) Render(w io.Writer) error {
	v := d.snapshot()

	var b strings.Builder

	if lines := v.summaryLines(); len(lines) > 0 {
		for _, line := range lines {
			b.WriteString(line + "\n")
		}
		b.WriteString("\n")
	}

	switch v.state {
	case StateLoading:
		b.WriteString("Loading resumes...\n")
	case StateEmptyCatalog, StateEmptyMatches:
		title, message, _ := v.emptyState()
		b.WriteString(title + "\n" + message + "\n")
		if v.state == StateEmptyMatches {
			b.WriteString(emptyMatchesTip + "\n")
		}
	default:
		v.renderList(&b)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func (v view) headline() string {
	if v.matchMode {
		return fmt.Sprintf("Match Results (%d)", len(v.items))
	}
	return fmt.Sprintf("All Resumes (%d)", len(v.items))
}

func (v view) summaryLines() []string {
	if !v.matchMode {
		return nil
	}

	lines := []string{
		fmt.Sprintf("Showing %d quality matches from %d total results", v.summary.Shown, v.summary.TotalReceived),
		"Only showing matches with good relevance scores (negative values indicate better matches)",
	}
	if v.summary.Hidden > 0 {
		lines = append(lines, fmt.Sprintf("%d poor matches hidden (positive scores indicate weak relevance)", v.summary.Hidden))
	}
	return lines
}

func (v view) emptyState() (title, message string, ok bool) {
	switch v.state {
	case StateEmptyCatalog:
		return emptyCatalogTitle, emptyCatalogMessage, true
	case StateEmptyMatches:
		return emptyMatchesTitle, emptyMatchesMessage, true
	default:
		return "", "", false
	}
}

func (v view) renderList(b *strings.Builder) {
	b.WriteString(v.headline() + "\n")
	if v.matchMode {
		b.WriteString("AI-powered talent matching results, sorted by relevance score\n")
	} else {
		b.WriteString("Your talent database\n")
		if v.pending {
			b.WriteString(processingNotice + "\n")
		}
	}
	b.WriteString("\n")

	for i, it := range v.items {
		fmt.Fprintf(b, "%d. %s", i+1, it.Title())

		switch e := it.(type) {
		case ScoredMatch:
			fmt.Fprintf(b, " [%s]\n", e.Score.Badge())
			fmt.Fprintf(b, "   %s\n", e.Candidate.Filename)
			if who := joinNonEmpty(" • ", e.Candidate.UserName, e.Candidate.UserEmail); who != "" {
				fmt.Fprintf(b, "   %s\n", who)
			}
			if len(e.Candidate.MatchingChunks) > 0 {
				fmt.Fprintf(b, "   Key Match Found: %s\n", utils.Excerpt(e.Candidate.MatchingChunks[0].Content, excerptLength))
			}
		case CatalogEntry:
			b.WriteString("\n")
			line := fmt.Sprintf("   %s • %s • %d chunks", formatDate(e.Resume.CreatedAt), e.Resume.Filename, e.Resume.ChunksCount)
			if !e.Resume.Processed() {
				line += " (Processing for search...)"
			}
			b.WriteString(line + "\n")
		}
	}
}

// Detail writes every chunk of a scored match, as the match detail view.
func (d *Dashboard) Detail(w io.Writer, resumeID int) error {
	it, ok := d.FindItem(resumeID)
	if !ok {
		return fmt.Errorf("resume %d is not displayed", resumeID)
	}

	match, ok := it.(ScoredMatch)
	if !ok {
		return fmt.Errorf("resume %d has no match details", resumeID)
	}

	var b strings.Builder
	c := match.Candidate

	fmt.Fprintf(&b, "%s\n", c.Title)
	fmt.Fprintf(&b, "File: %s\n", c.Filename)
	if who := joinNonEmpty(" • ", c.UserName, c.UserEmail); who != "" {
		fmt.Fprintf(&b, "Candidate: %s\n", who)
	}
	fmt.Fprintf(&b, "Relevance: %s (%s)\n", match.Score.Label, match.Score.Band)

	if len(c.MatchingChunks) == 0 {
		b.WriteString("No matching sections.\n")
	} else {
		fmt.Fprintf(&b, "Matching sections (%d):\n", len(c.MatchingChunks))
		for i, chunk := range c.MatchingChunks {
			fmt.Fprintf(&b, "\n#%d  Similarity: %s\n%s\n", i+1, scoring.SimilarityPercent(chunk.SimilarityScore), strings.TrimSpace(chunk.Content))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func formatDate(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return "N/A"
	}

	t := talent.Resume{CreatedAt: raw}.Created()
	if t.IsZero() {
		return raw
	}
	return t.Local().Format(dateLayout)
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
