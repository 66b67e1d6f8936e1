package dashboard

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/spigell/talent-matcher/internal/filtering"
	"github.com/spigell/talent-matcher/internal/talent"
	"github.com/spigell/talent-matcher/internal/upload"
)

// State is what the resume list currently shows.
type State int

const (
	StateLoading State = iota
	StateEmptyCatalog
	StateEmptyMatches
	StatePopulated
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "LOADING"
	case StateEmptyCatalog:
		return "EMPTY_CATALOG"
	case StateEmptyMatches:
		return "EMPTY_MATCHES"
	case StatePopulated:
		return "POPULATED"
	default:
		return "UNKNOWN"
	}
}

// Action names a user triggered operation that owns an error slot.
type Action string

const (
	ActionLogin    Action = "login"
	ActionUpload   Action = "upload"
	ActionMatch    Action = "match"
	ActionDownload Action = "download"
)

// CatalogSource lists every uploaded resume.
type CatalogSource interface {
	ListResumes(ctx context.Context) (*talent.Resumes, error)
}

// matchView is the result of the last successful match run.
type matchView struct {
	jobDescription string
	shown          []talent.MatchCandidate
	summary        filtering.Summary
}

// Dashboard holds the view state. All methods are safe for concurrent use;
// accessors return copies.
type Dashboard struct {
	logger *zap.Logger

	mu      sync.RWMutex
	loading bool
	catalog []talent.Resume
	matches *matchView
	errors  map[Action]string
}

func New(logger *zap.Logger) *Dashboard {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Dashboard{
		logger:  logger,
		loading: true,
		catalog: []talent.Resume{},
		errors:  make(map[Action]string),
	}
}

// Load fetches the catalog. A failure leaves the catalog empty and is only
// logged; it never blocks the dashboard.
func (d *Dashboard) Load(ctx context.Context, source CatalogSource) {
	d.mu.Lock()
	d.loading = true
	d.mu.Unlock()

	resumes, err := source.ListResumes(ctx)

	d.mu.Lock()
	defer d.mu.Unlock()

	d.loading = false
	if err != nil {
		d.logger.Error("failed to load resumes", zap.Error(err))
		return
	}

	d.setCatalog(resumes)
}

// SetCatalog replaces the catalog with an already fetched list.
func (d *Dashboard) SetCatalog(resumes *talent.Resumes) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.loading = false
	d.setCatalog(resumes)
}

func (d *Dashboard) setCatalog(resumes *talent.Resumes) {
	d.catalog = []talent.Resume{}
	if resumes != nil {
		d.catalog = append(d.catalog, resumes.Items...)
	}
	d.logger.Info("loaded resumes", zap.Int("count", len(d.catalog)))
}

// UploadSucceeded puts the new resume at the top of the catalog.
func (d *Dashboard) UploadSucceeded(resume talent.Resume) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.catalog = append([]talent.Resume{resume}, d.catalog...)
	delete(d.errors, ActionUpload)
}

// MatchSucceeded replaces any previous match run with the filtered result.
func (d *Dashboard) MatchSucceeded(result *talent.JobMatchResult) {
	if result == nil {
		result = &talent.JobMatchResult{}
	}

	shown, summary := filtering.Run(d.logger, result.Matches)

	d.mu.Lock()
	defer d.mu.Unlock()

	d.matches = &matchView{
		jobDescription: result.JobDescription,
		shown:          shown,
		summary:        summary,
	}
	delete(d.errors, ActionMatch)
}

// ClearResults drops the match run and returns to browsing the catalog.
func (d *Dashboard) ClearResults() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.matches = nil
}

// Succeeded clears the error slot of an action.
func (d *Dashboard) Succeeded(action Action) {
	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.errors, action)
}

// Fail records a user-facing message for the action, replacing the previous
// one. Displayed data is left as it was.
func (d *Dashboard) Fail(action Action, err error) {
	if err == nil {
		return
	}

	d.logger.Error("action failed", zap.String("action", string(action)), zap.Error(err))

	d.mu.Lock()
	defer d.mu.Unlock()

	d.errors[action] = failureMessage(action, err)
}

// Error returns the current message for the action, or "".
func (d *Dashboard) Error(action Action) string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.errors[action]
}

func failureMessage(action Action, err error) string {
	var validation *upload.ValidationError
	if errors.As(err, &validation) {
		return validation.Message
	}

	switch action {
	case ActionLogin:
		return "Login failed. Please try again."
	case ActionUpload:
		return "Failed to upload resume. Please try again."
	case ActionMatch:
		if errors.Is(err, talent.ErrEmptyJobDescription) {
			return "Please enter a job description."
		}
		return "Failed to find matches: " + err.Error()
	case ActionDownload:
		return "Download failed. Please try again."
	default:
		return "Something went wrong. Please try again."
	}
}

func (d *Dashboard) State() State {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.state()
}

func (d *Dashboard) state() State {
	// A finished match run is shown even while the catalog is still loading.
	switch {
	case d.matches != nil && len(d.matches.shown) == 0:
		return StateEmptyMatches
	case d.matches != nil:
		return StatePopulated
	case d.loading:
		return StateLoading
	case len(d.catalog) == 0:
		return StateEmptyCatalog
	default:
		return StatePopulated
	}
}

// MatchMode reports whether a match run is being displayed.
func (d *Dashboard) MatchMode() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.matches != nil
}

// Summary returns the filter summary of the current match run.
func (d *Dashboard) Summary() (filtering.Summary, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.matches == nil {
		return filtering.Summary{}, false
	}
	return d.matches.summary, true
}

// JobDescription returns the description of the current match run.
func (d *Dashboard) JobDescription() string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.matches == nil {
		return ""
	}
	return d.matches.jobDescription
}

// Catalog returns a copy of the resume catalog, most recent upload first.
func (d *Dashboard) Catalog() []talent.Resume {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return append([]talent.Resume{}, d.catalog...)
}

// Items returns scored matches in match mode and catalog entries otherwise.
func (d *Dashboard) Items() []Item {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.items()
}

func (d *Dashboard) items() []Item {
	if d.matches != nil {
		items := make([]Item, 0, len(d.matches.shown))
		for _, c := range d.matches.shown {
			items = append(items, newScoredMatch(c))
		}
		return items
	}

	items := make([]Item, 0, len(d.catalog))
	for _, r := range d.catalog {
		items = append(items, CatalogEntry{Resume: r})
	}
	return items
}

// FindItem returns the displayed item with the resume id.
func (d *Dashboard) FindItem(id int) (Item, bool) {
	for _, it := range d.Items() {
		if it.ResumeID() == id {
			return it, true
		}
	}
	return nil, false
}

// HasPending reports whether any catalog resume still waits for indexing.
func (d *Dashboard) HasPending() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	resumes := talent.Resumes{Items: d.catalog}
	return resumes.HasPending()
}
