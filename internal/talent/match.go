package talent

import (
	"context"
	"fmt"
	"strings"
)

const matchPath = "/match-jd"

type MatchingChunk struct {
	Content         string  `json:"content"`
	SimilarityScore float64 `json:"similarity_score"`
}

// MatchCandidate is a resume scored against a job description.
// RelevanceScore follows the service convention: negative is a genuine match.
type MatchCandidate struct {
	ResumeID       int             `json:"resume_id"`
	Title          string          `json:"title"`
	Filename       string          `json:"filename"`
	UserName       string          `json:"user_name"`
	UserEmail      string          `json:"user_email"`
	RelevanceScore float64         `json:"relevance_score"`
	FileURL        string          `json:"file_url"`
	MatchingChunks []MatchingChunk `json:"matching_chunks"`
}

// JobMatchResult keeps the server order of Matches.
type JobMatchResult struct {
	JobDescription string           `json:"job_description"`
	TotalMatches   int              `json:"total_matches"`
	Matches        []MatchCandidate `json:"matches"`
}

// MatchJobDescription asks the service to score every resume against the job
// description. Blank descriptions are rejected without a request.
func (c *Client) MatchJobDescription(ctx context.Context, jobDescription string) (*JobMatchResult, error) {
	if strings.TrimSpace(jobDescription) == "" {
		return nil, ErrEmptyJobDescription
	}

	payload := map[string]string{"job_description": jobDescription}

	var result JobMatchResult
	if err := c.postJSON(ctx, matchPath, payload, &result); err != nil {
		return nil, fmt.Errorf("match job description: %w", err)
	}

	return &result, nil
}
