package talent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

const (
	resumesPath = "/resumes"
	uploadPath  = "/upload-resume"

	formTitleField = "resume[title]"
	formFileField  = "resume[file]"
)

type Resumes struct {
	Items []Resume
}

type Resume struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Filename  string `json:"filename"`
	CreatedAt string `json:"created_at"`
	FileURL   string `json:"file_url"`
	// ChunksCount is zero until the service has indexed the resume for search.
	ChunksCount int `json:"chunks_count"`
}

// Processed reports whether the resume is available for matching.
func (r Resume) Processed() bool {
	return r.ChunksCount > 0
}

// Created parses CreatedAt. The zero time is returned for unparseable values.
func (r Resume) Created() time.Time {
	t, err := time.Parse(time.RFC3339, r.CreatedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

func (r *Resumes) Len() int {
	return len(r.Items)
}

func (r *Resumes) Titles() []string {
	titles := make([]string, 0, len(r.Items))

	for _, v := range r.Items {
		titles = append(titles, v.Title)
	}

	return titles
}

func (r *Resumes) FindByID(id int) *Resume {
	for i := range r.Items {
		if r.Items[i].ID == id {
			return &r.Items[i]
		}
	}

	return nil
}

// HasPending reports whether any resume is still waiting to be indexed.
func (r *Resumes) HasPending() bool {
	for _, v := range r.Items {
		if !v.Processed() {
			return true
		}
	}

	return false
}

// ListResumes returns the whole resume catalog.
func (c *Client) ListResumes(ctx context.Context) (*Resumes, error) {
	var resp struct {
		Resumes []Resume `json:"resumes"`
	}

	if err := c.getJSON(ctx, resumesPath, &resp); err != nil {
		return nil, fmt.Errorf("list resumes: %w", err)
	}

	if resp.Resumes == nil {
		resp.Resumes = []Resume{}
	}

	return &Resumes{Items: resp.Resumes}, nil
}

// UploadResume sends a resume file. Validation of size and type is the
// caller's job and happens before this call.
func (c *Client) UploadResume(ctx context.Context, title, filename string, file io.Reader) (*Resume, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.New("upload resume: title is required")
	}
	if file == nil {
		return nil, errors.New("upload resume: file is required")
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("upload resume: read file: %w", err)
	}

	var resp struct {
		Message string  `json:"message"`
		Resume  *Resume `json:"resume"`
	}

	fields := [][2]string{{formTitleField, title}}
	part := &formFile{field: formFileField, filename: filename, data: data}

	if err := c.postFormData(ctx, uploadPath, fields, part, &resp); err != nil {
		return nil, fmt.Errorf("upload resume: %w", err)
	}

	if resp.Resume == nil {
		return nil, errors.New("upload resume: service returned no resume")
	}

	return resp.Resume, nil
}
