package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"jobportal_web/internal/models"
	"jobportal_web/pkg/apperrors"
)

// ListJobs - GET /jobs. Ответ бывает постраничным {jobs,totalJobs,page,totalPages}
// или голым массивом (полный набор, пагинация на нашей стороне).
func (c *Client) ListJobs(ctx context.Context, filter models.JobFilter, limit int) (*models.JobPage, error) {
	const msg = "Failed to fetch jobs"
	data, err := c.do(ctx, request{
		method:         http.MethodGet,
		path:           "/jobs",
		query:          filter.BackendQuery(limit),
		defaultMessage: msg,
	})
	if err != nil {
		return nil, err
	}

	page, err := decodeJobPage(data)
	if err != nil {
		return nil, apperrors.ErrTransport(err, msg)
	}
	return page, nil
}

func decodeJobPage(data []byte) (*models.JobPage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var jobs []models.Job
		if err := json.Unmarshal(trimmed, &jobs); err != nil {
			return nil, err
		}
		return &models.JobPage{Jobs: jobs, TotalJobs: len(jobs)}, nil
	}

	var page models.JobPage
	if err := json.Unmarshal(trimmed, &page); err != nil {
		return nil, err
	}
	if page.Jobs == nil {
		page.Jobs = []models.Job{}
	}
	page.ServerPaged = page.TotalPages > 0
	if page.TotalJobs == 0 && !page.ServerPaged {
		page.TotalJobs = len(page.Jobs)
	}
	return &page, nil
}

// GetJob - GET /jobs/:id; 404 превращается в ErrJobNotFound
func (c *Client) GetJob(ctx context.Context, id string) (*models.Job, error) {
	data, err := c.do(ctx, request{
		method:         http.MethodGet,
		path:           "/jobs/" + escape(id),
		defaultMessage: "Failed to fetch job details",
	})
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.ErrJobNotFound
		}
		return nil, err
	}

	var envelope struct {
		Job json.RawMessage `json:"job"`
	}
	_ = json.Unmarshal(data, &envelope)
	src := data
	if len(envelope.Job) > 0 && !bytes.Equal(envelope.Job, []byte("null")) {
		src = envelope.Job
	}

	var job models.Job
	if err := json.Unmarshal(src, &job); err != nil {
		return nil, apperrors.ErrTransport(err, "Failed to fetch job details")
	}
	if job.ID == "" {
		return nil, apperrors.ErrJobNotFound
	}
	return &job, nil
}

// Apply - POST /jobs/:id/apply, возвращает сообщение backend
func (c *Client) Apply(ctx context.Context, token, jobID string) (string, error) {
	var res struct {
		Message string `json:"message"`
	}
	err := c.doJSON(ctx, request{
		method:         http.MethodPost,
		path:           "/jobs/" + escape(jobID) + "/apply",
		token:          token,
		defaultMessage: "Failed to apply for this job",
	}, &res)
	if err != nil {
		return "", err
	}
	if res.Message == "" {
		res.Message = "Application submitted successfully!"
	}
	return res.Message, nil
}
