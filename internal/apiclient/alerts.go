package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"jobportal_web/internal/models"
	"jobportal_web/pkg/apperrors"
)

func (c *Client) ListAlerts(ctx context.Context, token string) ([]models.JobAlert, error) {
	const msg = "Failed to fetch job alerts"
	data, err := c.do(ctx, request{
		method:         http.MethodGet,
		path:           "/alerts",
		token:          token,
		defaultMessage: msg,
	})
	if err != nil {
		return nil, err
	}
	alerts, err := decodeList[models.JobAlert](data, "alerts")
	if err != nil {
		return nil, apperrors.ErrTransport(err, msg)
	}
	return alerts, nil
}

func (c *Client) CreateAlert(ctx context.Context, token, keyword, location string) (*models.JobAlert, error) {
	const msg = "Failed to create alert."
	data, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/alerts",
		token:  token,
		body: map[string]string{
			"keyword":  keyword,
			"location": location,
		},
		defaultMessage: msg,
	})
	if err != nil {
		return nil, err
	}

	alert := &models.JobAlert{Keyword: keyword, Location: location}
	var envelope struct {
		Alert json.RawMessage `json:"alert"`
	}
	_ = json.Unmarshal(data, &envelope)
	src := data
	if len(envelope.Alert) > 0 && !bytes.Equal(envelope.Alert, []byte("null")) {
		src = envelope.Alert
	}
	_ = json.Unmarshal(src, alert)
	return alert, nil
}

func (c *Client) DeleteAlert(ctx context.Context, token, id string) error {
	_, err := c.do(ctx, request{
		method:         http.MethodDelete,
		path:           "/alerts/" + escape(id),
		token:          token,
		defaultMessage: "Failed to delete alert.",
	})
	return err
}
