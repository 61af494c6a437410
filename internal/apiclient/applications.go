package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"jobportal_web/internal/models"
	"jobportal_web/pkg/apperrors"
)

// decodeList принимает голый массив или объект с массивом под ключом key
func decodeList[T any](data []byte, key string) ([]T, error) {
	trimmed := bytes.TrimSpace(data)
	out := []T{}
	if len(trimmed) == 0 {
		return out, nil
	}
	if trimmed[0] == '[' {
		err := json.Unmarshal(trimmed, &out)
		return out, err
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, err
	}
	raw, ok := envelope[key]
	if !ok {
		raw, ok = envelope["data"]
	}
	if !ok || bytes.Equal(raw, []byte("null")) {
		return out, nil
	}
	err := json.Unmarshal(raw, &out)
	return out, err
}

func (c *Client) MyApplications(ctx context.Context, token string) ([]models.Application, error) {
	const msg = "Failed to fetch applications"
	data, err := c.do(ctx, request{
		method:         http.MethodGet,
		path:           "/applications/me",
		token:          token,
		defaultMessage: msg,
	})
	if err != nil {
		return nil, err
	}
	apps, err := decodeList[models.Application](data, "applications")
	if err != nil {
		return nil, apperrors.ErrTransport(err, msg)
	}
	return apps, nil
}
