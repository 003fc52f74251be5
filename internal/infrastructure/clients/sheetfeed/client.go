package sheetfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/spinecare/fracture-dashboard/internal/domain/entities"
	"github.com/spinecare/fracture-dashboard/pkg/config"
	apperrors "github.com/spinecare/fracture-dashboard/pkg/errors"
)

// Client reads patient records from the spreadsheet's JSON web export.
// The endpoint answers GET with a JSON array of records; there is no
// authentication or pagination. Requests are not retried.
type Client struct {
	httpClient *resty.Client
	url        string
}

// NewClient creates a feed client for the configured URL
func NewClient(cfg *config.FeedConfig) (*Client, error) {
	url := strings.TrimSpace(cfg.URL)
	if url == "" {
		return nil, apperrors.NewValidationError("feed url is required")
	}

	httpClient := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")

	return &Client{
		httpClient: httpClient,
		url:        url,
	}, nil
}

// FetchRecords performs a single GET against the feed
func (c *Client) FetchRecords(ctx context.Context) ([]entities.PatientRecord, error) {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("X-Request-ID", uuid.NewString()).
		Get(c.url)
	if err != nil {
		return nil, apperrors.NewExternalError("record feed request failed", err)
	}

	if !resp.IsSuccess() {
		return nil, apperrors.NewExternalError(
			fmt.Sprintf("record feed returned status %d", resp.StatusCode()), nil)
	}

	var records []entities.PatientRecord
	if err := json.Unmarshal(resp.Body(), &records); err != nil {
		return nil, apperrors.NewExternalError("record feed returned malformed JSON", err)
	}
	if records == nil {
		records = []entities.PatientRecord{}
	}

	return records, nil
}

// Name identifies the source in logs
func (c *Client) Name() string {
	return "sheet-feed"
}
