package sheets

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"procurement-service/pkg/config"

	"go.uber.org/zap"
)

// Action is the mutation operation tag understood by the gateway.
type Action string

const (
	ActionInsert Action = "insert"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionUpload Action = "upload"
)

// Client talks to the remote spreadsheet gateway. All record collections and
// file uploads go through the single gateway endpoint.
type Client struct {
	BaseURL      string
	UploadFolder string
	HTTPClient   *http.Client
	Logger       *zap.Logger
}

// NewClient creates a gateway client from configuration
func NewClient(cfg *config.GatewayConfig, logger *zap.Logger) *Client {
	return &Client{
		BaseURL:      cfg.BaseURL,
		UploadFolder: cfg.UploadFolder,
		HTTPClient:   &http.Client{Timeout: cfg.Timeout},
		Logger:       logger,
	}
}

type rowsResponse struct {
	Success bool                     `json:"success"`
	Error   string                   `json:"error"`
	Rows    []map[string]interface{} `json:"rows"`
}

type optionsResponse struct {
	Success bool                `json:"success"`
	Error   string              `json:"error"`
	Options map[string][]string `json:"options"`
}

type mutationResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type uploadResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	FileURL string `json:"fileUrl"`
}

// FetchRows retrieves all rows of the named sheet.
func (c *Client) FetchRows(ctx context.Context, sheetName string) ([]Row, error) {
	start := time.Now()
	var resp rowsResponse
	if err := c.get(ctx, sheetName, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &AppError{Message: resp.Error}
	}

	rows := make([]Row, 0, len(resp.Rows))
	for _, raw := range resp.Rows {
		rows = append(rows, NewRow(raw))
	}

	c.Logger.Info("Fetched sheet rows",
		zap.String("sheet", sheetName),
		zap.Int("count", len(rows)),
		zap.Duration("elapsed", time.Since(start)))
	return rows, nil
}

// FetchOptions retrieves the master-configuration collection, which the
// gateway serves as named option lists instead of rows.
func (c *Client) FetchOptions(ctx context.Context, sheetName string) (map[string][]string, error) {
	var resp optionsResponse
	if err := c.get(ctx, sheetName, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &AppError{Message: resp.Error}
	}
	return resp.Options, nil
}

// Submit posts partial record patches under the given action. Patches are
// JSON-serialized into the form-encoded rows field. The gateway applies them
// by row identity; this client attaches no idempotency key, so a resubmission
// after a timeout can double-apply.
func (c *Client) Submit(ctx context.Context, action Action, sheetName string, rows []map[string]interface{}) error {
	payload, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("failed to serialize rows: %w", err)
	}

	data := url.Values{}
	data.Set("action", string(action))
	data.Set("sheetName", sheetName)
	data.Set("rows", string(payload))

	var resp mutationResponse
	if err := c.postForm(ctx, data, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return &AppError{Message: resp.Error}
	}

	c.Logger.Info("Submitted sheet mutation",
		zap.String("sheet", sheetName),
		zap.String("action", string(action)),
		zap.Int("rows", len(rows)))
	return nil
}

// UploadRequest describes one file upload through the gateway.
type UploadRequest struct {
	FileName string
	MimeType string
	Content  []byte
	// Email, when set, makes the gateway also deliver the file as an
	// attachment to this address.
	Email string
}

// Upload sends a file to the gateway's storage folder and returns the stored
// file URL.
func (c *Client) Upload(ctx context.Context, req UploadRequest) (string, error) {
	data := url.Values{}
	data.Set("action", string(ActionUpload))
	data.Set("fileName", req.FileName)
	data.Set("mimeType", req.MimeType)
	data.Set("folder", c.UploadFolder)
	data.Set("base64Data", base64.StdEncoding.EncodeToString(req.Content))
	if req.Email != "" {
		data.Set("email", req.Email)
	}

	var resp uploadResponse
	if err := c.postForm(ctx, data, &resp); err != nil {
		return "", err
	}
	if !resp.Success {
		return "", &AppError{Message: resp.Error}
	}

	c.Logger.Info("Uploaded file through gateway",
		zap.String("file_name", req.FileName),
		zap.Int("size_bytes", len(req.Content)),
		zap.Bool("emailed", req.Email != ""))
	return resp.FileURL, nil
}

func (c *Client) get(ctx context.Context, sheetName string, out interface{}) error {
	endpoint := c.BaseURL + "?sheetName=" + url.QueryEscape(sheetName)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return &GatewayError{Err: err}
	}
	return c.do(req, out)
}

func (c *Client) postForm(ctx context.Context, data url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, strings.NewReader(data.Encode()))
	if err != nil {
		return &GatewayError{Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return &GatewayError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &GatewayError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.Logger.Error("Gateway request failed",
			zap.String("url", req.URL.Path),
			zap.Int("status", resp.StatusCode))
		return &GatewayError{StatusCode: resp.StatusCode}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &GatewayError{Err: fmt.Errorf("invalid gateway response: %w", err)}
	}
	return nil
}
