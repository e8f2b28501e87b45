package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/draftguard/draftguard-agent/internal/models"
)

// TokenSource supplies the bearer token for outgoing requests. Absence of a
// token is a fatal precondition: no request is attempted without one.
type TokenSource interface {
	Token() (string, error)
}

// ReportKind selects which finished report to download for a check.
type ReportKind string

const (
	// ReportAI is the AI-content detection report.
	ReportAI ReportKind = "ai"
	// ReportPlagiarism is the plagiarism report.
	ReportPlagiarism ReportKind = "plagiarism"
)

// PurgeResult is the outcome of a bulk delete. A non-empty Failed list means
// partial failure and must be surfaced item by item, never as a blanket
// success.
type PurgeResult struct {
	Deleted int      `json:"deleted"`
	Failed  []string `json:"failed"`
}

// Client is a typed client for the DraftGuard REST API. All operations
// require a bearer token and classify failures per the error taxonomy.
type Client struct {
	http   *resty.Client
	tokens TokenSource
	logger zerolog.Logger
}

// NewClient constructs a Client against the given base URL.
func NewClient(baseURL string, timeout time.Duration, tokens TokenSource, logger zerolog.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &Client{
		http:   httpClient,
		tokens: tokens,
		logger: logger.With().Str("component", "remote_client").Logger(),
	}
}

// ListChecks fetches every check owned by the current user.
func (c *Client) ListChecks(ctx context.Context) ([]models.Check, error) {
	body, err := c.execute(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.Get("/turnitin/check")
	})
	if err != nil {
		return nil, err
	}

	var records []wireCheck
	if err := decodeValidated(checkListContract, body, &records); err != nil {
		return nil, err
	}

	checks := make([]models.Check, 0, len(records))
	for _, record := range records {
		checks = append(checks, record.toModel())
	}

	return checks, nil
}

// SubmitCheck uploads a document for checking. The reader is streamed as a
// multipart file part.
func (c *Client) SubmitCheck(ctx context.Context, filename string, file io.Reader) (models.Check, error) {
	body, err := c.execute(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.SetFileReader("file", filename, file).Post("/turnitin/check")
	})
	if err != nil {
		return models.Check{}, err
	}

	var record wireCheck
	if err := json.Unmarshal(body, &record); err != nil {
		return models.Check{}, newAPIError(KindMalformed, 0, "submit response could not be decoded")
	}

	return record.toModel(), nil
}

// PurgeAll requests deletion of every check and file owned by the current
// user. Irreversible; confirmation gating happens above this layer.
func (c *Client) PurgeAll(ctx context.Context) (PurgeResult, error) {
	body, err := c.execute(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.Post("/turnitin/deleteAll")
	})
	if err != nil {
		return PurgeResult{}, err
	}

	var result wirePurgeResult
	if err := decodeValidated(purgeResultContract, body, &result); err != nil {
		return PurgeResult{}, err
	}

	return PurgeResult{Deleted: result.Deleted, Failed: result.Failed}, nil
}

// DownloadFile fetches a stored document as an opaque blob.
func (c *Client) DownloadFile(ctx context.Context, fileID string) ([]byte, error) {
	return c.execute(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.SetBody(map[string]string{"fileId": fileID}).Post("/file")
	})
}

// DownloadReport fetches a finished report PDF as an opaque blob. Reports
// only exist once the check has completed.
func (c *Client) DownloadReport(ctx context.Context, checkID string, kind ReportKind) ([]byte, error) {
	var path string
	switch kind {
	case ReportAI:
		path = "/report/ai-report"
	case ReportPlagiarism:
		path = "/report/plag-report"
	default:
		return nil, fmt.Errorf("unknown report kind %q", kind)
	}

	return c.execute(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.SetBody(map[string]string{"checkId": checkID}).Post(path)
	})
}

// GetAccount fetches the current user's profile and credit balance.
func (c *Client) GetAccount(ctx context.Context) (models.Account, error) {
	body, err := c.execute(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.Get("/users")
	})
	if err != nil {
		return models.Account{}, err
	}

	var record wireAccount
	if err := decodeValidated(accountContract, body, &record); err != nil {
		return models.Account{}, err
	}

	return record.toModel(), nil
}

// ListAPIKeys fetches the user's programmatic-access keys.
func (c *Client) ListAPIKeys(ctx context.Context) ([]models.APIKey, error) {
	body, err := c.execute(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.Get("/api/keys")
	})
	if err != nil {
		return nil, err
	}

	var records []wireAPIKey
	if err := decodeValidated(apiKeyListContract, body, &records); err != nil {
		return nil, err
	}

	keys := make([]models.APIKey, 0, len(records))
	for _, record := range records {
		keys = append(keys, record.toModel())
	}

	return keys, nil
}

// GenerateAPIKey issues a new key. The full secret is only present in this
// response; listings afterwards carry the masked form.
func (c *Client) GenerateAPIKey(ctx context.Context) (models.APIKey, string, error) {
	body, err := c.execute(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.Post("/api/key/generate")
	})
	if err != nil {
		return models.APIKey{}, "", err
	}

	var record struct {
		wireAPIKey
		Key string `json:"key"`
	}
	if err := json.Unmarshal(body, &record); err != nil {
		return models.APIKey{}, "", newAPIError(KindMalformed, 0, "key response could not be decoded")
	}

	return record.wireAPIKey.toModel(), record.Key, nil
}

// RevokeAPIKey deactivates a key by id.
func (c *Client) RevokeAPIKey(ctx context.Context, keyID string) error {
	_, err := c.execute(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.SetBody(map[string]string{"keyId": keyID}).Post("/api/key/revoke")
	})
	return err
}

// execute runs one authenticated request and classifies the outcome. The
// token is read per call so a logout is observed on the very next request.
func (c *Client) execute(ctx context.Context, do func(*resty.Request) (*resty.Response, error)) ([]byte, error) {
	token, err := c.tokens.Token()
	if err != nil {
		return nil, err
	}

	resp, err := do(c.http.R().SetContext(ctx).SetAuthToken(token))
	if err != nil {
		return nil, newAPIError(KindTransport, 0, err.Error())
	}

	if resp.IsSuccess() {
		return resp.Body(), nil
	}

	return nil, c.classify(resp)
}

func (c *Client) classify(resp *resty.Response) *APIError {
	message := serverMessage(resp.Body())

	status := resp.StatusCode()
	c.logger.Warn().Int("status", status).Str("url", resp.Request.URL).Msg("remote request failed")

	switch status {
	case 400:
		return newAPIError(KindValidation, status, message)
	case 401:
		if message == "" {
			message = "session expired"
		}
		return newAPIError(KindAuth, status, message)
	case 403:
		return newAPIError(KindForbidden, status, message)
	default:
		return newAPIError(KindTransport, status, message)
	}
}

// serverMessage pulls a human-readable message out of an error body, if the
// server supplied one. The UI must prefer this text over a generic guess.
func serverMessage(body []byte) string {
	var payload wireErrorBody
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}
