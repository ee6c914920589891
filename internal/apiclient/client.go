// Package apiclient wraps the remote voucher service. Every operation either
// returns a reshaped record (server identifier mapped to ID, date formatted
// for display) or a single *Error whose message can be shown to the user
// as-is; callers never distinguish transport failures from application ones.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/nunchaku-india/voucher-desk/internal/domain/voucher"
	"go.uber.org/zap"
)

// Error is the single failure type surfaced by the client. Message is
// display-ready; the underlying cause is kept for logs only.
type Error struct {
	Message string
	cause   error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.cause }

// Client talks to the voucher service over HTTP+JSON.
type Client struct {
	baseURL string
	httpc   *http.Client
	logger  *zap.Logger
}

// New creates a client for the service at baseURL. A zero timeout means no
// timeout; a hung call then blocks only the interaction that issued it.
func New(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// CreateRequest carries the new-voucher fields. Date is the ISO form
// (yyyy-mm-dd); the server assigns id, voucherNumber and status.
type CreateRequest struct {
	Association   string  `json:"association"`
	FinancialYear string  `json:"financialYear"`
	Date          string  `json:"date"`
	Payee         string  `json:"payee"`
	Amount        float64 `json:"amount"`
	Purpose       string  `json:"purpose"`
	ApprovedBy    string  `json:"approvedBy"`
}

type wireError struct {
	Message string `json:"message"`
}

type envelope struct {
	Data    json.RawMessage `json:"data"`
	Error   *wireError      `json:"error"`
	Message string          `json:"message"`
}

// CreateVoucher submits a new voucher and returns the created record.
func (c *Client) CreateVoucher(ctx context.Context, req CreateRequest) (*voucher.Voucher, error) {
	data, err := c.call(ctx, http.MethodPost, "/api/vouchers", req, false, "Failed to create voucher")
	if err != nil {
		return nil, err
	}
	return reshapeOrError(data, "Failed to create voucher")
}

// FetchVouchers retrieves the full collection, bypassing any client or proxy
// cache so the list always reflects the server's current state.
func (c *Client) FetchVouchers(ctx context.Context) ([]voucher.Voucher, error) {
	data, err := c.call(ctx, http.MethodGet, "/api/vouchers", nil, true, "Failed to fetch vouchers")
	if err != nil {
		return nil, err
	}

	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, &Error{Message: "Failed to fetch vouchers", cause: err}
	}

	out := make([]voucher.Voucher, 0, len(records))
	for _, raw := range records {
		v, err := reshape(raw)
		if err != nil {
			return nil, &Error{Message: "Failed to fetch vouchers", cause: err}
		}
		out = append(out, *v)
	}
	return out, nil
}

// GetVoucherByID fetches a single voucher.
func (c *Client) GetVoucherByID(ctx context.Context, id string) (*voucher.Voucher, error) {
	data, err := c.call(ctx, http.MethodGet, "/api/vouchers/"+id, nil, false, "Failed to fetch voucher")
	if err != nil {
		return nil, err
	}
	return reshapeOrError(data, "Failed to fetch voucher")
}

// UpdateVoucher replaces a voucher's editable fields.
func (c *Client) UpdateVoucher(ctx context.Context, id string, req CreateRequest) (*voucher.Voucher, error) {
	data, err := c.call(ctx, http.MethodPut, "/api/vouchers/"+id, req, false, "Failed to update voucher")
	if err != nil {
		return nil, err
	}
	return reshapeOrError(data, "Failed to update voucher")
}

// DeleteVoucher removes a voucher and returns the raw response envelope
// unreshaped. Failures are logged with status and body diagnostics before the
// normalized error is returned.
func (c *Client) DeleteVoucher(ctx context.Context, id string) (map[string]interface{}, error) {
	status, raw, env, err := c.roundTrip(ctx, http.MethodDelete, "/api/vouchers/"+id, nil, true)
	if err != nil {
		c.logger.Error("voucher delete failed",
			zap.String("id", id),
			zap.Error(err))
		return nil, &Error{Message: "Failed to delete voucher", cause: err}
	}
	if status < 200 || status >= 300 {
		c.logger.Error("voucher delete rejected by server",
			zap.String("id", id),
			zap.Int("status", status),
			zap.ByteString("body", raw))
		return nil, normalizeError(env, "Failed to delete voucher")
	}

	var out map[string]interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		c.logger.Error("voucher delete returned malformed body",
			zap.String("id", id),
			zap.Error(err))
		return nil, &Error{Message: "Failed to delete voucher", cause: err}
	}
	return out, nil
}

// ApproveVoucher moves a voucher to approved, recording the acting user. An
// empty approvedBy falls back to "system".
func (c *Client) ApproveVoucher(ctx context.Context, id, approvedBy string) (*voucher.Voucher, error) {
	if approvedBy == "" {
		approvedBy = "system"
	}
	body := map[string]string{"approvedBy": approvedBy}
	data, err := c.call(ctx, http.MethodPatch, "/api/vouchers/"+id+"/approve", body, false, "Failed to approve voucher")
	if err != nil {
		return nil, err
	}
	return reshapeOrError(data, "Failed to approve voucher")
}

// RejectVoucher moves a voucher to rejected with the given reason.
func (c *Client) RejectVoucher(ctx context.Context, id, reason string) (*voucher.Voucher, error) {
	body := map[string]string{"reason": reason}
	data, err := c.call(ctx, http.MethodPatch, "/api/vouchers/"+id+"/reject", body, false, "Failed to reject voucher")
	if err != nil {
		return nil, err
	}
	return reshapeOrError(data, "Failed to reject voucher")
}

// call performs a request and folds every failure mode into one *Error with
// a displayable message, returning the envelope's data payload on success.
func (c *Client) call(ctx context.Context, method, path string, body interface{}, noCache bool, fallback string) (json.RawMessage, error) {
	status, _, env, err := c.roundTrip(ctx, method, path, body, noCache)
	if err != nil {
		return nil, &Error{Message: fallback, cause: err}
	}
	if status < 200 || status >= 300 {
		return nil, normalizeError(env, fallback)
	}
	if env == nil {
		return nil, &Error{Message: fallback, cause: fmt.Errorf("empty response body")}
	}
	return env.Data, nil
}

// roundTrip issues the HTTP request and decodes the response envelope. It
// returns the raw body alongside so callers can log diagnostics; a nil
// envelope with nil error means the body was not valid JSON on a 2xx.
func (c *Client) roundTrip(ctx context.Context, method, path string, body interface{}, noCache bool) (int, []byte, *envelope, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, nil, nil, err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if noCache {
		req.Header.Set("Cache-Control", "no-cache, no-store, must-revalidate")
		req.Header.Set("Pragma", "no-cache")
	}

	res, err := c.httpc.Do(req)
	if err != nil {
		return 0, nil, nil, err
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return res.StatusCode, nil, nil, err
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if res.StatusCode >= 200 && res.StatusCode < 300 {
			return res.StatusCode, raw, nil, err
		}
		// Non-2xx with an unreadable body still normalizes below.
		return res.StatusCode, raw, nil, nil
	}
	return res.StatusCode, raw, &env, nil
}

// reshapeOrError reshapes a single-record payload, folding a missing or
// malformed one into the same display-ready error as every other failure.
func reshapeOrError(data json.RawMessage, fallback string) (*voucher.Voucher, error) {
	v, err := reshape(data)
	if err != nil {
		return nil, &Error{Message: fallback, cause: err}
	}
	return v, nil
}

// normalizeError extracts a displayable message from a non-2xx envelope:
// nested error.message first, then the top-level message, then the fallback.
func normalizeError(env *envelope, fallback string) *Error {
	if env != nil {
		if env.Error != nil && env.Error.Message != "" {
			return &Error{Message: env.Error.Message}
		}
		if env.Message != "" {
			return &Error{Message: env.Message}
		}
	}
	return &Error{Message: fallback}
}
