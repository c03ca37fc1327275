package ebay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// DefaultBaseURL is the production Sell Inventory API base.
const DefaultBaseURL = "https://api.ebay.com/sell/inventory/v1"

// APIError is returned whenever the inventory API responds with a
// non-success status. The raw response body is kept verbatim; callers
// that need finer-grained handling can branch on StatusCode.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ebay: status %d: %s", e.StatusCode, e.Body)
}

// Client calls the eBay Sell Inventory API. The bearer token is fixed
// for the lifetime of the client.
type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
	logger  *slog.Logger
}

func NewClient(baseURL, token string, httpc *http.Client, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpc:   httpc,
		logger:  logger,
	}
}

// GetStock fetches the inventory item record for itemID and returns the
// decoded document as-is, without interpreting its shape. The document is
// usually a JSON object but the API contract does not guarantee it.
func (c *Client) GetStock(ctx context.Context, itemID string) (any, error) {
	req, err := c.newRequest(ctx, http.MethodGet, itemID, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, readAPIError(resp)
	}

	var stock any
	if err := json.NewDecoder(resp.Body).Decode(&stock); err != nil {
		return nil, err
	}

	return stock, nil
}

// UpdateStock sets the ship-to-location availability quantity for itemID.
// The API acknowledges either with 200 or with an empty 204.
func (c *Client) UpdateStock(ctx context.Context, itemID string, quantity int) error {
	body := map[string]any{
		"availability": map[string]any{
			"ship_to_location_availability": map[string]any{
				"quantity": quantity,
			},
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := c.newRequest(ctx, http.MethodPut, itemID, bytes.NewReader(payload))
	if err != nil {
		return err
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return readAPIError(resp)
	}

	c.logger.Info("stock updated", "item_id", itemID, "quantity", quantity)
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, itemID string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/inventory_item/"+itemID, body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	return req, nil
}

func readAPIError(resp *http.Response) error {
	text, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Body:       string(text),
	}
}
