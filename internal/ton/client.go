package ton

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is a TON API client used for read-only on-chain lookups.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	network    Network
}

// NewClient creates a new TON API client
func NewClient(network Network, apiKey string) *Client {
	baseURL := TonAPIMainnet
	if network == NetworkTestnet {
		baseURL = TonAPITestnet
	}

	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		network: network,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// AccountInfo represents account information
type AccountInfo struct {
	Address    string `json:"address"`
	Balance    int64  `json:"balance"`
	Status     string `json:"status"`
	LastTxLt   int64  `json:"last_transaction_lt"`
	LastTxHash string `json:"last_transaction_hash"`
}

// GetAccountInfo retrieves account information
func (c *Client) GetAccountInfo(ctx context.Context, address string) (*AccountInfo, error) {
	url := fmt.Sprintf("%s/accounts/%s", c.baseURL, address)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}

	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API error: %s - %s", resp.Status, string(body))
	}

	var account AccountInfo
	if err := json.NewDecoder(resp.Body).Decode(&account); err != nil {
		return nil, err
	}

	return &account, nil
}
