package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"
)

const lovelacePerCoin = 1_000_000

// explorerClient wraps the read-only block explorer API used to look up
// on-chain balances and transaction history for one address.
type explorerClient struct {
	baseURL    string
	projectID  string
	httpClient *http.Client
	group      singleflight.Group
}

func newExplorerClient(baseURL, projectID string) *explorerClient {
	return &explorerClient{
		baseURL:   baseURL,
		projectID: projectID,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (e *explorerClient) get(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL+endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("project_id", e.projectID)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("explorer request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Message string `json:"message"`
		}
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Message != "" {
			return fmt.Errorf("explorer: %s", apiErr.Message)
		}
		return fmt.Errorf("explorer returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Balance returns the address balance in whole coins. Concurrent lookups
// for the same address are collapsed into one upstream request.
func (e *explorerClient) Balance(ctx context.Context, address string) (float64, error) {
	v, err, _ := e.group.Do("balance:"+address, func() (any, error) {
		var result struct {
			Amount []struct {
				Unit     string `json:"unit"`
				Quantity string `json:"quantity"`
			} `json:"amount"`
		}
		if err := e.get(ctx, "/addresses/"+address, &result); err != nil {
			return nil, err
		}

		lovelace := int64(0)
		for _, a := range result.Amount {
			if a.Unit == "lovelace" {
				parsed, err := strconv.ParseInt(a.Quantity, 10, 64)
				if err != nil {
					return nil, fmt.Errorf("explorer returned malformed quantity %q", a.Quantity)
				}
				lovelace = parsed
				break
			}
		}
		return float64(lovelace) / lovelacePerCoin, nil
	})
	if err != nil {
		return 0, err
	}
	return v.(float64), nil
}

// Transactions returns the ten most recent transactions for an address,
// mapped onto ledger entries. Amounts are left at zero: the list endpoint
// does not carry per-transaction deltas and the UI only shows hashes.
func (e *explorerClient) Transactions(ctx context.Context, address string) ([]LedgerEntry, error) {
	v, err, _ := e.group.Do("txs:"+address, func() (any, error) {
		var result []struct {
			TxHash    string `json:"tx_hash"`
			TxIndex   int    `json:"tx_index"`
			BlockTime int64  `json:"block_time"`
		}
		endpoint := fmt.Sprintf("/addresses/%s/transactions?order=desc&count=10", address)
		if err := e.get(ctx, endpoint, &result); err != nil {
			return nil, err
		}

		entries := make([]LedgerEntry, 0, len(result))
		for _, tx := range result {
			entryType := ledgerTransfer
			if tx.TxIndex == 0 {
				entryType = ledgerDeposit
			}
			short := tx.TxHash
			if len(short) > 8 {
				short = short[:8]
			}
			entries = append(entries, LedgerEntry{
				ID:          tx.TxHash,
				Type:        entryType,
				Amount:      0,
				Description: fmt.Sprintf("Tx: %s...", short),
				Timestamp:   tx.BlockTime * 1000,
				Hash:        tx.TxHash,
			})
		}
		return entries, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]LedgerEntry), nil
}
