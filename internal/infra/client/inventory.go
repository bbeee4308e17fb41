// Package client holds outbound HTTP adapters used by the order
// orchestrator. Every call carries a bounded timeout; a timeout is an
// unknown outcome and is reported as an upstream error so the saga takes its
// compensating path instead of assuming success.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Jemin-Gandhi/CSE5234-Project/internal/domain/inventory"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/pkg/config"
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/pkg/errs"
)

type InventoryClient struct {
	baseURL string
	http    *http.Client
}

func NewInventoryClient(cfg config.UpstreamConfig) *InventoryClient {
	return &InventoryClient{
		baseURL: cfg.InventoryBaseURL,
		http:    &http.Client{Timeout: cfg.RequestTimeout},
	}
}

type itemPayload struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	PriceCents       int64  `json:"priceCents"`
	AvailableTickets int32  `json:"availableTickets"`
}

type reserveLinePayload struct {
	ID       int64 `json:"id"`
	Quantity int32 `json:"quantity"`
}

type reservePayload struct {
	Items []reserveLinePayload `json:"items"`
}

type shortfallPayload struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Requested int32  `json:"requested"`
	Available int32  `json:"available"`
}

type insufficientPayload struct {
	Error string             `json:"error"`
	Items []shortfallPayload `json:"items"`
}

// GetItem fetches the current name and price for one item from the store's
// read path. The returned availability is informational only.
func (c *InventoryClient) GetItem(ctx context.Context, id int64) (*inventory.Item, error) {
	url := fmt.Sprintf("%s/inventory-management/inventory/items/%d", c.baseURL, id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errs.Wrap(err, "failed to build inventory request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrUpstreamUnavailable)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, errs.ErrItemNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, errs.Mark(
			errs.New(fmt.Sprintf("inventory service returned %d", resp.StatusCode)),
			errs.ErrUpstreamUnavailable,
		)
	}

	var p itemPayload
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, errs.Mark(errs.Wrap(err, "failed to decode item"), errs.ErrUpstreamUnavailable)
	}

	return &inventory.Item{
		ID:               p.ID,
		Name:             p.Name,
		PriceCents:       p.PriceCents,
		AvailableTickets: p.AvailableTickets,
	}, nil
}

// Reserve submits the whole batch. A 409 is decoded into the full shortfall
// list so the caller can report every short line.
func (c *InventoryClient) Reserve(ctx context.Context, batch inventory.Batch) (inventory.Result, error) {
	resp, err := c.postBatch(ctx, c.baseURL+"/inventory-management/inventory/items", batch)
	if err != nil {
		return inventory.Result{}, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return inventory.Result{Committed: true}, nil
	case http.StatusConflict:
		var p insufficientPayload
		if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
			return inventory.Result{}, errs.Mark(errs.Wrap(err, "failed to decode shortfalls"), errs.ErrUpstreamUnavailable)
		}
		shortfalls := make([]inventory.Shortfall, len(p.Items))
		for i, s := range p.Items {
			shortfalls[i] = inventory.Shortfall{
				ItemID:    s.ID,
				Name:      s.Name,
				Requested: s.Requested,
				Available: s.Available,
			}
		}
		return inventory.Result{Committed: false, Shortfalls: shortfalls}, nil
	case http.StatusNotFound:
		return inventory.Result{}, errs.ErrItemNotFound
	default:
		return inventory.Result{}, errs.Mark(
			errs.New(fmt.Sprintf("inventory service returned %d", resp.StatusCode)),
			errs.ErrUpstreamUnavailable,
		)
	}
}

// Release gives the reserved quantities back. Used only on the compensating
// path after a committed reservation.
func (c *InventoryClient) Release(ctx context.Context, batch inventory.Batch) error {
	resp, err := c.postBatch(ctx, c.baseURL+"/inventory-management/inventory/items/release", batch)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errs.Mark(
			errs.New(fmt.Sprintf("inventory release returned %d", resp.StatusCode)),
			errs.ErrUpstreamUnavailable,
		)
	}
	return nil
}

func (c *InventoryClient) postBatch(ctx context.Context, url string, batch inventory.Batch) (*http.Response, error) {
	payload := reservePayload{Items: make([]reserveLinePayload, 0, batch.Len())}
	for _, l := range batch.Lines() {
		payload.Items = append(payload.Items, reserveLinePayload{ID: l.ItemID, Quantity: l.Quantity})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errs.Wrap(err, "failed to marshal batch")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, errs.Wrap(err, "failed to build inventory request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrUpstreamUnavailable)
	}
	return resp, nil
}
