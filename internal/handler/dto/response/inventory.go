package response

import (
	"github.com/Jemin-Gandhi/CSE5234-Project/internal/domain/inventory"

	"github.com/jinzhu/copier"
)

type ItemResponse struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	PriceCents       int64  `json:"priceCents"`
	AvailableTickets int32  `json:"availableTickets"`
}

type ShortfallItem struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Requested int32  `json:"requested"`
	Available int32  `json:"available"`
}

// InsufficientResponse is the 409 body for a reservation that could not be
// fully satisfied. It lists every short line, not just the first one.
type InsufficientResponse struct {
	Error string          `json:"error"`
	Items []ShortfallItem `json:"items"`
}

func FromItem(item *inventory.Item) *ItemResponse {
	var resp ItemResponse
	_ = copier.Copy(&resp, item)
	return &resp
}

func FromItems(items []inventory.Item) []*ItemResponse {
	resp := make([]*ItemResponse, len(items))
	for i := range items {
		resp[i] = FromItem(&items[i])
	}
	return resp
}

func FromShortfalls(shortfalls []inventory.Shortfall) *InsufficientResponse {
	items := make([]ShortfallItem, len(shortfalls))
	for i, s := range shortfalls {
		items[i] = ShortfallItem{
			ID:        s.ItemID,
			Name:      s.Name,
			Requested: s.Requested,
			Available: s.Available,
		}
	}
	return &InsufficientResponse{
		Error: "Insufficient inventory",
		Items: items,
	}
}
