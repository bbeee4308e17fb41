package inventory

// Item is a row in the inventory store. AvailableTickets is the
// quantity-on-hand and never goes negative; it is decremented only inside a
// committed reservation transaction.
type Item struct {
	ID               int64
	Name             string
	PriceCents       int64
	AvailableTickets int32
}

// Shortfall describes one line of a reservation that could not be satisfied.
type Shortfall struct {
	ItemID    int64
	Name      string
	Requested int32
	Available int32
}
