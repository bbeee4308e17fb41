package order

// CheckoutState tracks a checkout request through the fulfillment saga.
// Transitions only move forward; a failure exit is terminal.
type CheckoutState string

const (
	StateReceived   CheckoutState = "RECEIVED"
	StateValidated  CheckoutState = "VALIDATED"
	StateQuoted     CheckoutState = "QUOTED"
	StateReserved   CheckoutState = "RESERVED"
	StatePaid       CheckoutState = "PAID"
	StatePersisted  CheckoutState = "PERSISTED"
	StateDispatched CheckoutState = "DISPATCHED"

	// Failure exits. REJECTED means nothing was committed downstream; the
	// other three mark where the saga stopped and what was compensated.
	StateRejected          CheckoutState = "REJECTED"
	StateReservationFailed CheckoutState = "RESERVATION_FAILED"
	StatePaymentFailed     CheckoutState = "PAYMENT_FAILED"
	StatePersistFailed     CheckoutState = "PERSIST_FAILED"
)

func (s CheckoutState) Terminal() bool {
	switch s {
	case StateDispatched, StateRejected, StateReservationFailed, StatePaymentFailed, StatePersistFailed:
		return true
	}
	return false
}
