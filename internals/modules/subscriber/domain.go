package subscriber

import "time"

// Subscriber is a notification recipient. It starts inactive and becomes
// active once the address is confirmed.
type Subscriber struct {
	ID      int64
	Email   string
	Active  bool
	Created time.Time
}
