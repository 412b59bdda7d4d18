// Package events defines the recommendation related events emitted on the
// event bus.
//
// Available event types:
//   - RequestEvent: a ranking request entered the engine
//   - ResultEvent: a ranking run completed
//   - FallbackEvent: the degraded ranking path was taken
package events

import (
	"time"

	"github.com/evnav/evnav/core/model"
)

// Event is the closed set of events carried on the engine bus. Consumers
// type-switch on the concrete types below.
type Event interface {
	requestID() string
}

// RequestEvent is published when a recommendation request starts processing.
type RequestEvent struct {
	RequestID string
	Context   model.UserContext
}

func (e RequestEvent) requestID() string { return e.RequestID }

// ResultEvent is published when a ranking run completes.
type ResultEvent struct {
	RequestID      string
	Returned       int
	FallbackUsed   bool
	TopScore       float64
	ProcessingTime time.Duration
}

func (e ResultEvent) requestID() string { return e.RequestID }

// FallbackEvent is emitted when strict filtering emptied the candidate set
// and the degraded ranking path produced the result instead.
type FallbackEvent struct {
	RequestID string
	Reason    string
}

func (e FallbackEvent) requestID() string { return e.RequestID }
