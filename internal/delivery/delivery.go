// Package delivery defines the transport-facing entry points of the planner.
package delivery

import "context"

// Delivery is a serving surface (HTTP today) started by the application root.
type Delivery interface {
	Serve(ctx context.Context) error
}
