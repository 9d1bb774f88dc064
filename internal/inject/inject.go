package inject

import "context"

// Injector defines the interface for handing a transcript to the user
type Injector interface {
	Deliver(ctx context.Context, text string) error
}
