package ports

import (
	"context"
	"encoding/json"
)

// Gateway is the single outbound channel to the CMS API. Every request made
// through it carries the current bearer credential when one is stored.
type Gateway interface {
	Do(ctx context.Context, method, path string, body any) (json.RawMessage, error)
}
