package holidays

import "context"

type Repository interface {
	// List returns holiday dates as sorted YYYY-MM-DD strings.
	List(ctx context.Context) ([]string, error)
	// Replace swaps the whole holiday set. Run it inside a transaction.
	Replace(ctx context.Context, dates []string) error
}
