// Package localstore is the client's durable key/value storage. Values are
// strings; a missing key is reported by ok == false, not an error.
package localstore

import (
	"context"
)

type Repository interface {
	GetItem(ctx context.Context, key string) (value string, ok bool, err error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}
