package player

import "context"

// Store loads and persists the whole record collection. Implementations
// return errors wrapping shared.ErrStorageUnavailable when the backing store
// cannot be read or written. A missing backing store loads as an empty
// collection.
type Store interface {
	Load(ctx context.Context) (Records, error)
	Save(ctx context.Context, records Records) error
}

// Locker is implemented by stores that can exclude writers in other processes.
// The returned release function must be called exactly once.
type Locker interface {
	Lock(ctx context.Context) (release func(context.Context) error, err error)
}
