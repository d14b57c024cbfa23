package port

import "context"

// JournalPoster posts an assembled journal payload to the cloud accounting
// system. Implementations own authentication and token refresh; callers see
// only success or a typed transport failure.
type JournalPoster interface {
	PostJournal(ctx context.Context, payload []byte) error
}
