package autogroup

import "context"

// Store persists the links between Telegram chats (masters) and external
// chats (slaves), both identified by association keys.
type Store interface {
	// Link links slave to master. A slave has at most one master, so any
	// previous link of slave is replaced. Unless multipleSlaves is set,
	// other slaves of master are unlinked.
	Link(ctx context.Context, master, slave string, multipleSlaves bool) error

	// Unlink removes every link of slave.
	Unlink(ctx context.Context, slave string) error

	// Masters returns the masters linked to slave.
	Masters(ctx context.Context, slave string) ([]string, error)

	// Slaves returns the slaves linked to master.
	Slaves(ctx context.Context, master string) ([]string, error)
}
