package cache

import "todoctl/internal/service"

// Kind identifies a mutation.
type Kind string

const (
	KindAdd    Kind = "add"
	KindUpdate Kind = "update"
	KindDelete Kind = "delete"
)

func (k Kind) title() string {
	switch k {
	case KindAdd:
		return "Add"
	case KindUpdate:
		return "Update"
	case KindDelete:
		return "Delete"
	}
	return string(k)
}

// Outcome is how a mutation ended.
type Outcome int

const (
	// Skipped means the begin phase did nothing and no remote call was made.
	Skipped Outcome = iota
	// Committed means the remote call succeeded.
	Committed
	// Aborted means the remote call failed and the cache was rolled back.
	Aborted
)

func (o Outcome) String() string {
	switch o {
	case Skipped:
		return "skipped"
	case Committed:
		return "committed"
	case Aborted:
		return "aborted"
	}
	return "unknown"
}

// Result describes a settled mutation.
type Result struct {
	Kind    Kind
	ID      string       // target ID; the temporary ID for adds
	Outcome Outcome
	Todo    service.Todo // server echo when committed
	Err     error        // remote failure when aborted
}
