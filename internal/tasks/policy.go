package tasks

import "fmt"

// Op is a task mutation the controller performs.
type Op int

const (
	OpAdd Op = iota
	OpComplete
	OpRemoveCompleted
)

func (o Op) String() string {
	switch o {
	case OpAdd:
		return "add"
	case OpComplete:
		return "complete"
	case OpRemoveCompleted:
		return "remove-completed"
	}
	return fmt.Sprintf("op(%d)", int(o))
}

// Policy is how local state is reconciled after a successful mutation.
type Policy int

const (
	// OptimisticAppend applies the server's returned object locally. Only valid
	// when the response fully describes the change.
	OptimisticAppend Policy = iota
	// ForceRefresh refetches the whole collection.
	ForceRefresh
)

func (p Policy) String() string {
	if p == OptimisticAppend {
		return "optimistic-append"
	}
	return "force-refresh"
}

var policies = map[Op]Policy{
	OpAdd:             OptimisticAppend,
	OpComplete:        ForceRefresh,
	OpRemoveCompleted: ForceRefresh,
}

// PolicyFor returns the declared reconciliation policy of op.
// Unknown operations refresh.
func PolicyFor(op Op) Policy {
	if p, ok := policies[op]; ok {
		return p
	}
	return ForceRefresh
}
