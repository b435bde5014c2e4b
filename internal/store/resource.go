package store

// Resource is a remotely fetched value with its own loading and error state.
//
// Every fetch is tagged with a sequence number when it starts. Only the
// result of the most recently started fetch is applied; older results are
// dropped so a slow response can never overwrite a newer one.
type Resource[T any] struct {
	Data    T
	Loading bool
	// Err is the last failure message, empty when the last fetch succeeded.
	Err string
	// Rev increments every time Data is replaced.
	Rev uint64

	pending uint64
}

// Begin marks a fetch tagged seq as in flight.
func (r Resource[T]) Begin(seq uint64) Resource[T] {
	r.Loading = true
	r.Err = ""
	r.pending = seq
	return r
}

// Queue marks the resource as loading before the fetch has a sequence
// number, as for a debounced fetch still waiting to fire. Fetches already in
// flight are superseded.
func (r Resource[T]) Queue() Resource[T] {
	r.Loading = true
	r.Err = ""
	r.pending = 0
	return r
}

// Current reports whether seq belongs to the most recently started fetch.
func (r Resource[T]) Current(seq uint64) bool {
	return seq == r.pending
}

func (r Resource[T]) Succeed(seq uint64, data T) Resource[T] {
	if seq != r.pending {
		return r
	}
	r.Data = data
	r.Rev++
	r.Loading = false
	r.Err = ""
	return r
}

func (r Resource[T]) Fail(seq uint64, msg string) Resource[T] {
	if seq != r.pending {
		return r
	}
	r.Loading = false
	r.Err = msg
	return r
}

// Clear discards the data and error and orphans any fetch in flight.
func (r Resource[T]) Clear() Resource[T] {
	var zero T
	return Resource[T]{Data: zero, Rev: r.Rev + 1}
}

// Op is a resource transition that does not depend on the data type, so
// containers can route it to any of their resources.
type Op struct {
	kind opKind
	seq  uint64
	msg  string
}

type opKind int

const (
	opQueue opKind = iota
	opBegin
	opFail
)

func QueueOp() Op { return Op{kind: opQueue} }
func BeginOp(seq uint64) Op { return Op{kind: opBegin, seq: seq} }
func FailOp(seq uint64, msg string) Op { return Op{kind: opFail, seq: seq, msg: msg} }

func (r Resource[T]) Apply(o Op) Resource[T] {
	switch o.kind {
	case opQueue:
		return r.Queue()
	case opBegin:
		return r.Begin(o.seq)
	case opFail:
		return r.Fail(o.seq, o.msg)
	}
	return r
}

// Key is the observable state of a resource, for selector memoization.
type Key struct {
	Rev     uint64
	Loading bool
	Err     string
}

func (r Resource[T]) Key() Key {
	return Key{Rev: r.Rev, Loading: r.Loading, Err: r.Err}
}
