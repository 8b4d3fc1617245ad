package sanitize

type optState uint8

const (
	stateAbsent optState = iota
	stateInvalid
	stateOK
)

// Opt is the result of a lenient conversion. It distinguishes a value that
// was never supplied from one that was supplied but could not be parsed.
type Opt[T any] struct {
	val   T
	state optState
}

func some[T any](v T) Opt[T] { return Opt[T]{val: v, state: stateOK} }

func absent[T any]() Opt[T] { return Opt[T]{} }

func invalid[T any]() Opt[T] { return Opt[T]{state: stateInvalid} }

// Get returns the value and whether it is usable.
func (o Opt[T]) Get() (T, bool) { return o.val, o.state == stateOK }

// OK reports whether a usable value is present.
func (o Opt[T]) OK() bool { return o.state == stateOK }

// Absent reports whether the input was missing or empty.
func (o Opt[T]) Absent() bool { return o.state == stateAbsent }

// Invalid reports whether input was present but unusable.
func (o Opt[T]) Invalid() bool { return o.state == stateInvalid }

// Or returns the value, or def when it is not usable.
func (o Opt[T]) Or(def T) T {
	if o.state == stateOK {
		return o.val
	}
	return def
}

// Ptr returns a pointer to a copy of the value, or nil.
func (o Opt[T]) Ptr() *T {
	if o.state != stateOK {
		return nil
	}
	v := o.val
	return &v
}
