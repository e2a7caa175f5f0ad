package stdx

// Must0 panics when the provided error is not nil. It is meant for
// call sites where an error genuinely cannot occur, or where the only
// sensible reaction is terminating the program.
//
// Parameters:
//   - err: The error to check. If it is not nil, the function panics.
func Must0(err error) {
	if err != nil {
		panic(err)
	}
}

// Must1 returns the value when err is nil and panics with err
// otherwise. It collapses the common value-and-error return into a
// single expression.
//
// T: The type of the value to be returned.
func Must1[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// Must2 is the two value form of Must1: it returns both values when
// err is nil and panics with err otherwise.
func Must2[T any, V any](t T, v V, err error) (T, V) {
	if err != nil {
		panic(err)
	}
	return t, v
}
