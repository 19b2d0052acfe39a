package components

// Adder is implemented by accumulator types whose zero value is the additive identity.
type Adder[T any] interface {
	Add(T) T
}

// Sum folds xs with Add, starting from the zero value of T.
// An empty input yields the zero value.
func Sum[T Adder[T]](xs ...T) T {
	var acc T
	for _, x := range xs {
		acc = acc.Add(x)
	}
	return acc
}

// SumFunc maps each element through f and folds the results.
func SumFunc[E any, T Adder[T]](xs []E, f func(E) T) T {
	var acc T
	for _, x := range xs {
		acc = acc.Add(f(x))
	}
	return acc
}
