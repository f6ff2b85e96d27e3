package queue

// Queue is a FIFO container. It is not thread safe.
type Queue[E any] interface {
	Len() int64
	IsEmpty() bool
	// Push adds the value at the tail.
	Push(v E)
	// Pop removes the value at the head or returns false if empty.
	Pop() (E, bool)
	// Top peeks the head value.
	Top() (E, bool)
	// TopMut returns a pointer to the head value or nil if empty.
	TopMut() *E
}
