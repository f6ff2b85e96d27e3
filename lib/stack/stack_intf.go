package stack

// Stack is a LIFO container. It is not thread safe.
type Stack[T any] interface {
	Len() int64
	IsEmpty() bool
	Push(v T)
	// Pop removes the most recently pushed value or returns false if empty.
	Pop() (T, bool)
	Top() (T, bool)
	// TopMut returns a pointer to the top value or nil if empty.
	TopMut() *T
}
