package queue

// Queue is a minimal FIFO.
type Queue[T any] interface {
	// Push adds an item to the queue
	Push(item T)
	// Len returns the number of items in the queue
	Len() int
	// Pop removes and returns the first item in the queue
	Pop() (item T)
}

// Default returns a new slice backed queue.
func Default[T any]() Queue[T] {
	return new(queue[T])
}

type queue[T any] []T

func (q *queue[T]) Push(item T) {
	*q = append(*q, item)
}

func (q *queue[T]) Len() int {
	return len(*q)
}

func (q *queue[T]) Pop() (item T) {
	item = (*q)[0]
	(*q)[0] = *new(T)
	*q = (*q)[1:]
	return item
}
