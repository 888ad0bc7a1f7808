// Package blocklist is a minimal singly linked list that owns its elements.
//
// It is the ordered sequence used to hold landing blocks: elements are only
// ever appended or inserted after an existing node, traversal is from the
// head, and the whole list is torn down at once with a per element cleanup.
package blocklist

// Node holds a list element.
type Node[T any] struct {
	next  *Node[T]
	Value T
}

// Next returns the node after n, or nil at the tail.
func (n *Node[T]) Next() *Node[T] {
	if n == nil {
		return nil
	}
	return n.next
}

// List is a singly linked list with O(1) access to both ends.
type List[T any] struct {
	head *Node[T]
	tail *Node[T]
	size int
}

// New allocates an empty list.
func New[T any]() *List[T] {
	return &List[T]{}
}

// Len returns the number of elements.
func (l *List[T]) Len() int {
	if l == nil {
		return 0
	}
	return l.size
}

// Head returns the first node.
func (l *List[T]) Head() *Node[T] {
	if l == nil {
		return nil
	}
	return l.head
}

// Tail returns the last node.
func (l *List[T]) Tail() *Node[T] {
	if l == nil {
		return nil
	}
	return l.tail
}

// InsertAfter adds value after prev, or at the head if prev is nil.
//
// prev must be a node of l.
func (l *List[T]) InsertAfter(prev *Node[T], value T) *Node[T] {
	if l == nil {
		return nil
	}
	node := &Node[T]{Value: value}
	if prev == nil {
		node.next = l.head
		l.head = node
		if l.tail == nil {
			l.tail = node
		}
	} else {
		node.next = prev.next
		prev.next = node
		if l.tail == prev {
			l.tail = node
		}
	}
	l.size++
	return node
}

// Append adds value at the tail.
func (l *List[T]) Append(value T) *Node[T] {
	if l == nil {
		return nil
	}
	return l.InsertAfter(l.tail, value)
}

// At walks n steps from the head. It returns nil if the list is shorter than
// that.
func (l *List[T]) At(n int) *Node[T] {
	if l == nil || n < 0 || n >= l.size {
		return nil
	}
	node := l.head
	for ; n > 0; n-- {
		node = node.next
	}
	return node
}

// Destroy calls destroy, if it is not nil, for every element from head to
// tail and then empties the list.
func (l *List[T]) Destroy(destroy func(T)) {
	if l == nil {
		return
	}
	for node := l.head; node != nil; {
		next := node.next
		if destroy != nil {
			destroy(node.Value)
		}
		var zero T
		node.Value = zero
		node.next = nil
		node = next
	}
	l.head = nil
	l.tail = nil
	l.size = 0
}
