package queue

// node links entries from head (oldest) to tail (newest).
type node struct {
	entry Entry
	prev  *node
}

// buffer is a FIFO of entries. It is not safe for concurrent use; Queue
// guards it with its own mutex.
type buffer struct {
	head *node
	tail *node
	size int
}

func newBuffer(entries ...Entry) *buffer {
	b := &buffer{}
	for _, e := range entries {
		b.PushBack(e)
	}
	return b
}

func (b *buffer) PushBack(e Entry) {
	n := &node{entry: e}
	if b.head == nil {
		b.head = n
		b.tail = n
	} else {
		b.tail.prev = n
		b.tail = n
	}
	b.size++
}

// Peek returns the head entry, or nil when empty. The pointer stays valid until
// the head is popped.
func (b *buffer) Peek() *Entry {
	if b.head == nil {
		return nil
	}
	return &b.head.entry
}

func (b *buffer) Pop() *Entry {
	if b.head == nil {
		return nil
	}
	tmp := b.head
	if b.head.prev != nil {
		b.head = b.head.prev
	} else {
		// removing the last one
		b.head = nil
		b.tail = nil
	}
	b.size--
	return &tmp.entry
}

// RemoveTail drops the last pushed entry. Used to undo a push that failed to persist.
func (b *buffer) RemoveTail() {
	if b.head == nil {
		return
	}
	if b.head == b.tail {
		b.head, b.tail = nil, nil
		b.size = 0
		return
	}
	n := b.head
	for n.prev != b.tail {
		n = n.prev
	}
	n.prev = nil
	b.tail = n
	b.size--
}

// Entries copies the buffer in FIFO order.
func (b *buffer) Entries() []Entry {
	entries := make([]Entry, 0, b.size)
	for n := b.head; n != nil; n = n.prev {
		entries = append(entries, n.entry)
	}
	return entries
}

func (b *buffer) Size() int {
	return b.size
}
