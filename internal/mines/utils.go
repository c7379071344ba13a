package mines

// celltodo is a FIFO of cell indices threaded through next. Each index can be
// queued at most once for the lifetime of the list, which makes the list its
// own seen set.
type celltodo struct {
	next       []int
	seen       []bool
	head, tail int
}

func newCellTodo(n int) *celltodo {
	return &celltodo{
		next: make([]int, n),
		seen: make([]bool, n),
		head: -1, tail: -1,
	}
}

func (std *celltodo) add(i int) bool {
	if std.seen[i] {
		return false
	}
	std.seen[i] = true
	if std.tail >= 0 {
		std.next[std.tail] = i
	} else {
		std.head = i
	}
	std.tail = i
	std.next[i] = -1
	return true
}

func (std *celltodo) pop() (int, bool) {
	if std.head < 0 {
		return 0, false
	}
	i := std.head
	std.head = std.next[i]
	if std.head < 0 {
		std.tail = -1
	}
	return i, true
}
