package reel

// Ring 定长双端环形缓冲，首尾插入/弹出均为 O(1)
type Ring[T any] struct {
	buf  []T
	head int
	size int
}

func NewRing[T any](capacity int) *Ring[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring[T]{buf: make([]T, capacity)}
}

func (r *Ring[T]) Len() int { return r.size }
func (r *Ring[T]) Cap() int { return len(r.buf) }
func (r *Ring[T]) Full() bool { return r.size == len(r.buf) }

func (r *Ring[T]) slot(i int) int {
	n := len(r.buf)
	return ((r.head+i)%n + n) % n
}

// At 逻辑下标读取，0 为队首，下标对长度取模
func (r *Ring[T]) At(i int) T {
	var zero T
	if r.size == 0 {
		return zero
	}
	i %= r.size
	if i < 0 {
		i += r.size
	}
	return r.buf[r.slot(i)]
}

// Set 覆盖逻辑下标 i，越界忽略
func (r *Ring[T]) Set(i int, v T) {
	if i < 0 || i >= r.size {
		return
	}
	r.buf[r.slot(i)] = v
}

// Unshift 队首插入，已满返回 false
func (r *Ring[T]) Unshift(v T) bool {
	if r.Full() {
		return false
	}
	r.head = r.slot(-1)
	r.buf[r.head] = v
	r.size++
	return true
}

// Push 队尾插入，已满返回 false
func (r *Ring[T]) Push(v T) bool {
	if r.Full() {
		return false
	}
	r.buf[r.slot(r.size)] = v
	r.size++
	return true
}

// Pop 弹出队尾
func (r *Ring[T]) Pop() (T, bool) {
	var zero T
	if r.size == 0 {
		return zero, false
	}
	idx := r.slot(r.size - 1)
	v := r.buf[idx]
	r.buf[idx] = zero
	r.size--
	return v, true
}

// Shift 弹出队首
func (r *Ring[T]) Shift() (T, bool) {
	var zero T
	if r.size == 0 {
		return zero, false
	}
	v := r.buf[r.head]
	r.buf[r.head] = zero
	r.head = r.slot(1)
	r.size--
	return v, true
}

// Rotate 队尾出、队首入，长度不变
func (r *Ring[T]) Rotate(v T) (dropped T) {
	dropped, _ = r.Pop()
	r.Unshift(v)
	return dropped
}

// Slice 按队首到队尾顺序复制
func (r *Ring[T]) Slice() []T {
	out := make([]T, r.size)
	for i := range out {
		out[i] = r.buf[r.slot(i)]
	}
	return out
}

func (r *Ring[T]) Reset() {
	var zero T
	for i := range r.buf {
		r.buf[i] = zero
	}
	r.head = 0
	r.size = 0
}
