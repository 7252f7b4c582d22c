package deq_test

import (
	"testing"

	"github.com/teenjuna/deq"
)

// Sink variables
var sinkInt int
var sinkBool bool
var sinkItems []int

// BenchmarkPushPop measures a single-item round trip through the buffer.
func BenchmarkPushPop(b *testing.B) {
	buffer, err := deq.New[int]()
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()

	var v int
	var ok bool
	for i := 0; i < b.N; i++ {
		buffer.Push(i)
		v, ok = buffer.Pop()
	}
	sinkInt = v
	sinkBool = ok
}

// BenchmarkPushAllDrain measures batched insertion and atomic removal.
func BenchmarkPushAllDrain(b *testing.B) {
	const batch = 128

	buffer, err := deq.New[int]()
	if err != nil {
		b.Fatal(err)
	}
	items := make([]int, batch)
	for i := range items {
		items[i] = i
	}
	b.ReportAllocs()
	b.ResetTimer()

	var drained []int
	for i := 0; i < b.N; i++ {
		buffer.PushAll(items...)
		drained = buffer.Drain()
	}
	sinkItems = drained
}
