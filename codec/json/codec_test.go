package json_test

import (
	"math/rand/v2"
	"slices"
	"strconv"
	"testing"

	"github.com/teenjuna/deq/codec/json"
	"github.com/teenjuna/deq/internal/testing/require"
)

func TestCodec(t *testing.T) {
	type Item struct {
		ID string
		N1 int
		N2 float64
	}

	codec := json.New[Item]()

	var items []Item
	for i := range 1000 {
		items = append(items, Item{
			ID: strconv.Itoa(i),
			N1: rand.IntN(1000),
			N2: rand.Float64() * 1000,
		})
	}

	data, err := codec.Encode(slices.Values(items))
	require.Nil(t, err)
	require.NotEqual(t, len(data), 0)

	var decoded []Item
	err = codec.Decode(data, func(item Item) {
		decoded = append(decoded, item)
	})
	require.Nil(t, err)
	require.Equal(t, decoded, items)
}

func TestCodecEmpty(t *testing.T) {
	codec := json.New[int]()

	data, err := codec.Encode(slices.Values([]int(nil)))
	require.Nil(t, err)

	err = codec.Decode(data, func(int) {
		t.Fatal("unexpected item")
	})
	require.Nil(t, err)
}
