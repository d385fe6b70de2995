package sizing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type rendered struct {
	HTML  string
	Lines []string
	Meta  map[string]int
}

type selfSized struct{}

func (selfSized) Size() int64 { return 4242 }

type node struct {
	Name string
	Next *node
}

func TestStructuralStrings(t *testing.T) {
	est := Structural{}

	assert.Equal(t, int64(0), est.Estimate(nil))
	assert.Equal(t, int64(16+5), est.Estimate("hello"))
	assert.Equal(t, int64(24+3), est.Estimate([]byte("abc")))
	assert.Less(t, est.Estimate("short"), est.Estimate(strings.Repeat("x", 1000)))
}

func TestStructuralNumbers(t *testing.T) {
	est := Structural{}

	assert.Equal(t, int64(8), est.Estimate(42))
	assert.Equal(t, int64(1), est.Estimate(true))
	assert.Equal(t, int64(4), est.Estimate(float32(1)))
	assert.Equal(t, int64(24+10*8), est.Estimate(make([]int64, 10)))
}

func TestStructuralComposite(t *testing.T) {
	est := Structural{}

	small := rendered{HTML: "<p>a</p>"}
	large := rendered{
		HTML:  strings.Repeat("<p>a</p>", 100),
		Lines: []string{"one", "two"},
		Meta:  map[string]int{"words": 2},
	}

	assert.Equal(t, est.Estimate(small), est.Estimate(small), "must be deterministic")
	assert.Greater(t, est.Estimate(large), est.Estimate(small))
	assert.Greater(t, est.Estimate(&large), est.Estimate(large))
}

func TestStructuralSizer(t *testing.T) {
	est := Structural{}

	assert.Equal(t, int64(4242), est.Estimate(selfSized{}))
	assert.Equal(t, int64(4242*2), est.Estimate([]selfSized{{}, {}})-24)
}

func TestStructuralCycle(t *testing.T) {
	a := &node{Name: "a"}
	b := &node{Name: "b", Next: a}
	a.Next = b

	n := Structural{}.Estimate(a)
	assert.Positive(t, n)

	s := make([]any, 4)
	for i := range s {
		s[i] = s
	}
	assert.Equal(t, int64(24+4*(16+24)), Structural{}.Estimate(s))

	m := map[string]any{}
	m["self"] = m
	m["again"] = m
	assert.Equal(t, int64(48+(16+4)+(16+48)+(16+5)+(16+48)), Structural{}.Estimate(m))
}

func TestStructuralUnintrospectable(t *testing.T) {
	est := Structural{}

	assert.Equal(t, DefaultSize, est.Estimate(make(chan int)))
	assert.Equal(t, DefaultSize, est.Estimate(func() {}))
}

func TestSafeRecoversPanics(t *testing.T) {
	boom := Func(func(any) int64 { panic("boom") })
	negative := Func(func(any) int64 { return -5 })

	assert.Equal(t, DefaultSize, Safe(boom, "x"))
	assert.Equal(t, DefaultSize, Safe(negative, "x"))
	assert.Equal(t, int64(16+1), Safe(nil, "x"))
}

func TestEntrySize(t *testing.T) {
	got := EntrySize(Structural{}, "key", "value")
	assert.Equal(t, EntryOverhead+3+16+5, got)
}
