package darray_test

import (
	"testing"

	"github.com/forestrie/go-landings/darray"
	"github.com/forestrie/go-landings/darraytesting"
	"github.com/forestrie/go-landings/landing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(t *testing.T) darraytesting.TestContext {
	return newSeededTestContext(t, 1)
}

func newSeededTestContext(t *testing.T, seed uint64) darraytesting.TestContext {
	return darraytesting.NewTestContext(t, darraytesting.TestConfig{
		Seed: seed, TestLabelPrefix: t.Name(),
	})
}

func intp(v int) *int { return &v }

func TestNew(t *testing.T) {
	a, err := darray.New[string]()
	require.NoError(t, err)
	assert.Equal(t, 0, a.Size())
	assert.Equal(t, -1, a.LargestIndex())
	assert.Equal(t, 0, a.LandingCount())
	assert.Equal(t, 0, a.Capacity())
}

func TestGet(t *testing.T) {
	tc := newTestContext(t)

	t.Run("nil array", func(t *testing.T) {
		var a *darray.Array[*int]
		v, ok := a.Get(0)
		assert.False(t, ok)
		assert.Nil(t, v)
	})

	a := tc.NewArray(darraytesting.NewTracker())
	tc.Prep(a, false)

	t.Run("negative index", func(t *testing.T) {
		_, ok := a.Get(-1)
		assert.False(t, ok)
	})

	t.Run("index 0 and 1", func(t *testing.T) {
		v, ok := a.Get(0)
		require.True(t, ok)
		assert.Equal(t, 9, *v)
		v, ok = a.Get(1)
		require.True(t, ok)
		assert.Equal(t, 8, *v)
	})

	t.Run("beyond size does not grow", func(t *testing.T) {
		landings := a.LandingCount()
		_, ok := a.Get(a.Size() + 1)
		assert.False(t, ok)
		_, ok = a.Get(a.Size() + 512)
		assert.False(t, ok)
		assert.Equal(t, landings, a.LandingCount())
	})

	t.Run("cleared cache", func(t *testing.T) {
		darray.ResetCacheForTesting(a)
		v, ok := a.Get(0)
		require.True(t, ok)
		assert.Equal(t, 9, *v)
	})
}

func TestGetFreshArray(t *testing.T) {
	a, err := darray.New[int]()
	require.NoError(t, err)
	_, ok := a.Get(a.Size() + 1)
	assert.False(t, ok)
	assert.Equal(t, 0, a.LandingCount())
}

func TestSet(t *testing.T) {
	tc := newTestContext(t)

	t.Run("nil array", func(t *testing.T) {
		var a *darray.Array[*int]
		require.ErrorIs(t, a.Set(0, intp(0)), darray.ErrInvalidArgument)
	})

	t.Run("negative index", func(t *testing.T) {
		a := tc.NewArray(nil)
		require.ErrorIs(t, a.Set(-1, intp(0)), darray.ErrInvalidArgument)
		assert.Equal(t, 0, a.LandingCount())
		assert.Equal(t, -1, a.LargestIndex())
	})

	t.Run("read your write", func(t *testing.T) {
		a := tc.NewArray(nil)
		require.NoError(t, a.Set(0, intp(9)))
		require.NoError(t, a.Set(1, intp(8)))
		v, ok := a.Get(0)
		require.True(t, ok)
		assert.Equal(t, 9, *v)
		v, ok = a.Get(1)
		require.True(t, ok)
		assert.Equal(t, 8, *v)
		assert.Equal(t, 2, a.Size())
		assert.Equal(t, 1, a.LargestIndex())
		assert.Equal(t, 1, a.LandingCount())
		assert.Equal(t, 8, a.Capacity())
	})

	t.Run("distant index", func(t *testing.T) {
		a := tc.NewArray(nil)
		x := intp(42)
		require.NoError(t, a.Set(600, x))
		assert.Equal(t, int(landing.LandingsFor(600)), a.LandingCount())
		assert.Equal(t, 7, a.LandingCount())
		assert.Equal(t, int(landing.TotalCapacity(7)), a.Capacity())
		v, ok := a.Get(600)
		require.True(t, ok)
		assert.Same(t, x, v)
		_, ok = a.Get(599)
		assert.False(t, ok)
		assert.Equal(t, 1, a.Size())
		assert.Equal(t, 600, a.LargestIndex())
	})

	t.Run("holes read empty", func(t *testing.T) {
		a := tc.NewArray(nil)
		require.NoError(t, a.Set(3, intp(3)))
		require.NoError(t, a.Set(40, intp(40)))
		for i := 0; i <= a.LargestIndex(); i++ {
			_, ok := a.Get(i)
			assert.Equal(t, i == 3 || i == 40, ok, "index %d", i)
		}
	})
}

func TestOverwriteReleasesPrevious(t *testing.T) {
	tc := newTestContext(t)
	tracker := darraytesting.NewTracker()
	a := tc.NewArray(tracker)

	first, second := intp(1), intp(2)
	require.NoError(t, a.Set(5, first))
	require.NoError(t, a.Set(5, second))

	assert.Equal(t, 1, tracker.Count(first))
	assert.Equal(t, 0, tracker.Count(second))
	assert.Equal(t, 1, a.Size())
	v, ok := a.Get(5)
	require.True(t, ok)
	assert.Same(t, second, v)
}

func TestClear(t *testing.T) {
	tc := newTestContext(t)
	tracker := darraytesting.NewTracker()
	a := tc.NewArray(tracker)

	p := intp(12)
	require.NoError(t, a.Set(0, p))
	size := a.Size()

	require.NoError(t, a.Clear(0))
	assert.Equal(t, size-1, a.Size())
	_, ok := a.Get(0)
	assert.False(t, ok)
	assert.Equal(t, 1, tracker.Count(p))

	// the frontier is not lowered, and clearing a hole changes nothing
	assert.Equal(t, 0, a.LargestIndex())
	require.NoError(t, a.Clear(0))
	assert.Equal(t, 0, a.Size())
	assert.Equal(t, 1, tracker.Total())

	// beyond the frontier is a no-op
	landings := a.LandingCount()
	require.NoError(t, a.Clear(1000))
	assert.Equal(t, landings, a.LandingCount())
	assert.Equal(t, 0, a.LargestIndex())

	require.ErrorIs(t, a.Clear(-1), darray.ErrInvalidArgument)
}

func TestTake(t *testing.T) {
	tc := newTestContext(t)
	tracker := darraytesting.NewTracker()
	a := tc.NewArray(tracker)
	payloads := tc.Prep(a, false)

	v, ok, err := a.Take(2)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Same(t, payloads[2], v)
	assert.Equal(t, 0, tracker.Total())
	assert.Equal(t, len(payloads)-1, a.Size())

	_, ok, err = a.Take(2)
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = a.Take(100)
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = a.Take(-3)
	require.ErrorIs(t, err, darray.ErrInvalidArgument)
}

func TestAll(t *testing.T) {
	a, err := darray.New[string]()
	require.NoError(t, err)
	for _, i := range []int{0, 7, 8, 30, 600} {
		require.NoError(t, a.Set(i, string(rune('a'+i%26))))
	}
	require.NoError(t, a.Clear(30))

	var indices []int
	for i, v := range a.All() {
		indices = append(indices, i)
		got, ok := a.Get(i)
		require.True(t, ok)
		require.Equal(t, got, v)
	}
	assert.Equal(t, []int{0, 7, 8, 600}, indices)

	// early termination
	n := 0
	for range a.All() {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}

func TestDestroy(t *testing.T) {
	tc := newTestContext(t)

	t.Run("releases every payload once", func(t *testing.T) {
		tracker := darraytesting.NewTracker()
		a := tc.NewArray(tracker)
		payloads := tc.Prep(a, true)
		far := intp(1)
		require.NoError(t, a.Set(2000, far))
		require.NoError(t, a.Clear(4))

		require.NoError(t, a.Destroy())
		for i, p := range payloads {
			assert.Equal(t, 1, tracker.Count(p), "payload %d", i)
		}
		assert.Equal(t, 1, tracker.Count(far))
		assert.Equal(t, len(payloads)+1, tracker.Total())
		assert.Same(t, far, tracker.Order()[tracker.Total()-1])
	})

	t.Run("empty array", func(t *testing.T) {
		tracker := darraytesting.NewTracker()
		a := tc.NewArray(tracker)
		require.NoError(t, a.Destroy())
		assert.Equal(t, 0, tracker.Total())
	})

	t.Run("without release the caller keeps ownership", func(t *testing.T) {
		a := tc.NewArray(nil)
		tc.Prep(a, false)
		require.NoError(t, a.Destroy())
	})

	t.Run("handle is unusable afterwards", func(t *testing.T) {
		a := tc.NewArray(darraytesting.NewTracker())
		tc.Prep(a, false)
		require.NoError(t, a.Destroy())

		require.ErrorIs(t, a.Destroy(), darray.ErrDestroyed)
		require.ErrorIs(t, a.Set(0, intp(1)), darray.ErrDestroyed)
		require.ErrorIs(t, a.Clear(0), darray.ErrDestroyed)
		_, _, err := a.Take(0)
		require.ErrorIs(t, err, darray.ErrDestroyed)
		_, ok := a.Get(0)
		assert.False(t, ok)
		assert.Equal(t, 0, a.Size())
		assert.Equal(t, 0, a.LandingCount())
		assert.Equal(t, -1, a.LargestIndex())
	})

	t.Run("nil array", func(t *testing.T) {
		var a *darray.Array[int]
		require.ErrorIs(t, a.Destroy(), darray.ErrInvalidArgument)
	})
}

func TestWithReleaseTypeMismatch(t *testing.T) {
	a, err := darray.New[int](darray.WithRelease(func(string) {}))
	require.ErrorIs(t, err, darray.ErrInvalidArgument)
	assert.Nil(t, a)

	// a later matching release does not excuse the mismatch
	_, err = darray.New[int](darray.WithRelease(func(string) {}), darray.WithRelease(func(int) {}))
	require.ErrorIs(t, err, darray.ErrInvalidArgument)

	released := 0
	a, err = darray.New[int](darray.WithRelease(func(int) { released++ }))
	require.NoError(t, err)
	require.NoError(t, a.Set(0, 1))
	require.NoError(t, a.Set(0, 2))
	require.NoError(t, a.Destroy())
	assert.Equal(t, 2, released)
}

func TestWithFrontier(t *testing.T) {
	tc := newTestContext(t)
	a := tc.NewArray(nil, darray.WithFrontier(600))

	assert.Equal(t, 600, a.LargestIndex())
	assert.Equal(t, 0, a.Size())
	assert.Equal(t, 7, a.LandingCount())
	for _, idx := range []int{0, 599, 600, 601} {
		_, ok := a.Get(idx)
		assert.False(t, ok, "index %d", idx)
	}

	// the frontier only moves forward
	require.NoError(t, a.Set(10, intp(10)))
	assert.Equal(t, 600, a.LargestIndex())
	require.NoError(t, a.Set(700, intp(700)))
	assert.Equal(t, 700, a.LargestIndex())

	_, err := darray.New[int](darray.WithFrontier(-2))
	require.ErrorIs(t, err, darray.ErrInvalidArgument)

	budget := darray.NewBudget(64)
	_, err = darray.New[int](darray.WithAllocator(budget), darray.WithFrontier(600))
	require.ErrorIs(t, err, darray.ErrAllocation)
	assert.Equal(t, uint64(0), budget.Used())
}

func TestGrow(t *testing.T) {
	tc := newTestContext(t)
	a := tc.NewArray(nil)

	require.NoError(t, a.Grow(0))
	assert.Equal(t, 0, a.LandingCount())

	require.NoError(t, a.Grow(3))
	assert.Equal(t, 3, a.LandingCount())
	assert.Equal(t, int(landing.TotalCapacity(3)), a.Capacity())
	assert.Equal(t, -1, a.LargestIndex())
	_, ok := a.Get(20)
	assert.False(t, ok)

	// never shrinks
	require.NoError(t, a.Grow(1))
	assert.Equal(t, 3, a.LandingCount())

	require.ErrorIs(t, a.Grow(-1), darray.ErrInvalidArgument)
	require.ErrorIs(t, a.Grow(int(landing.MaxLanding)+2), darray.ErrAllocation)

	require.NoError(t, a.Destroy())
	require.ErrorIs(t, a.Grow(4), darray.ErrDestroyed)
}
