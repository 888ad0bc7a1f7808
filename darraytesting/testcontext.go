package darraytesting

import (
	"math/rand/v2"
	"testing"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/forestrie/go-landings/darray"
	"github.com/stretchr/testify/require"
)

type TestContext struct {
	Log  logger.Logger
	Rand *rand.Rand
	T    *testing.T
}

type TestConfig struct {
	// We seed the RNG with Seed. It is normal to force it to some fixed value
	// so that the generated data is the same from run to run.
	Seed            uint64
	TestLabelPrefix string
}

// prepValues are the payloads stored at indices 0 through 9 by Prep when
// random data is not requested.
var prepValues = []int{9, 8, 7, 6, 5, 4, 3, 2, 1, 0}

func NewTestContext(t *testing.T, cfg TestConfig) TestContext {
	c := TestContext{
		T:    t,
		Rand: rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
	}
	logger.New("NOOP")
	c.Log = logger.Sugar.WithServiceName(cfg.TestLabelPrefix)
	return c
}

// NewArray creates an array of *int payloads whose releases are recorded by
// tracker. The context logger is attached.
func (c *TestContext) NewArray(tracker *Tracker, opts ...darray.Option) *darray.Array[*int] {
	all := []darray.Option{darray.WithLogger(c.Log)}
	if tracker != nil {
		all = append(all, darray.WithRelease(tracker.Release))
	}
	all = append(all, opts...)
	a, err := darray.New[*int](all...)
	require.NoError(c.T, err)
	return a
}

// Prep fills indices 0 through 9 with freshly allocated payloads, either
// prepValues or random values in [0, 10), and returns them in index order.
func (c *TestContext) Prep(a *darray.Array[*int], random bool) []*int {
	payloads := make([]*int, len(prepValues))
	for i := range prepValues {
		v := prepValues[i]
		if random {
			v = c.Rand.IntN(10)
		}
		payloads[i] = &v
		require.NoError(c.T, a.Set(i, payloads[i]))
	}
	require.Equal(c.T, len(prepValues), a.Size())
	return payloads
}

// Tracker records each payload passed to Release.
type Tracker struct {
	released map[*int]int
	order    []*int
}

func NewTracker() *Tracker {
	return &Tracker{released: map[*int]int{}}
}

func (tr *Tracker) Release(p *int) {
	tr.released[p]++
	tr.order = append(tr.order, p)
}

// Count returns how many times p was released.
func (tr *Tracker) Count(p *int) int { return tr.released[p] }

// Total returns the number of releases recorded.
func (tr *Tracker) Total() int { return len(tr.order) }

// Order returns the released payloads in release order.
func (tr *Tracker) Order() []*int { return tr.order }
