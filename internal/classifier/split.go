package classifier

import (
	"math"
	"math/rand/v2"
)

// Split shuffles indices 0..n-1 with a seeded generator and returns the train
// and held-out partitions. The held-out share is ceil(n*testSize), reduced when
// needed so at least one example is left for training. Identical inputs always
// produce identical partitions.
func Split(n int, testSize float64, seed uint64) (train, test []int) {
	if n <= 0 {
		return []int{}, []int{}
	}

	nTest := int(math.Ceil(float64(n) * testSize))
	nTest = max(0, min(nTest, n-1))

	perm := rand.New(rand.NewPCG(seed, seed)).Perm(n)
	return perm[nTest:], perm[:nTest]
}
