package regression

import (
	"math/rand"

	"properati-pricer/models"
)

// Datasets smaller than this train on every row instead of splitting.
const minSplitSample = 5

// TrainTestSplit shuffles listings with a seeded generator and holds out
// testSize (a fraction in (0,1)) of the rows for evaluation. Tiny datasets
// and out-of-range fractions yield an empty test set.
func TrainTestSplit(listings []*models.Listing, testSize float64, seed int64) (train, test []*models.Listing) {
	n := len(listings)
	if n < minSplitSample || testSize <= 0 || testSize >= 1 {
		return append([]*models.Listing(nil), listings...), nil
	}

	nTest := int(float64(n) * testSize)
	if nTest < 1 {
		nTest = 1
	}
	if nTest > n-1 {
		nTest = n - 1
	}

	rng := rand.New(rand.NewSource(seed))
	perm := rng.Perm(n)

	test = make([]*models.Listing, 0, nTest)
	train = make([]*models.Listing, 0, n-nTest)
	for i, idx := range perm {
		if i < nTest {
			test = append(test, listings[idx])
		} else {
			train = append(train, listings[idx])
		}
	}
	return train, test
}
