package security

import (
	"crypto/rand"
	"errors"
	"math/big"
)

var errInvalidRange = errors.New("upper bound must not be below lower bound")

// RandomIntInRange returns a uniformly distributed integer in [lower, upper].
func RandomIntInRange(lower int, upper int) (int, error) {
	if upper < lower {
		return 0, errInvalidRange
	}
	if upper == lower {
		return lower, nil
	}

	offset, err := rand.Int(rand.Reader, big.NewInt(int64(upper-lower)+1))
	if err != nil {
		return 0, err
	}
	return lower + int(offset.Int64()), nil
}
