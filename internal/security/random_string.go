package security

import (
	"errors"
	"strings"
)

var (
	errNegativeLength = errors.New("length must be non-negative")
	errEmptyAlphabet  = errors.New("alphabet must not be empty")
)

// RandomString draws length bytes from alphabet with crypto/rand. Temporary
// passwords are built from it.
func RandomString(length int, alphabet string) (string, error) {
	switch {
	case length < 0:
		return "", errNegativeLength
	case length == 0:
		return "", nil
	case alphabet == "":
		return "", errEmptyAlphabet
	}

	var builder strings.Builder
	builder.Grow(length)
	for builder.Len() < length {
		position, err := RandomIntInRange(0, len(alphabet)-1)
		if err != nil {
			return "", err
		}
		builder.WriteByte(alphabet[position])
	}
	return builder.String(), nil
}
