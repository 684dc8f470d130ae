package orderbook

import (
	"errors"
	"strings"
)

type Algorithm string

const (
	FIFO    Algorithm = "FIFO"
	PRORATA Algorithm = "PRORATA"
)

var errUnknownAlgorithm = errors.New("unknown matching algorithm")

// ParseAlgorithm accepts the numeric choices of the command line (1, 2) as
// well as the algorithm names.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "1", "FIFO":
		return FIFO, nil
	case "2", "PRORATA", "PRO-RATA", "PRO_RATA":
		return PRORATA, nil
	}
	return "", errUnknownAlgorithm
}

func (a Algorithm) String() string {
	switch a {
	case FIFO:
		return "FIFO"
	case PRORATA:
		return "Pro-Rata"
	}
	return string(a)
}
