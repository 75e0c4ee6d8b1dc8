package currency

import (
	"math"

	humanize "github.com/dustin/go-humanize"
	"github.com/pkg/errors"
)

// Kind tags the outcome of a conversion
type Kind int

const (
	KindOK Kind = iota
	KindRateLimited
	KindInvalidPair
	KindUnexpected
)

func (k Kind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindRateLimited:
		return "rate_limited"
	case KindInvalidPair:
		return "invalid_pair"
	}
	return "unexpected"
}

var (
	// ErrRateLimited is returned by providers when the API call limit is reached
	ErrRateLimited = errors.New("rate limit reached")
	// ErrInvalidPair is returned by providers for unknown currency codes
	ErrInvalidPair = errors.New("invalid currency pair")
)

// Result is the outcome of one conversion. Rate and Converted are only set for KindOK.
type Result struct {
	Kind      Kind
	Amount    float64
	From      string
	To        string
	Rate      float64
	Converted float64
	// Detail carries the upstream error message for failed conversions
	Detail string
}

func resultFromError(amount float64, from, to string, err error) Result {
	result := Result{
		Amount: amount,
		From:   from,
		To:     to,
		Kind:   KindUnexpected,
		Detail: err.Error(),
	}
	switch errors.Cause(err) {
	case ErrRateLimited:
		result.Kind = KindRateLimited
	case ErrInvalidPair:
		result.Kind = KindInvalidPair
	}
	return result
}

// round3 rounds half away from zero to three decimals
func round3(value float64) float64 {
	return math.Round(value*1000) / 1000
}

// FormatNumber rounds to three decimals and strips trailing zeros, 9.200 becomes 9.2
func FormatNumber(value float64) string {
	return humanize.Ftoa(round3(value))
}
