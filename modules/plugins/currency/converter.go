package currency

import (
	"context"

	"github.com/robyulchat/modplugins/metrics"
	"github.com/sirupsen/logrus"
)

// Converter converts amounts with the rates of a RateProvider
type Converter struct {
	provider RateProvider
	metrics  *metrics.Metrics
	log      *logrus.Entry
}

func NewConverter(provider RateProvider, m *metrics.Metrics, log *logrus.Entry) *Converter {
	return &Converter{
		provider: provider,
		metrics:  m,
		log:      log,
	}
}

// Convert never retries, every upstream failure is mapped to a Result kind
func (c *Converter) Convert(ctx context.Context, amount float64, from, to string) Result {
	rate, err := c.provider.Rate(ctx, from, to)
	if err != nil {
		result := resultFromError(amount, from, to, err)
		c.metrics.Upstream(c.provider.Name(), result.Kind.String())
		c.log.WithError(err).WithFields(logrus.Fields{
			"from": from,
			"to":   to,
			"kind": result.Kind.String(),
		}).Debug("conversion failed")
		return result
	}

	c.metrics.Upstream(c.provider.Name(), KindOK.String())
	return Result{
		Kind:      KindOK,
		Amount:    amount,
		From:      from,
		To:        to,
		Rate:      rate,
		Converted: round3(rate * amount),
	}
}
