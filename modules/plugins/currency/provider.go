package currency

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"strconv"
	"strings"

	"github.com/Jeffail/gabs"
	"github.com/go-resty/resty/v2"
	"github.com/lucazulian/cryptocomparego"
	cccontext "github.com/lucazulian/cryptocomparego/context"
	"github.com/pkg/errors"
	"github.com/robyulchat/modplugins/helpers"
)

// RateProvider looks up the spot exchange rate for one unit of $from in $to
type RateProvider interface {
	Name() string
	Rate(ctx context.Context, from, to string) (float64, error)
}

// NewProvider builds the provider configured as $name, alphavantage if empty
func NewProvider(name string, alphaVantageKey string, client *resty.Client) (RateProvider, error) {
	switch strings.ToLower(name) {
	case "", "alphavantage":
		return NewAlphaVantage(client, alphaVantageKey), nil
	case "cryptocompare":
		return NewCryptoCompare(client), nil
	}
	return nil, errors.Errorf("unknown currency provider %q", name)
}

const (
	alphaVantageEndpoint   = "https://www.alphavantage.co/query"
	alphaVantagePremiumURL = "https://www.alphavantage.co/premium/"
	alphaVantageInvalid    = "Invalid API call"
)

// AlphaVantage queries the CURRENCY_EXCHANGE_RATE function
type AlphaVantage struct {
	client   *resty.Client
	endpoint string
	key      string
}

// NewAlphaVantage uses $key, or a random one if it is empty. The service does not validate keys.
func NewAlphaVantage(client *resty.Client, key string) *AlphaVantage {
	if key == "" {
		key = randomKey()
	}
	return &AlphaVantage{
		client:   client,
		endpoint: alphaVantageEndpoint,
		key:      key,
	}
}

func (a *AlphaVantage) Name() string {
	return "alphavantage"
}

func (a *AlphaVantage) Rate(ctx context.Context, from, to string) (float64, error) {
	resp, err := a.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"function":      "CURRENCY_EXCHANGE_RATE",
			"from_currency": from,
			"to_currency":   to,
			"apikey":        a.key,
		}).
		Get(a.endpoint)
	if err != nil {
		return 0, errors.Wrap(err, "requesting alphavantage failed")
	}

	body := resp.Body()
	if strings.Contains(string(body), alphaVantagePremiumURL) {
		return 0, ErrRateLimited
	}
	if resp.IsError() {
		return 0, errors.Errorf("alphavantage returned %s", resp.Status())
	}

	json, err := gabs.ParseJSON(body)
	if err != nil {
		return 0, errors.Wrap(err, "parsing alphavantage response failed")
	}

	if message, ok := json.Search("Error Message").Data().(string); ok {
		if strings.Contains(message, alphaVantageInvalid) {
			return 0, errors.Wrap(ErrInvalidPair, message)
		}
		return 0, errors.New(message)
	}

	rateText, ok := json.Search("Realtime Currency Exchange Rate", "5. Exchange Rate").Data().(string)
	if !ok {
		return 0, errors.New("alphavantage response has no exchange rate")
	}
	rate, err := strconv.ParseFloat(strings.TrimSpace(rateText), 64)
	if err != nil {
		return 0, errors.Wrap(err, "parsing exchange rate failed")
	}
	return rate, nil
}

func randomKey() string {
	buf := make([]byte, 10)
	if _, err := rand.Read(buf); err != nil {
		return "modplugins"
	}
	return base64.RawURLEncoding.EncodeToString(buf)
}

// priceLister is the part of the cryptocompare client the provider calls
type priceLister interface {
	List(ctx cccontext.Context, request *cryptocomparego.PriceMultiRequest) ([]cryptocomparego.PriceMulti, *cryptocomparego.Response, error)
}

// CryptoCompare converts through cryptocompare's pricemulti endpoint, which also knows fiat currencies
type CryptoCompare struct {
	prices priceLister
}

func NewCryptoCompare(client *resty.Client) *CryptoCompare {
	return &CryptoCompare{
		prices: cryptocomparego.NewClient(client.GetClient()).PriceMulti,
	}
}

func (c *CryptoCompare) Name() string {
	return "cryptocompare"
}

func (c *CryptoCompare) Rate(ctx context.Context, from, to string) (float64, error) {
	results, _, err := c.prices.List(ctx, &cryptocomparego.PriceMultiRequest{
		Fsyms:         []string{from},
		Tsyms:         []string{to},
		ExtraParams:   helpers.DEFAULT_UA,
		TryConversion: true,
	})
	if err != nil {
		switch {
		case strings.Contains(err.Error(), "There is no data for any of the"):
			return 0, errors.Wrap(ErrInvalidPair, err.Error())
		case strings.Contains(strings.ToLower(err.Error()), "rate limit"):
			return 0, errors.Wrap(ErrRateLimited, err.Error())
		}
		return 0, errors.Wrap(err, "requesting cryptocompare failed")
	}

	for _, result := range results {
		if !strings.EqualFold(result.Name, from) {
			continue
		}
		for _, price := range result.Value {
			if strings.EqualFold(price.Name, to) {
				return price.Value, nil
			}
		}
	}
	return 0, errors.Wrapf(ErrInvalidPair, "cryptocompare returned no rate for %s to %s", from, to)
}
