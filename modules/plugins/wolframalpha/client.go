package wolframalpha

import (
	"bytes"
	"context"
	"io"
	"net/url"
	"strings"

	"github.com/Krognol/go-wolfram"
	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"github.com/robyulchat/modplugins/metrics"
)

const (
	queryEndpoint = "http://api.wolframalpha.com/v2/query"

	notUnderstood = "Wolfram|Alpha did not understand your input"
)

// ErrNotUnderstood is returned for queries the simple API could not interpret
var ErrNotUnderstood = errors.New("query not understood")

// Client queries the full results API
type Client struct {
	rest     *resty.Client
	endpoint string
	metrics  *metrics.Metrics
}

func NewClient(rest *resty.Client, m *metrics.Metrics) *Client {
	return &Client{
		rest:     rest,
		endpoint: queryEndpoint,
		metrics:  m,
	}
}

// Query sends the already escaped $query, see MakeSafeQuery
func (c *Client) Query(ctx context.Context, appID string, query string) (*Result, error) {
	resp, err := c.rest.R().
		SetContext(ctx).
		SetQueryParam("appid", appID).
		Get(c.endpoint + "?output=JSON&format=image,plaintext&input=" + query)
	if err != nil {
		c.metrics.Upstream("wolframalpha", "error")
		return nil, errors.Wrap(err, "requesting wolfram|alpha failed")
	}
	if resp.IsError() {
		c.metrics.Upstream("wolframalpha", "error")
		return nil, errors.Errorf("wolfram|alpha returned %s", resp.Status())
	}

	result, err := ParseResult(resp.Body())
	if err != nil {
		c.metrics.Upstream("wolframalpha", "error")
		return nil, err
	}

	if result.Success {
		c.metrics.Upstream("wolframalpha", "ok")
	} else {
		c.metrics.Upstream("wolframalpha", "no_results")
	}
	return result, nil
}

// ImageSource renders a query as a single picture
type ImageSource interface {
	Image(ctx context.Context, appID string, text string) ([]byte, error)
}

type simpleImages struct {
	metrics *metrics.Metrics
}

// NewSimpleImages uses the simple API through go-wolfram
func NewSimpleImages(m *metrics.Metrics) ImageSource {
	return &simpleImages{metrics: m}
}

func (s *simpleImages) Image(ctx context.Context, appID string, text string) ([]byte, error) {
	client := &wolfram.Client{AppID: appID}

	values := url.Values{}
	values.Add("layout", "labelbar")
	values.Add("timeout", "30")

	image, _, err := client.GetSimpleQuery(text, values)
	if err != nil {
		s.metrics.Upstream("wolframalpha_simple", "error")
		return nil, errors.Wrap(err, "requesting wolfram|alpha image failed")
	}
	defer closeQuietly(image)

	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(image); err != nil {
		s.metrics.Upstream("wolframalpha_simple", "error")
		return nil, errors.Wrap(err, "reading wolfram|alpha image failed")
	}
	if strings.Contains(buf.String(), notUnderstood) {
		s.metrics.Upstream("wolframalpha_simple", "no_results")
		return nil, ErrNotUnderstood
	}

	s.metrics.Upstream("wolframalpha_simple", "ok")
	return buf.Bytes(), nil
}

func closeQuietly(body interface{}) {
	if closer, ok := body.(io.Closer); ok {
		_ = closer.Close()
	}
}
