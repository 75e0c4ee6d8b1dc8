package helpers

import (
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/robyulchat/modplugins/version"
)

var DEFAULT_UA = "modplugins/" + version.BOT_VERSION + " (https://github.com/robyulchat/modplugins)"

// NewRestClient returns the HTTP client used for every upstream API.
// Requests are never retried.
func NewRestClient() *resty.Client {
	return resty.New().
		SetTimeout(15*time.Second).
		SetHeader("User-Agent", DEFAULT_UA).
		SetRetryCount(0)
}
