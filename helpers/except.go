// Except.go: Contains functions to make handling panics less PITA

package helpers

import (
	"fmt"
	"runtime"

	"github.com/getsentry/raven-go"
	"github.com/sirupsen/logrus"
)

// Recover recover()s, logs the panic and reports it to sentry
func Recover(log *logrus.Entry) {
	err := recover()
	if err != nil {
		buf := make([]byte, 1<<16)
		stackSize := runtime.Stack(buf, false)

		log.WithField("stack", string(buf[0:stackSize])).Error(fmt.Sprintf("recovered from panic: %#v", err))

		raven.CaptureError(fmt.Errorf("%#v", err), map[string]string{})
	}
}

// RelaxLog logs $err if it isn't nil and reports it to sentry
func RelaxLog(log *logrus.Entry, err error, message string) {
	if err == nil {
		return
	}

	log.WithError(err).Error(message)
	raven.CaptureError(err, map[string]string{"message": message})
}
