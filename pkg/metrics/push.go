package metrics

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus/push"
)

// Push sends the alarm counters to a Prometheus Pushgateway under the given job,
// grouped by the local host name. The CLI exits right after a run, so there is
// nothing to scrape.
func Push(url, job string) error {
	if err := NewPusher(url, job).Push(); err != nil {
		return fmt.Errorf("failed to push metrics to %s: %w", url, err)
	}
	return nil
}

func NewPusher(url, job string) *push.Pusher {
	instance, err := os.Hostname()
	if err != nil || instance == "" {
		instance = "unknown"
	}
	return push.New(url, job).
		Collector(SessionsOpened).
		Collector(SessionFailures).
		Collector(MailSent).
		Collector(MailFailed).
		Grouping("instance", instance)
}
