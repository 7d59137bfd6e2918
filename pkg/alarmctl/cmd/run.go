package cmd

import (
	"golang.org/x/time/rate"

	"github.com/telekom/alarm-trials/pkg/alarm"
	"github.com/telekom/alarm-trials/pkg/config"
	"github.com/telekom/alarm-trials/pkg/mail"
	"github.com/telekom/alarm-trials/pkg/metrics"
	"github.com/telekom/alarm-trials/pkg/output"
)

func envelopeFor(c *config.Config) mail.Envelope {
	return mail.Envelope{From: c.Message.From, To: c.Message.To, Subject: c.Message.Subject}
}

func (rt *runtimeState) newRunner(flow string, c *config.Config, limiter *rate.Limiter) *alarm.Runner {
	log := rt.Logger()
	return &alarm.Runner{
		Flow:     flow,
		Dialer:   mail.NewDialer(c.Server, c.Account, log),
		Envelope: envelopeFor(c),
		Out:      rt.Writer(),
		Log:      log,
		Limiter:  limiter,
	}
}

// finish prints the report of a successful run and pushes metrics either way.
// A failed push is logged, it never fails the run.
func (rt *runtimeState) finish(c *config.Config, report alarm.Report, runErr error) error {
	if c.Metrics.PushGateway != "" {
		if err := metrics.Push(c.Metrics.PushGateway, c.Metrics.Job); err != nil {
			rt.Logger().Warnw("Could not push metrics", "error", err)
		}
	}
	if runErr != nil {
		return runErr
	}
	return output.WriteReport(rt.Writer(), rt.OutputFormat(), report)
}
