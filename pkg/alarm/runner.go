package alarm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gopkg.in/gomail.v2"

	"github.com/telekom/alarm-trials/pkg/mail"
)

// Delivery is one message the server accepted during a run.
type Delivery = mail.Delivery

// Report lists the deliveries of a run in send order.
type Report struct {
	Flow       string     `json:"flow" yaml:"flow"`
	Host       string     `json:"host" yaml:"host"`
	StartedAt  time.Time  `json:"startedAt" yaml:"startedAt"`
	Deliveries []Delivery `json:"deliveries" yaml:"deliveries"`
}

// Connector opens an authenticated mail session. *mail.Dialer implements it.
type Connector interface {
	Dial(ctx context.Context) (gomail.SendCloser, error)
	Host() string
}

var _ Connector = (*mail.Dialer)(nil)

// Runner sends a list of templates over a single session.
type Runner struct {
	Flow     string
	Dialer   Connector
	Envelope mail.Envelope
	// Out receives every rendered message. Defaults to discarding them.
	Out     io.Writer
	Log     *zap.SugaredLogger
	Limiter *rate.Limiter
}

// NewLimiter paces sends at perSecond messages per second. Zero or less disables pacing.
func NewLimiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Limit(perSecond), 1)
}

// Run connects, sends paths in order and disconnects. The session is closed on
// every path out of Run, and a close error is joined to whatever error ended the
// run. Deliveries completed before a failure stay in the report.
func (r *Runner) Run(ctx context.Context, paths []string) (report Report, err error) {
	log := r.Log
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	limiter := r.Limiter
	if limiter == nil {
		limiter = NewLimiter(0)
	}

	report = Report{Flow: r.Flow, Host: r.Dialer.Host(), StartedAt: time.Now()}

	sc, err := r.Dialer.Dial(ctx)
	if err != nil {
		return report, err
	}
	defer func() {
		if cerr := sc.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()

	sender := mail.NewAlarmSender(sc, r.Envelope, r.Dialer.Host(), r.Out, log)
	for _, path := range paths {
		if err := limiter.Wait(ctx); err != nil {
			return report, fmt.Errorf("stopped before sending %s: %w", path, err)
		}
		d, err := sender.SendFile(path)
		if err != nil {
			return report, err
		}
		report.Deliveries = append(report.Deliveries, d)
	}
	return report, nil
}

// Burst sends count templates drawn from candidates over one session.
func Burst(ctx context.Context, r *Runner, rng *rand.Rand, candidates []string, count int) (Report, error) {
	paths, err := Choose(rng, candidates, count)
	if err != nil {
		return Report{Flow: r.Flow}, err
	}
	if r.Log != nil {
		r.Log.Debugw("Selected alarm templates", "templates", paths)
	}
	return r.Run(ctx, paths)
}

// Single sends one template.
func Single(ctx context.Context, r *Runner, path string) (Report, error) {
	return r.Run(ctx, []string{path})
}
