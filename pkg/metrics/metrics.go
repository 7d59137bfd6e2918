package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Session metrics
	SessionsOpened = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "alarmctl_sessions_opened_total",
		Help: "Total number of authenticated SMTP sessions opened",
	}, []string{"host"})
	SessionFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "alarmctl_session_failures_total",
		Help: "Total number of SMTP sessions that failed to connect, upgrade or authenticate",
	}, []string{"host"})

	// Mail metrics
	MailSent = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "alarmctl_mail_sent_total",
		Help: "Total number of alarm mails accepted by the server",
	}, []string{"host"})
	MailFailed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "alarmctl_mail_failed_total",
		Help: "Total number of alarm mails that could not be read or sent",
	}, []string{"host"})
)

func init() {
	prometheus.MustRegister(SessionsOpened)
	prometheus.MustRegister(SessionFailures)
	prometheus.MustRegister(MailSent)
	prometheus.MustRegister(MailFailed)
}
