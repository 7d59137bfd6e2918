package mail

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/telekom/alarm-trials/pkg/metrics"
)

type sentMessage struct {
	from string
	to   []string
	raw  string
}

// recordingSender captures messages instead of transmitting them.
type recordingSender struct {
	sent []sentMessage
	err  error
}

func (r *recordingSender) Send(from string, to []string, msg io.WriterTo) error {
	if r.err != nil {
		return r.err
	}
	var buf bytes.Buffer
	if _, err := msg.WriteTo(&buf); err != nil {
		return err
	}
	r.sent = append(r.sent, sentMessage{from: from, to: to, raw: buf.String()})
	return nil
}

func newRecordingAlarmSender(t *testing.T, rec *recordingSender, out io.Writer) *AlarmSender {
	t.Helper()
	s := NewAlarmSender(rec, testEnvelope(), "smtp.test", out, zaptest.NewLogger(t).Sugar())
	s.now = func() time.Time { return fixedTime }
	return s
}

func TestSendFileMissingTemplateSendsNothing(t *testing.T) {
	rec := &recordingSender{}
	var out bytes.Buffer
	s := newRecordingAlarmSender(t, rec, &out)

	before := testutil.ToFloat64(metrics.MailFailed.WithLabelValues("smtp.test"))
	_, err := s.SendFile("examples/does_not_exist.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot send examples/does_not_exist.txt")
	assert.Empty(t, rec.sent)
	assert.Empty(t, out.String(), "nothing is printed for an unreadable template")
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.MailFailed.WithLabelValues("smtp.test")))
}

func TestSendFileTwiceYieldsDistinctMessages(t *testing.T) {
	rec := &recordingSender{}
	s := newRecordingAlarmSender(t, rec, nil)
	path := writeTemplate(t, "emergency_bgebg.txt", "~~Einsatzart~~Brand~~\n")

	before := testutil.ToFloat64(metrics.MailSent.WithLabelValues("smtp.test"))
	first, err := s.SendFile(path)
	require.NoError(t, err)
	second, err := s.SendFile(path)
	require.NoError(t, err)

	require.Len(t, rec.sent, 2)
	assert.NotEqual(t, first.MessageID, second.MessageID)
	assert.Equal(t, path, first.Path)
	assert.Equal(t, "Alarm", first.Subject)
	assert.Equal(t, fixedTime, first.SentAt)
	assert.Equal(t, before+2, testutil.ToFloat64(metrics.MailSent.WithLabelValues("smtp.test")))

	for _, m := range rec.sent {
		assert.Equal(t, testUser, m.from)
		assert.Equal(t, []string{testUser}, m.to)
		_, body := splitMessage(t, m.raw)
		assert.Equal(t, "~~Einsatzart~~Brand~~\n", body)
	}
}

func TestSendFilePrintsWhatItSends(t *testing.T) {
	rec := &recordingSender{}
	var out bytes.Buffer
	s := newRecordingAlarmSender(t, rec, &out)

	path := writeTemplate(t, "emergency_simple.txt", "ALARM")
	// header order must not differ between the printed and the transmitted copy
	for i := 0; i < 20; i++ {
		out.Reset()
		_, err := s.SendFile(path)
		require.NoError(t, err)
		require.Len(t, rec.sent, i+1)
		assert.Equal(t, rec.sent[i].raw+"\n", out.String())
	}
}

func TestSendFileKeepsBareLoginEnvelope(t *testing.T) {
	rec := &recordingSender{}
	s := newRecordingAlarmSender(t, rec, nil)
	s.envelope = Envelope{From: "alarm", To: []string{"alarm"}, Subject: "Alarm"}

	_, err := s.SendFile(writeTemplate(t, "emergency_simple.txt", "ALARM"))
	require.NoError(t, err)
	require.Len(t, rec.sent, 1)
	assert.Equal(t, "alarm", rec.sent[0].from)
	assert.Equal(t, []string{"alarm"}, rec.sent[0].to)
	assert.Contains(t, rec.sent[0].raw, "From: alarm\r\n")
}

func TestSendFileTransmissionError(t *testing.T) {
	sendErr := errors.New("554 transaction failed")
	rec := &recordingSender{err: sendErr}
	s := newRecordingAlarmSender(t, rec, nil)

	before := testutil.ToFloat64(metrics.MailFailed.WithLabelValues("smtp.test"))
	_, err := s.SendFile(writeTemplate(t, "emergency_simple.txt", "ALARM"))
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "failed to send "))
	assert.ErrorIs(t, err, sendErr)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.MailFailed.WithLabelValues("smtp.test")))
}

func TestSendFileSubjectIndexAdvancesOnSuccess(t *testing.T) {
	rec := &recordingSender{}
	s := newRecordingAlarmSender(t, rec, nil)
	s.envelope.Subject = "Alarm {{ .Index }}"

	path := writeTemplate(t, "a.txt", "A")
	_, err := s.SendFile("missing.txt")
	require.Error(t, err)

	first, err := s.SendFile(path)
	require.NoError(t, err)
	second, err := s.SendFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Alarm 1", first.Subject)
	assert.Equal(t, "Alarm 2", second.Subject)
}
