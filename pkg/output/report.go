package output

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/telekom/alarm-trials/pkg/alarm"
)

// WriteReport prints a run report in the requested format.
func WriteReport(w io.Writer, format Format, report alarm.Report) error {
	switch format {
	case FormatText:
		WriteDeliveryTable(w, report.Deliveries)
		return nil
	case FormatWide:
		WriteDeliveryTableWide(w, report.Host, report.Deliveries)
		return nil
	default:
		return WriteObject(w, format, report)
	}
}

func WriteDeliveryTable(w io.Writer, deliveries []alarm.Delivery) {
	if len(deliveries) == 0 {
		_, _ = fmt.Fprintln(w, "No messages sent.")
		return
	}
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "#\tTEMPLATE\tMESSAGE_ID\tSENT")
	for i, d := range deliveries {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i+1, d.Path, d.MessageID, formatTime(d.SentAt))
	}
	_ = tw.Flush()
}

func WriteDeliveryTableWide(w io.Writer, host string, deliveries []alarm.Delivery) {
	if len(deliveries) == 0 {
		_, _ = fmt.Fprintln(w, "No messages sent.")
		return
	}
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "#\tTEMPLATE\tSUBJECT\tMESSAGE_ID\tHOST\tSENT")
	for i, d := range deliveries {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", i+1, d.Path, d.Subject, d.MessageID, orDash(host), formatTime(d.SentAt))
	}
	_ = tw.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(time.RFC3339)
}
