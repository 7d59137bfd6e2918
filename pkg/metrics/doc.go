// Package metrics defines the Prometheus counters of an alarm run and pushes
// them to a Pushgateway once the run has finished.
package metrics
