// Package cmd implements the cobra command tree for the alarmctl CLI: the burst
// and single alarm flows, message preview, version and shell completion.
package cmd
