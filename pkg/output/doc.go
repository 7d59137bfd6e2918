// Package output renders run reports and build information for alarmctl as a
// table, JSON or YAML.
package output
