// Package config resolves the settings of an alarm run: the optional YAML file,
// the flow profile defaults, the EM_* environment variables, a .env file and the
// OS keychain as password fallback.
package config
