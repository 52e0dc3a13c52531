// Package cmd implements the incmedia subcommands.
//
// Commands read the global options from the [Settings] stored in their
// context by [WithSettings], and the kong context stored by [WithContext].
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the user configuration file.
	ConfigIdentifier = "config"
)
