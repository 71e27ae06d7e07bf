// Package contacts holds build metadata for the contacts module.
package contacts

// Version is the release version of the contacts CLI.
const Version = "0.1.0"
