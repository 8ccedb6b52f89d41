// Package file provides file-based implementations of driven port interfaces.
// These adapters read data from the local filesystem.
//
// Adapters:
//   - ConfigStore: JSON or TOML tap configuration
package file
