// Package services implements the driving port interfaces.
// Services contain the core extraction logic and orchestrate
// calls to driven ports (adapters).
//
// HTTP, storage and output formats live behind the driven ports; services
// only add logging and metrics around them.
package services
