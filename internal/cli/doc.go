// Package cli holds output and argument helpers shared by the paradigm
// commands.
package cli
