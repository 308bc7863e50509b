// Package cli implements the multicard command-line tool: profile and
// credential management plus thin commands over the client's resources.
package cli
