// Package logger builds the zap.Logger the command-line entry point
// (cmd/mapmatchd) logs through. The in-memory graph reader does not
// log, and the algorithmic core packages
// (bucketqueue, labelset, heuristic, mapmatch, costmatrix) never import
// this package: they report problems through returned errors, not log
// lines, so a caller embedding this module as a library is never
// surprised by unsolicited output.
package logger

import "go.uber.org/zap"

// New builds a production zap.Logger, or a development logger with
// human-readable output and debug-level verbosity when dev is true.
func New(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
