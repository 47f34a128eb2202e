// Package logger wraps zap with the two profiles every binary in this
// module needs: a human-readable development logger and a JSON production
// logger. cmd/matrixquery is its only caller; the engine packages take no
// logger.
package logger

import "go.uber.org/zap"

func New(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
