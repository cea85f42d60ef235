// README: zap logger construction per environment.
package infra

import (
	"go.uber.org/zap"
)

// NewLogger returns a JSON production logger for env "production" and a
// console development logger otherwise.
func NewLogger(env, name string) (*zap.Logger, error) {
	var (
		log *zap.Logger
		err error
	)
	if env == "production" {
		log, err = zap.NewProduction()
	} else {
		log, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}
	return log.Named(name), nil
}
