package ai

import "context"

// UnavailableProvider stands in when no model is configured. Every call
// fails with a config error, so chat falls back and translations fail
// with a readable message instead of the process refusing to start.
type UnavailableProvider struct {
	Reason string
}

func (p UnavailableProvider) Complete(context.Context, []Message, int) (string, error) {
	return "", NewConfigError(p.Reason)
}

func (p UnavailableProvider) HealthCheck(context.Context) error {
	return NewConfigError(p.Reason)
}
