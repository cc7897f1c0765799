package observability

import (
	"context"
	"errors"

	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/ports"
)

// Navigation outcomes.
const (
	OutcomeOK            = "ok"
	OutcomeUnknownIntent = "unknown_intent"
	OutcomeNotFound      = "not_found"
	OutcomeError         = "error"
)

type instrumentedHost struct {
	ports.SessionHost
	metrics *Metrics
}

// Instrument wraps host so every Dispatch is counted in lectern_navigations_total.
func Instrument(host ports.SessionHost, m *Metrics) ports.SessionHost {
	if m == nil {
		return host
	}
	return &instrumentedHost{SessionHost: host, metrics: m}
}

func (h *instrumentedHost) Dispatch(ctx context.Context, sessionID string, cmd domain.Command) (domain.Frame, error) {
	frame, err := h.SessionHost.Dispatch(ctx, sessionID, cmd)
	h.metrics.Navigations.WithLabelValues(intentLabel(cmd.Intent), outcome(err)).Inc()
	return frame, err
}

// intentLabel keeps label cardinality bounded.
func intentLabel(i domain.Intent) string {
	if parsed, err := domain.ParseIntent(string(i)); err == nil {
		return string(parsed)
	}
	return "unknown"
}

func outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, domain.ErrUnknownIntent):
		return OutcomeUnknownIntent
	case errors.Is(err, domain.ErrSessionNotFound):
		return OutcomeNotFound
	default:
		return OutcomeError
	}
}
