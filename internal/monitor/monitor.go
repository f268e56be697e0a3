package monitor

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/mkarras/sms-bridge/internal/cache"
)

type ProbeKind string

const (
	ProbeHTTP ProbeKind = "http"
	ProbeTCP  ProbeKind = "tcp"
)

// Service describes one liveness probe target. HTTP probes hit URL and
// expect 200; TCP probes just connect to Addr. TCP exists for services
// without a health endpoint.
type Service struct {
	ID      string
	Name    string
	Kind    ProbeKind
	URL     string
	Addr    string
	Timeout time.Duration
}

// Alerter is notified on health-state transitions.
type Alerter interface {
	ServiceDown(svc Service, at time.Time) error
	ServiceRecovered(svc Service, at time.Time) error
}

// Monitor polls the configured services and raises alerts on transitions.
// Repeat down-alerts are gated by a cooldown window persisted through the
// cache, so a monitor restart does not re-alert inside the window.
type Monitor struct {
	services   []Service
	alerter    Alerter
	store      cache.Cache
	interval   time.Duration
	cooldown   time.Duration
	states     map[string]bool
	httpClient *http.Client
	logger     *slog.Logger
}

func New(services []Service, alerter Alerter, store cache.Cache, interval, cooldown time.Duration, logger *slog.Logger) *Monitor {
	states := make(map[string]bool, len(services))
	for _, svc := range services {
		// assume healthy until the first probe says otherwise
		states[svc.ID] = true
	}
	return &Monitor{
		services:   services,
		alerter:    alerter,
		store:      store,
		interval:   interval,
		cooldown:   cooldown,
		states:     states,
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// Run polls until ctx is cancelled. startupGrace delays the first sweep so
// freshly deployed services are not reported down while still booting.
func (m *Monitor) Run(ctx context.Context, startupGrace time.Duration) {
	m.logger.Info("monitor starting",
		"services", len(m.services),
		"interval", m.interval.String(),
		"cooldown", m.cooldown.String())

	select {
	case <-ctx.Done():
		return
	case <-time.After(startupGrace):
	}

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.CheckAll(ctx)
	for {
		select {
		case <-ctx.Done():
			m.logger.Info("monitor stopping")
			return
		case <-ticker.C:
			m.CheckAll(ctx)
		}
	}
}

// CheckAll runs one probe sweep over every service.
func (m *Monitor) CheckAll(ctx context.Context) {
	for _, svc := range m.services {
		healthy := m.probe(ctx, svc)
		wasHealthy := m.states[svc.ID]

		switch {
		case healthy && !wasHealthy:
			m.logger.Info("service recovered", "service", svc.Name)
			m.handleRecovered(ctx, svc)
			m.states[svc.ID] = true
		case !healthy && wasHealthy:
			m.logger.Error("service is down", "service", svc.Name)
			m.handleDown(ctx, svc)
			m.states[svc.ID] = false
		case !healthy:
			m.logger.Warn("service still down", "service", svc.Name)
			m.handleDown(ctx, svc)
		default:
			m.logger.Debug("service healthy", "service", svc.Name)
		}
	}
}

func (m *Monitor) probe(ctx context.Context, svc Service) bool {
	switch svc.Kind {
	case ProbeHTTP:
		probeCtx, cancel := context.WithTimeout(ctx, svc.Timeout)
		defer cancel()

		req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, svc.URL, nil)
		if err != nil {
			return false
		}
		resp, err := m.httpClient.Do(req)
		if err != nil {
			m.logger.Debug("health check failed", "service", svc.Name, "error", err.Error())
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	case ProbeTCP:
		conn, err := net.DialTimeout("tcp", svc.Addr, svc.Timeout)
		if err != nil {
			m.logger.Debug("tcp check failed", "service", svc.Name, "error", err.Error())
			return false
		}
		conn.Close()
		return true
	default:
		m.logger.Error("unknown probe kind", "service", svc.ID, "kind", string(svc.Kind))
		return false
	}
}

// handleDown alerts unless a previous alert is still inside the cooldown
// window. The cooldown key expires on its own; its presence means suppress.
func (m *Monitor) handleDown(ctx context.Context, svc Service) {
	val, err := m.store.Get(ctx, cooldownKey(svc.ID))
	if err != nil {
		m.logger.Error("cooldown lookup failed", "service", svc.ID, "error", err.Error())
	} else if val != "" {
		return
	}

	if err := m.alerter.ServiceDown(svc, time.Now()); err != nil {
		m.logger.Error("failed to send down alert", "service", svc.Name, "error", err.Error())
		return
	}

	ts := strconv.FormatInt(time.Now().Unix(), 10)
	if err := m.store.Set(ctx, cooldownKey(svc.ID), ts, m.cooldown); err != nil {
		m.logger.Error("failed to record alert cooldown", "service", svc.ID, "error", err.Error())
	}
}

// handleRecovered alerts and clears the cooldown so a future outage alerts
// immediately.
func (m *Monitor) handleRecovered(ctx context.Context, svc Service) {
	if err := m.alerter.ServiceRecovered(svc, time.Now()); err != nil {
		m.logger.Error("failed to send recovery alert", "service", svc.Name, "error", err.Error())
	}
	if err := m.store.Delete(ctx, cooldownKey(svc.ID)); err != nil {
		m.logger.Error("failed to clear alert cooldown", "service", svc.ID, "error", err.Error())
	}
}

func cooldownKey(serviceID string) string {
	return "monitor:last_alert:" + serviceID
}
