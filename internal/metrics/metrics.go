package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	adminRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "warden_admin_requests_total",
		Help: "Total number of admin operations handled, by operation and status code",
	}, []string{"operation", "status"})
	adminUnauthorizedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "warden_admin_unauthorized_total",
		Help: "Total number of admin requests rejected for bad credentials",
	})
	freezeTransitionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "warden_freeze_transitions_total",
		Help: "Total number of freeze state transitions, by resulting state",
	}, []string{"state"})
	alarmsFiredTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "warden_alarms_fired_total",
		Help: "Total number of due alarms fired by the poller",
	})
)

// Register registers Prometheus collectors. Call once at startup.
func Register(registry *prometheus.Registry) {
	registry.MustRegister(adminRequestsTotal, adminUnauthorizedTotal, freezeTransitionsTotal, alarmsFiredTotal)
}

// IncAdminRequest counts one handled admin operation.
func IncAdminRequest(operation string, status int) {
	adminRequestsTotal.WithLabelValues(operation, strconv.Itoa(status)).Inc()
}

// IncAdminUnauthorized counts one rejected credential.
func IncAdminUnauthorized() { adminUnauthorizedTotal.Inc() }

// IncFreezeTransition counts one freeze or unfreeze transition.
func IncFreezeTransition(state string) { freezeTransitionsTotal.WithLabelValues(state).Inc() }

// IncAlarmFired counts one fired alarm.
func IncAlarmFired() { alarmsFiredTotal.Inc() }
