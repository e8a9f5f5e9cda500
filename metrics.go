package autogroup

import "github.com/prometheus/client_golang/prometheus"

// Steps reported in step failure metrics and logs.
const (
	stepPromote = "promote"
	stepFolder  = "folder"
	stepArchive = "archive"
	stepMute    = "mute"
	stepPhoto   = "photo"
)

// Metrics counts manager outcomes. A nil *Metrics is valid and counts nothing.
type Metrics struct {
	created     prometheus.Counter
	linked      prometheus.Counter
	failed      prometheus.Counter
	stepFailure *prometheus.CounterVec
}

// NewMetrics creates the manager metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		created: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "autogroup",
			Name:      "groups_created_total",
			Help:      "Telegram groups created for external chats.",
		}),
		linked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "autogroup",
			Name:      "mp_chats_linked_total",
			Help:      "MP chats linked to the shared MP group.",
		}),
		failed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "autogroup",
			Name:      "group_create_failures_total",
			Help:      "Group creations that failed.",
		}),
		stepFailure: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "autogroup",
			Name:      "step_failures_total",
			Help:      "Best-effort post-creation steps that failed.",
		}, []string{"step"}),
	}
	if reg != nil {
		reg.MustRegister(m.created, m.linked, m.failed, m.stepFailure)
	}
	return m
}

func (m *Metrics) groupCreated() {
	if m != nil {
		m.created.Inc()
	}
}

func (m *Metrics) mpLinked() {
	if m != nil {
		m.linked.Inc()
	}
}

func (m *Metrics) createFailed() {
	if m != nil {
		m.failed.Inc()
	}
}

func (m *Metrics) stepFailed(step string) {
	if m != nil {
		m.stepFailure.WithLabelValues(step).Inc()
	}
}
