package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry 是应用自己的注册表，不使用全局默认注册表
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var EvaluationRuns = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "staffing",
	Name:      "evaluation_runs_total",
	Help:      "Number of understaffing evaluation runs",
})

var EvaluationDaysSkipped = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "staffing",
	Name:      "evaluation_days_skipped_total",
	Help:      "Days skipped during evaluation because a backing read failed",
})

var ShortagesDetected = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "staffing",
	Name:      "shortages_detected_total",
	Help:      "Understaffed shifts detected across all evaluation runs",
})

var AlertsCreated = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "staffing",
	Name:      "vacancy_alerts_created_total",
	Help:      "Vacancy alerts persisted with status open",
})

var NotificationBatches = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "staffing",
	Name:      "notification_batches_total",
	Help:      "Notification insert batches attempted, by outcome",
}, []string{"outcome"})

var NotificationsCreated = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "staffing",
	Name:      "notifications_created_total",
	Help:      "Notification rows successfully inserted by fan-out",
})

var DispatchRequests = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "staffing",
	Name:      "dispatch_requests_total",
	Help:      "Channel dispatch requests handled, by channel and outcome",
}, []string{"channel", "outcome"})
