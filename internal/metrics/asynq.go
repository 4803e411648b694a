package metrics

import (
	"context"
	"time"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	taskProcessedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "asynq",
			Name:      "tasks_processed_total",
			Help:      "Tasks processed, by outcome.",
		},
		[]string{"task_type", "outcome"},
	)

	taskDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "asynq",
			Name:      "task_duration_seconds",
			Help:      "Task handler latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"task_type"},
	)

	taskInProgress = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "asynq",
			Name:      "tasks_in_progress",
			Help:      "Tasks currently running.",
		},
		[]string{"task_type"},
	)
)

// AsynqMetricsMiddleware wraps every handler on the worker mux.
func AsynqMetricsMiddleware() asynq.MiddlewareFunc {
	return func(next asynq.Handler) asynq.Handler {
		return asynq.HandlerFunc(func(ctx context.Context, task *asynq.Task) error {
			taskType := task.Type()
			taskInProgress.WithLabelValues(taskType).Inc()
			defer taskInProgress.WithLabelValues(taskType).Dec()

			start := time.Now()
			err := next.ProcessTask(ctx, task)
			taskDuration.WithLabelValues(taskType).Observe(time.Since(start).Seconds())

			outcome := "success"
			if err != nil {
				outcome = "failure"
			}
			taskProcessedTotal.WithLabelValues(taskType, outcome).Inc()

			return err
		})
	}
}
