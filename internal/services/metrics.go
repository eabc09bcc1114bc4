package services

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"alfredoptarigan/resume-agent/internal/models"
)

var (
	operationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "resume_agent",
			Subsystem: "operation",
			Name:      "total",
			Help:      "Operations dispatched, by result.",
		},
		[]string{"operation", "result"},
	)
	gatewayDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "resume_agent",
			Subsystem: "gateway",
			Name:      "call_duration_seconds",
			Help:      "Completion call latency in seconds.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 40, 80, 160},
		},
		[]string{"operation"},
	)
	gatewayErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "resume_agent",
			Subsystem: "gateway",
			Name:      "errors_total",
			Help:      "Failed completion calls, by upstream status.",
		},
		[]string{"operation", "status"},
	)
)

func init() {
	prometheus.MustRegister(operationsTotal, gatewayDuration, gatewayErrorsTotal)
}

func recordGatewayCall(op models.OperationKind, start time.Time, err error) {
	gatewayDuration.WithLabelValues(string(op)).Observe(time.Since(start).Seconds())
	if err == nil {
		return
	}
	status := "unknown"
	var gwErr *models.GatewayError
	if errors.As(err, &gwErr) {
		status = strconv.Itoa(gwErr.Status)
	}
	gatewayErrorsTotal.WithLabelValues(string(op), status).Inc()
}

func recordOperation(op models.OperationKind, err error) {
	result := "ok"
	if err != nil {
		result = models.ErrorKind(err)
	}
	operationsTotal.WithLabelValues(string(op), result).Inc()
}
