package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "keeper"

var (
	// Registry 应用自有的 Prometheus 指标注册表
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms ~ 2.5s
		},
		[]string{"method", "path"},
	)

	attendanceTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "seminar",
			Name:      "attendance_transitions_total",
			Help:      "Total number of seminar attendance status changes.",
		},
		[]string{"from", "to"},
	)

	demeritChanges = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "seminar",
			Name:      "demerit_points_total",
			Help:      "Demerit points granted or revoked by attendance changes.",
		},
		[]string{"direction"},
	)

	seminarsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "seminar",
			Name:      "created_total",
			Help:      "Total number of seminars created.",
		},
	)

	rosterSize = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "seminar",
			Name:      "roster_size",
			Help:      "Number of attendance records created per seminar.",
			Buckets:   prometheus.LinearBuckets(10, 10, 10),
		},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		attendanceTransitions,
		demeritChanges,
		seminarsCreated,
		rosterSize,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
}

// Handler 暴露已注册指标的 HTTP Handler
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RequestStarted 记录进行中的请求，返回值在请求结束时调用
func RequestStarted() func() {
	httpInFlight.Inc()
	return httpInFlight.Dec
}

// ObserveHTTPRequest 记录一次 HTTP 请求
// path 应为路由模板（如 /seminars/:seminarId），避免标签基数膨胀
func ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordAttendanceTransition 记录一次出勤状态变更
func RecordAttendanceTransition(from, to string) {
	attendanceTransitions.WithLabelValues(from, to).Inc()
}

// RecordDemeritChange 记录罚分变化，delta 为 0 时忽略
func RecordDemeritChange(delta int) {
	switch {
	case delta > 0:
		demeritChanges.WithLabelValues("granted").Add(float64(delta))
	case delta < 0:
		demeritChanges.WithLabelValues("revoked").Add(float64(-delta))
	}
}

// RecordSeminarCreated 记录研讨会创建及名单人数
func RecordSeminarCreated(roster int) {
	seminarsCreated.Inc()
	rosterSize.Observe(float64(roster))
}
