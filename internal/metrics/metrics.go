// Package metrics exposes Prometheus counters for extraction runs.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/custodia-labs/tap-twitter/internal/logger"
)

// Metrics holds the tap's counters.
type Metrics struct {
	PagesFetched     *prometheus.CounterVec
	RecordsExtracted *prometheus.CounterVec
	RecordErrors     *prometheus.CounterVec
	APIRequests      *prometheus.CounterVec
}

// New creates the counters and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		PagesFetched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tap_twitter_pages_fetched_total",
			Help: "Total number of API pages processed",
		}, []string{"stream"}),
		RecordsExtracted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tap_twitter_records_extracted_total",
			Help: "Total number of records written to the sink",
		}, []string{"stream"}),
		RecordErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tap_twitter_record_errors_total",
			Help: "Total number of records that failed parsing or validation",
		}, []string{"stream"}),
		APIRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tap_twitter_api_requests_total",
			Help: "Total number of API responses by status code",
		}, []string{"code"}),
	}
	reg.MustRegister(m.PagesFetched, m.RecordsExtracted, m.RecordErrors, m.APIRequests)
	return m
}

// ObservePage counts a processed page.
func (m *Metrics) ObservePage(stream string) {
	if m == nil {
		return
	}
	m.PagesFetched.WithLabelValues(stream).Inc()
}

// ObserveRecord counts an emitted record.
func (m *Metrics) ObserveRecord(stream string) {
	if m == nil {
		return
	}
	m.RecordsExtracted.WithLabelValues(stream).Inc()
}

// ObserveRecordError counts a rejected record.
func (m *Metrics) ObserveRecordError(stream string) {
	if m == nil {
		return
	}
	m.RecordErrors.WithLabelValues(stream).Inc()
}

// ObserveRequest counts an API response.
func (m *Metrics) ObserveRequest(statusCode int) {
	if m == nil {
		return
	}
	m.APIRequests.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// WriteSummary writes one line per counter series gathered from g, e.g.
// tap_twitter_records_extracted_total{stream="tweets"} 42. Series with no
// counter value are skipped.
func WriteSummary(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}

	for _, family := range families {
		for _, metric := range family.GetMetric() {
			counter := metric.GetCounter()
			if counter == nil {
				continue
			}
			labels := make([]string, 0, len(metric.GetLabel()))
			for _, pair := range metric.GetLabel() {
				labels = append(labels, fmt.Sprintf("%s=%q", pair.GetName(), pair.GetValue()))
			}
			name := family.GetName()
			if len(labels) > 0 {
				name += "{" + strings.Join(labels, ",") + "}"
			}
			if _, err := fmt.Fprintf(w, "%s %s\n", name, strconv.FormatFloat(counter.GetValue(), 'f', -1, 64)); err != nil {
				return err
			}
		}
	}
	return nil
}

// Serve exposes gatherer on addr at /metrics until ctx is done. The
// endpoint lives as long as the run; WriteSummary keeps the final values.
func Serve(ctx context.Context, addr string, gatherer prometheus.Gatherer) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("Prometheus metrics available at http://%s/metrics", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
