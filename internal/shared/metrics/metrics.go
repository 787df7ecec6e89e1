package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	autofillStartedTotal   atomic.Uint64
	autofillCompletedTotal atomic.Uint64
	autofillFailedTotal    atomic.Uint64

	exportDocxTotal atomic.Uint64
	exportPdfTotal  atomic.Uint64

	relaySuggestionsTotal atomic.Uint64
	relayFailuresTotal    atomic.Uint64

	autofillDuration = newHistogram([]float64{500, 1000, 2500, 5000, 10000, 30000, 60000, 120000})
)

// IncAutofillStarted increments the started counter.
func IncAutofillStarted() {
	autofillStartedTotal.Add(1)
}

// IncAutofillCompleted increments the completed counter.
func IncAutofillCompleted() {
	autofillCompletedTotal.Add(1)
}

// IncAutofillFailed increments the failed counter.
func IncAutofillFailed() {
	autofillFailedTotal.Add(1)
}

// ObserveAutofillDurationMs records a pipeline duration in milliseconds.
func ObserveAutofillDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	autofillDuration.Observe(value)
}

func IncExportDocx() { exportDocxTotal.Add(1) }

func IncExportPdf() { exportPdfTotal.Add(1) }

// IncRelaySuggestion counts a relayed suggestion that returned text.
func IncRelaySuggestion() {
	relaySuggestionsTotal.Add(1)
}

// IncRelayFailure counts a relay call answered with success=false.
func IncRelayFailure() {
	relayFailuresTotal.Add(1)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "autofill_started_total", "Total autofill runs started", autofillStartedTotal.Load())
	writeCounter(&buf, "autofill_completed_total", "Total autofill runs applied", autofillCompletedTotal.Load())
	writeCounter(&buf, "autofill_failed_total", "Total autofill runs failed", autofillFailedTotal.Load())
	writeHistogram(&buf, "autofill_duration_ms", "Autofill duration in milliseconds", autofillDuration.Snapshot())
	writeCounter(&buf, "export_docx_total", "Total DOCX exports", exportDocxTotal.Load())
	writeCounter(&buf, "export_pdf_total", "Total PDF exports", exportPdfTotal.Load())
	writeCounter(&buf, "relay_suggestions_total", "Total relayed AI suggestions", relaySuggestionsTotal.Load())
	writeCounter(&buf, "relay_failures_total", "Total failed relay calls", relayFailuresTotal.Load())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

// Observe counts value in the first bucket that holds it; cumulative sums
// are computed at render time.
func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			break
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
	return out
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// SinceMillis returns the milliseconds elapsed since start.
func SinceMillis(start time.Time) float64 {
	return float64(time.Since(start)) / float64(time.Millisecond)
}
