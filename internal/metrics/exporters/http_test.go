package exporters

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/smazurov/videodev/internal/metrics"
)

func TestHTTPHandler(t *testing.T) {
	metrics.ObserveProbe(metrics.ProbeOK, 10*time.Millisecond)
	metrics.SetDevice("/dev/video-http", "vivid", "vivid", 12)
	defer metrics.DeleteDevice("/dev/video-http")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	HTTPHandler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	body := w.Body.String()
	for _, want := range []string{
		`videodev_device_probes_total{result="ok"}`,
		"videodev_device_probe_duration_seconds_bucket",
		`videodev_device_formats{device="/dev/video-http"} 12`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %q in metrics output", want)
		}
	}
}
