package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"dataloaders/internal/fallback"
)

func TestMetricsObserver(t *testing.T) {
	m := NewWith(prometheus.NewRegistry())
	var _ fallback.Observer = m

	m.ObserveLookup("profile", fallback.SourceStatic, 500*time.Millisecond)
	m.ObserveLookup("profile", fallback.SourceStatic, 510*time.Millisecond)
	m.ObserveLookup("profile", fallback.SourceRemote, 600*time.Millisecond)
	m.ObserveNotFound("followers", 2*time.Second)
	m.ObserveRemoteAbsence("followers", "timeout")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.LookupsTotal.WithLabelValues("profile", "static")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LookupsTotal.WithLabelValues("profile", "remote")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotFoundTotal.WithLabelValues("followers")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RemoteAbsencesTotal.WithLabelValues("followers", "timeout")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.LookupDuration))
}
