package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResourceMonitorGetResourceUsage(t *testing.T) {
	monitor := NewResourceMonitor()

	usage, err := monitor.GetResourceUsage()
	require.NoError(t, err)

	assert.Greater(t, usage.MemoryRSS, uint64(0))
	assert.Greater(t, usage.SystemMemoryAvailable, uint64(0))
	assert.Greater(t, usage.GoroutineCount, 0)
	assert.GreaterOrEqual(t, usage.SystemMemoryPercent, float64(0))
}

func TestSampleResourceUsageSharesMonitor(t *testing.T) {
	first, err := SampleResourceUsage()
	require.NoError(t, err)
	require.NotNil(t, first)

	monitor := defaultMonitor
	_, err = SampleResourceUsage()
	require.NoError(t, err)
	assert.Same(t, monitor, defaultMonitor)
}

func TestResourceMonitorUptime(t *testing.T) {
	monitor := NewResourceMonitor()
	assert.GreaterOrEqual(t, monitor.Uptime().Nanoseconds(), int64(0))
}
