// Package metrics provides observability for the Lithic storage core using
// Prometheus metrics, plus a resource monitor that samples process memory
// through gopsutil so estimated table sizes can be compared against actual
// resident memory.
package metrics

import (
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

var (
	// RowsAppended tracks the total number of rows appended per table.
	//
	// Example:
	//	metrics.RowsAppended.WithLabelValues("customers").Inc()
	RowsAppended = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lithic_rows_appended_total",
			Help: "Total number of rows appended",
		},
		[]string{"table"},
	)

	// ChunksCreated counts chunks created per table, including the initial
	// chunk of a new table.
	ChunksCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lithic_chunks_created_total",
			Help: "Total number of chunks created",
		},
		[]string{"table"},
	)

	// ChunkCompressions tracks dictionary compressions per table.
	ChunkCompressions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lithic_chunk_compressions_total",
			Help: "Total number of chunk compressions",
		},
		[]string{"table"},
	)

	// TableMemoryBytes tracks the estimated memory footprint per table.
	TableMemoryBytes = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "lithic_table_memory_bytes",
			Help: "Estimated table memory usage in bytes",
		},
		[]string{"table"},
	)

	// SnapshotBytes tracks the size distribution of serialized chunk
	// snapshots after compression.
	SnapshotBytes = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "lithic_snapshot_bytes",
			Help: "Compressed chunk snapshot size in bytes",
			Buckets: []float64{
				1 << 10, // 1KiB
				1 << 14, // 16KiB
				1 << 18, // 256KiB
				1 << 22, // 4MiB
				1 << 26, // 64MiB
			},
		},
		[]string{"algorithm"},
	)

	// ProcessRSS tracks the resident set size of the process.
	ProcessRSS = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "lithic_process_rss_bytes",
			Help: "Resident set size of the process in bytes",
		},
	)
)

var (
	defaultMonitor     *ResourceMonitor
	defaultMonitorOnce sync.Once
)

// SampleResourceUsage samples the process through a shared monitor. Storage
// operations call it to refresh the ProcessRSS gauge alongside their
// estimated sizes.
func SampleResourceUsage() (*ResourceUsage, error) {
	defaultMonitorOnce.Do(func() {
		defaultMonitor = NewResourceMonitor()
	})
	return defaultMonitor.GetResourceUsage()
}

// ResourceMonitor samples process and system memory usage
type ResourceMonitor struct {
	process   *process.Process
	startTime time.Time
	mu        sync.RWMutex
}

// NewResourceMonitor creates a resource monitor for the current process
func NewResourceMonitor() *ResourceMonitor {
	proc, _ := process.NewProcess(int32(os.Getpid())) //nolint:gosec // G115: PIDs fit in int32

	return &ResourceMonitor{
		process:   proc,
		startTime: time.Now(),
	}
}

// ResourceUsage contains a point-in-time memory sample
type ResourceUsage struct {
	MemoryRSS             uint64
	MemoryVMS             uint64
	HeapAllocMB           uint64
	SystemMemoryPercent   float64
	SystemMemoryAvailable uint64
	GoroutineCount        int
}

// GetResourceUsage returns current resource usage. It also refreshes the
// ProcessRSS gauge.
func (rm *ResourceMonitor) GetResourceUsage() (*ResourceUsage, error) {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	usage := &ResourceUsage{}

	memInfo, err := rm.process.MemoryInfo()
	if err == nil {
		usage.MemoryRSS = memInfo.RSS
		usage.MemoryVMS = memInfo.VMS
		ProcessRSS.Set(float64(memInfo.RSS))
	}

	vmStat, err := mem.VirtualMemory()
	if err == nil {
		usage.SystemMemoryPercent = vmStat.UsedPercent
		usage.SystemMemoryAvailable = vmStat.Available
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	usage.HeapAllocMB = memStats.HeapAlloc / 1024 / 1024
	usage.GoroutineCount = runtime.NumGoroutine()

	return usage, nil
}

// Uptime returns how long the monitor has been running
func (rm *ResourceMonitor) Uptime() time.Duration {
	return time.Since(rm.startTime)
}
