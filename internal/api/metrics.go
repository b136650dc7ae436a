package api

import (
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

// ProcessStats собирает сведения о процессе сервера для /health
type ProcessStats struct {
	StartTime time.Time
	proc      *process.Process
}

// NewProcessStats создаёт сборщик для текущего процесса.
// Если gopsutil не может открыть процесс, CPU и RSS не сообщаются.
func NewProcessStats() *ProcessStats {
	ps := &ProcessStats{StartTime: time.Now()}
	if p, err := process.NewProcess(int32(os.Getpid())); err == nil {
		ps.proc = p
	}
	return ps
}

// Snapshot - снимок состояния процесса
type Snapshot struct {
	Uptime     string  `json:"uptime"`
	UptimeSec  float64 `json:"uptime_seconds"`
	CPUPercent float64 `json:"cpu_percent"`
	RSSMB      float64 `json:"rss_mb"`
	HeapMB     float64 `json:"heap_alloc_mb"`
	NumGC      uint32  `json:"num_gc"`
	Goroutines int     `json:"goroutines"`
}

// Snapshot возвращает текущее состояние процесса
func (ps *ProcessStats) Snapshot() Snapshot {
	uptime := time.Since(ps.StartTime)

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	s := Snapshot{
		Uptime:     uptime.Truncate(time.Second).String(),
		UptimeSec:  uptime.Seconds(),
		HeapMB:     float64(m.HeapAlloc) / 1024 / 1024,
		NumGC:      m.NumGC,
		Goroutines: runtime.NumGoroutine(),
	}
	if ps.proc == nil {
		return s
	}
	if cpu, err := ps.proc.CPUPercent(); err == nil {
		s.CPUPercent = cpu
	}
	if mem, err := ps.proc.MemoryInfo(); err == nil {
		s.RSSMB = float64(mem.RSS) / 1024 / 1024
	}
	return s
}
