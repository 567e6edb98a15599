package main

import (
	"fmt"
	"io"
	"runtime"
	"text/template"
	"time"

	"github.com/plus3/quickfps/ecs"
)

type Report struct {
	// Configuration
	Duration time.Duration
	Entities int
	Radius   float64

	// Results
	TotalUpdates   int64
	ClampedUpdates int64
	TotalTime      time.Duration
	UpdateTime     Stats
	Passes         []ecs.PassStats
	GridClients    int
	OccupiedCells  int
	Neighbors      int64
	Replaced       int64
	GCPauseMetrics bool
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	Samples []time.Duration

	frame time.Duration
}

// addPass accumulates one pass into the current frame sample.
func (s *Stats) addPass(d time.Duration) {
	s.frame += d
}

// endFrame closes the current frame sample.
func (s *Stats) endFrame() {
	s.Samples = append(s.Samples, s.frame)
	s.frame = 0
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = s.Samples[0]
	s.Max = s.Samples[0]

	for _, sample := range s.Samples {
		if sample < s.Min {
			s.Min = sample
		}
		if sample > s.Max {
			s.Max = sample
		}
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# ECS Stress Test Report

## Test Configuration
- **Run Duration:** {{.Duration}}
- **Initial Entities:** {{.Entities}}
- **Query Radius:** {{.Radius}}

## Performance Results
- **Total Updates:** {{.TotalUpdates}} ({{.ClampedUpdates}} clamped)
- **Total Test Time:** {{.TotalTime}}
- **Update Time (Frame):**
  - **Avg:** {{.UpdateTime.Avg}}
  - **Min:** {{.UpdateTime.Min}}
  - **Max:** {{.UpdateTime.Max}}

## Passes
{{range .Passes}}- **{{.Pass}}:** {{.Components}} components, avg {{.AvgDuration}}, max {{.MaxDuration}}
{{end}}
## Spatial Grid
- **Clients:** {{.GridClients}}
- **Occupied Cells:** {{.OccupiedCells}}
- **Neighbours Found:** {{.Neighbors}}
- **Entities Replaced:** {{.Replaced}}

## Memory
| | start | end | delta |
|---|---|---|---|
| heap alloc (MiB) | {{mb .MemStatsStart.HeapAlloc}} | {{mb .MemStatsEnd.HeapAlloc}} | {{delta .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc | mb}} |
| total alloc (MiB) | {{mb .MemStatsStart.TotalAlloc}} | {{mb .MemStatsEnd.TotalAlloc}} | {{delta .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc | mb}} |
| sys (MiB) | {{mb .MemStatsStart.Sys}} | {{mb .MemStatsEnd.Sys}} | {{delta .MemStatsEnd.Sys .MemStatsStart.Sys | mb}} |
| GC cycles | {{.MemStatsStart.NumGC}} | {{.MemStatsEnd.NumGC}} | {{gcs .}} |
{{if .GCPauseMetrics}}
## GC Pauses
- **Total pause:** {{pause .}}
- **Per cycle:** {{pausePerCycle .}}
{{end}}
`

	fm := template.FuncMap{
		"mb": func(v any) string {
			switch val := v.(type) {
			case uint64:
				return fmt.Sprintf("%.2f", float64(val)/(1<<20))
			case int64:
				return fmt.Sprintf("%+.2f", float64(val)/(1<<20))
			}
			return "n/a"
		},
		"delta": func(end, start uint64) int64 {
			return int64(end) - int64(start)
		},
		"gcs": func(r *Report) uint32 {
			return r.gcCycles()
		},
		"pause": func(r *Report) time.Duration {
			return r.gcPause()
		},
		"pausePerCycle": func(r *Report) time.Duration {
			if r.gcCycles() == 0 {
				return 0
			}
			return r.gcPause() / time.Duration(r.gcCycles())
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, r)
}

func (r *Report) gcCycles() uint32 {
	return r.MemStatsEnd.NumGC - r.MemStatsStart.NumGC
}

func (r *Report) gcPause() time.Duration {
	return time.Duration(r.MemStatsEnd.PauseTotalNs - r.MemStatsStart.PauseTotalNs)
}
