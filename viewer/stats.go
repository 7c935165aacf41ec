package viewer

import (
	"time"

	"github.com/gogpu/mandelbrot"
	"github.com/hako/durafmt"
)

var shortUnits, _ = durafmt.DefaultUnitsCoder.Decode("y:yrs,wk:wks,d:d,h:h,m:m,s:s,ms:ms,us:us")

// Stats counts frames since the viewer was created.
type Stats struct {
	// Frames is the number of frames presented.
	Frames uint64

	// Rendered is the number of frames that were re-sampled.
	Rendered uint64

	// LastElapsed is the sampling time of the latest re-sampled frame.
	LastElapsed time.Duration

	// TotalElapsed is the sampling time of all re-sampled frames.
	TotalElapsed time.Duration

	// LastBackend names the path of the latest re-sampled frame.
	LastBackend string

	// Uptime is filled in by Viewer.Stats.
	Uptime time.Duration
}

func (s *Stats) record(f Frame) {
	s.Frames++
	if !f.Rendered {
		return
	}
	s.Rendered++
	s.LastElapsed = f.Elapsed
	s.TotalElapsed += f.Elapsed
	s.LastBackend = f.Backend
}

// MeanElapsed returns the average sampling time per re-sampled frame.
func (s Stats) MeanElapsed() time.Duration {
	if s.Rendered == 0 {
		return 0
	}
	return s.TotalElapsed / time.Duration(s.Rendered)
}

// FormatDuration renders d with at most two units, e.g. "12 ms 450 us".
func FormatDuration(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	return durafmt.Parse(d).LimitFirstN(2).Format(shortUnits)
}

func (v *Viewer) logStats(s Stats) {
	mandelbrot.Logger().Info("viewer: stats",
		"frames", s.Frames,
		"rendered", s.Rendered,
		"backend", s.LastBackend,
		"last", FormatDuration(s.LastElapsed),
		"mean", FormatDuration(s.MeanElapsed()),
		"uptime", FormatDuration(time.Since(v.started)),
	)
}
