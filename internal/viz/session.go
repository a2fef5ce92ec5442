package viz

import (
	"github.com/san-kum/rdsim/internal/dynamo"
)

const (
	minFPS = 1
	maxFPS = 60
)

// Session is the state of a playback view over a finished run. It is a
// plain value that frontends copy and update; it never touches a terminal
// or window itself.
type Session struct {
	Series  *dynamo.TimeSeries
	Species dynamo.Species
	Frame   int
	Playing bool
	FPS     int
}

func NewSession(ts *dynamo.TimeSeries) Session {
	return Session{Series: ts, Species: dynamo.V, Playing: true, FPS: DefaultFPS}
}

func (s Session) Len() int {
	if s.Series == nil {
		return 0
	}
	return s.Series.Len()
}

// Current returns the field shown at the playhead, or nil for an empty run.
func (s Session) Current() *dynamo.Field {
	if s.Len() == 0 {
		return nil
	}
	return s.Series.Frame(s.Frame)
}

// Next advances one frame, wrapping to the start.
func (s Session) Next() Session {
	if n := s.Len(); n > 0 {
		s.Frame = (s.Frame + 1) % n
	}
	return s
}

// Prev steps back one frame, wrapping to the end.
func (s Session) Prev() Session {
	if n := s.Len(); n > 0 {
		s.Frame = (s.Frame - 1 + n) % n
	}
	return s
}

// Seek moves the playhead, clamped to the valid range.
func (s Session) Seek(frame int) Session {
	s.Frame = max(0, min(frame, s.Len()-1))
	return s
}

func (s Session) Toggle() Session {
	s.Playing = !s.Playing
	return s
}

func (s Session) SwitchSpecies() Session {
	if s.Species == dynamo.U {
		s.Species = dynamo.V
	} else {
		s.Species = dynamo.U
	}
	return s
}

// WithFPS changes the playback rate, clamped to [1, 60].
func (s Session) WithFPS(fps int) Session {
	s.FPS = max(minFPS, min(fps, maxFPS))
	return s
}

// Time is the simulated time at the playhead.
func (s Session) Time() float64 {
	if s.Len() == 0 {
		return 0
	}
	return s.Series.Time(s.Frame)
}
