package viz

import (
	"fmt"
	"image/gif"
	"io"

	"github.com/san-kum/rdsim/internal/dynamo"
)

const DefaultFPS = 10

// AnimOptions control GIF and AVI output. Playback speed is set by FPS and
// is independent of the simulated time step.
type AnimOptions struct {
	Species  dynamo.Species
	Colormap *Colormap
	FPS      int
	Scale    int
	// Labels draws the species and time on AVI frames.
	Labels bool
	// Blend renders both species on AVI frames and ignores Species.
	Blend bool
}

func (o AnimOptions) withDefaults() (AnimOptions, error) {
	if o.Colormap == nil {
		cm, err := NewColormap(DefaultColormap)
		if err != nil {
			return o, err
		}
		o.Colormap = cm
	}
	if o.FPS <= 0 {
		o.FPS = DefaultFPS
	}
	o.Scale = max(o.Scale, 1)
	return o, nil
}

// WriteGIF encodes every retained frame of ts as a looping GIF.
func WriteGIF(w io.Writer, ts *dynamo.TimeSeries, opts AnimOptions) error {
	if ts == nil || ts.Len() == 0 {
		return fmt.Errorf("%w: empty series", dynamo.ErrInvalidInput)
	}
	opts, err := opts.withDefaults()
	if err != nil {
		return err
	}

	delay := max(100/opts.FPS, 1)
	anim := gif.GIF{LoopCount: 0}
	for i := 0; i < ts.Len(); i++ {
		anim.Image = append(anim.Image, FrameImage(ts.Frame(i), opts.Species, opts.Colormap, opts.Scale))
		anim.Delay = append(anim.Delay, delay)
	}
	return gif.EncodeAll(w, &anim)
}
