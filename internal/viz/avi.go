package viz

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"

	"github.com/icza/mjpeg"

	"github.com/san-kum/rdsim/internal/dynamo"
)

// WriteAVI encodes every retained frame of ts as a Motion-JPEG AVI at path.
func WriteAVI(path string, ts *dynamo.TimeSeries, opts AnimOptions) (err error) {
	if ts == nil || ts.Len() == 0 {
		return fmt.Errorf("%w: empty series", dynamo.ErrInvalidInput)
	}
	opts, err = opts.withDefaults()
	if err != nil {
		return err
	}

	w, h := ts.W*opts.Scale, ts.H*opts.Scale
	aw, err := mjpeg.New(path, int32(w), int32(h), int32(opts.FPS))
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, aw.Close())
	}()

	var buf bytes.Buffer
	jpegOptions := &jpeg.Options{Quality: 90}
	for i := 0; i < ts.Len(); i++ {
		var img *image.RGBA
		if opts.Blend {
			img = Scale(Blend(ts.Frame(i)), opts.Scale)
		} else {
			img = Scale(FrameRGBA(ts.Frame(i), opts.Species, opts.Colormap), opts.Scale)
		}
		if opts.Labels {
			label := frameLabel(ts, i, opts.Species)
			if opts.Blend {
				label = fmt.Sprintf("u+v t=%g", ts.Time(i))
			}
			Label(img, label)
		}

		buf.Reset()
		if err := jpeg.Encode(&buf, img, jpegOptions); err != nil {
			return err
		}
		if err := aw.AddFrame(buf.Bytes()); err != nil {
			return err
		}
	}
	return nil
}
