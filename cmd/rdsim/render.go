package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/san-kum/rdsim/internal/analysis"
	"github.com/san-kum/rdsim/internal/dynamo"
	"github.com/san-kum/rdsim/internal/export"
	"github.com/san-kum/rdsim/internal/gui"
	"github.com/san-kum/rdsim/internal/storage"
	"github.com/san-kum/rdsim/internal/viz"
)

func loadRun(runID string) (*storage.RunMetadata, *dynamo.TimeSeries, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	ts, err := st.LoadSeries(runID)
	if err != nil {
		return nil, nil, err
	}
	return meta, ts, nil
}

// fitRange spans cm over every frame of ts for the given species when
// --auto-range is set.
func fitRange(cm *viz.Colormap, ts *dynamo.TimeSeries, kinds ...dynamo.Species) *viz.Colormap {
	if !autoRange {
		return cm
	}
	var planes [][]float32
	for i := 0; i < ts.Len(); i++ {
		for _, s := range kinds {
			planes = append(planes, ts.Slice(i, s))
		}
	}
	return cm.AutoRange(planes...)
}

func animOptions(ts *dynamo.TimeSeries) (viz.AnimOptions, error) {
	s, err := dynamo.ParseSpecies(species)
	if err != nil {
		return viz.AnimOptions{}, err
	}
	cm, err := viz.NewColormap(colormap)
	if err != nil {
		return viz.AnimOptions{}, err
	}
	cm = fitRange(cm, ts, s)
	return viz.AnimOptions{Species: s, Colormap: cm, FPS: fps, Scale: scale, Labels: labels, Blend: blend}, nil
}

func renderGIF(cmd *cobra.Command, args []string) error {
	_, ts, err := loadRun(args[0])
	if err != nil {
		return err
	}
	opts, err := animOptions(ts)
	if err != nil {
		return err
	}

	path := defaultOut(args[0], "gif")
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := viz.WriteGIF(f, ts, opts); err != nil {
		return err
	}
	fmt.Printf("wrote %d frames to %s\n", ts.Len(), path)
	return nil
}

func renderAVI(cmd *cobra.Command, args []string) error {
	_, ts, err := loadRun(args[0])
	if err != nil {
		return err
	}
	opts, err := animOptions(ts)
	if err != nil {
		return err
	}

	path := defaultOut(args[0], "avi")
	if err := viz.WriteAVI(path, ts, opts); err != nil {
		return err
	}
	fmt.Printf("wrote %d frames to %s\n", ts.Len(), path)
	return nil
}

func renderSVG(cmd *cobra.Command, args []string) error {
	_, ts, err := loadRun(args[0])
	if err != nil {
		return err
	}

	path := defaultOut(args[0], "svg")
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()

	if phaseSVG {
		svg := export.PhasePortraitToSVG(analysis.GeneratePhasePortrait(ts), 600, 600, "#00ff88")
		if svg == "" {
			return fmt.Errorf("need at least 2 frames for a phase portrait")
		}
		if _, err := out.WriteString(svg); err != nil {
			return err
		}
		fmt.Printf("phase portrait written to %s\n", path)
		return nil
	}

	s, err := dynamo.ParseSpecies(species)
	if err != nil {
		return err
	}
	cm, err := viz.NewColormap(colormap)
	if err != nil {
		return err
	}
	idx := frameIdx
	if idx < 0 {
		idx = ts.Len() - 1
	}
	if idx >= ts.Len() {
		return fmt.Errorf("frame %d out of range (run has %d)", idx, ts.Len())
	}
	if threshold > 0 {
		f := ts.Frame(idx)
		dots := viz.RenderBraille(f, s, threshold, (f.W+1)/2, (f.H+3)/4)
		if _, err := out.WriteString(export.CanvasToSVG(dots, cellSize)); err != nil {
			return err
		}
	} else if autoRange {
		if err := export.FrameToSVG(out, ts.Frame(idx), s, cm.AutoRange(ts.Slice(idx, s)), cellSize); err != nil {
			return err
		}
	} else if err := export.FrameToSVG(out, ts.Frame(idx), s, cm, cellSize); err != nil {
		return err
	}
	fmt.Printf("frame %d written to %s\n", idx, path)
	return nil
}

func viewRun(cmd *cobra.Command, args []string) error {
	meta, ts, err := loadRun(args[0])
	if err != nil {
		return err
	}
	cm, err := viz.NewColormap(colormap)
	if err != nil {
		return err
	}
	return viz.RunPlayer(ts, fitRange(cm, ts, dynamo.U, dynamo.V), meta.ID, theme)
}

func drawCanvas(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	cm, err := viz.NewColormap(colormap)
	if err != nil {
		return err
	}
	return gui.RunCanvas(cfg, cm, drawScale)
}
