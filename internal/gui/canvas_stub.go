//go:build !ebiten

package gui

import (
	"errors"

	"github.com/san-kum/rdsim/internal/config"
	"github.com/san-kum/rdsim/internal/viz"
)

// ErrNoGUI is returned by RunCanvas in builds without the ebiten tag.
var ErrNoGUI = errors.New("the drawing canvas requires building with the 'ebiten' tag (go build -tags ebiten ./cmd/rdsim)")

func RunCanvas(*config.Config, *viz.Colormap, int) error {
	return ErrNoGUI
}
