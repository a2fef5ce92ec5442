// Package viz renders reaction–diffusion runs.
//
// Still and animated output:
//
//   - [Colormap]: named colorgrad palettes mapping concentration to colour
//   - [FrameImage], [FrameRGBA] and [Blend]: one frame as an image
//   - [WriteGIF] and [WriteAVI]: the retained frames as an animation
//   - [WriteStatsChart]: mean concentration over time as a PNG chart
//
// Interactive playback goes through [Session], a plain state value that the
// Bubble Tea [Player] and the ebiten canvas both drive.
//
// # Key Bindings
//
//	Space - Pause/Resume playback
//	[/]   - Step one frame back/forward
//	Home  - Jump to the first frame
//	S     - Switch between U and V
//	B     - Toggle the braille threshold view
//	T     - Cycle themes, each with its own field colormap
//	+/-   - Change playback speed
//	?     - Show help overlay
package viz
