package viz

import (
	"fmt"
	"image/color"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/rdsim/internal/analysis"
	"github.com/san-kum/rdsim/internal/dynamo"
)

const (
	sidebarWidth     = 38
	brailleThreshold = 0.25
)

var (
	fieldStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).Padding(1, 2).Width(sidebarWidth)
	graphStyle = lipgloss.NewStyle().Padding(1, 0)
	valueStyle = lipgloss.NewStyle().Bold(true)
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Player is a Bubble Tea model that plays back a finished run in the
// terminal using half-block characters, two cells per character. Each
// player owns its theme; cycling it swaps the field colormap.
type Player struct {
	session       Session
	cm            *Colormap
	theme         Theme
	name          string
	meanU, meanV  []float64
	braille       bool
	showHelp      bool
	width, height int
}

// NewPlayer starts on the theme built on cm, or the first theme when none
// is. A nil cm uses the default colormap.
func NewPlayer(ts *dynamo.TimeSeries, cm *Colormap, name string) Player {
	if cm == nil {
		cm, _ = NewColormap(DefaultColormap)
	}
	return Player{
		session: NewSession(ts),
		cm:      cm,
		theme:   themeFor(cm.Name),
		name:    name,
		meanU:   analysis.MeanSeries(ts, dynamo.U),
		meanV:   analysis.MeanSeries(ts, dynamo.V),
		width:   100,
		height:  32,
	}
}

func (m Player) Session() Session { return m.session }

func (m Player) Theme() Theme { return m.theme }

func (m Player) Colormap() *Colormap { return m.cm }

// WithTheme switches to the named theme and its colormap, keeping the value
// range of the current colormap.
func (m Player) WithTheme(name string) (Player, error) {
	th, err := ThemeByName(name)
	if err != nil {
		return m, err
	}
	return m.applyTheme(th)
}

func (m Player) applyTheme(th Theme) (Player, error) {
	cm, err := NewColormap(th.Colormap)
	if err != nil {
		return m, err
	}
	m.theme = th
	m.cm = cm.WithRange(m.cm.Min, m.cm.Max)
	return m, nil
}

func (m Player) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.session.FPS), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Player) Init() tea.Cmd { return m.tick() }

func (m Player) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.session = m.session.Toggle()
		case "[", "left", "h":
			m.session = m.session.Prev()
		case "]", "right", "l":
			m.session = m.session.Next()
		case "home", "0":
			m.session = m.session.Seek(0)
		case "end", "$":
			m.session = m.session.Seek(m.session.Len() - 1)
		case "s":
			m.session = m.session.SwitchSpecies()
		case "b":
			m.braille = !m.braille
		case "+", "=":
			m.session = m.session.WithFPS(m.session.FPS + 2)
		case "-", "_":
			m.session = m.session.WithFPS(m.session.FPS - 2)
		case "?":
			m.showHelp = !m.showHelp
		case "t":
			if next, err := m.applyTheme(m.theme.Next()); err == nil {
				m = next
			}
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case TickMsg:
		if m.session.Playing {
			m.session = m.session.Next()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m Player) View() string {
	title := GradientText("RDSIM "+m.name, m.cm)
	if m.showHelp {
		return title + "\n\n" + helpText()
	}

	cols := max(m.width-sidebarWidth-8, 10)
	rows := max(m.height-6, 5)

	var field string
	if m.braille {
		field = RenderBraille(m.session.Current(), m.session.Species, brailleThreshold, cols, rows).String()
	} else {
		field = m.renderBlocks(cols, rows)
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, fieldStyle.Render(field), statsStyle.BorderForeground(m.theme.Border).Render(m.sidebar()))
	hints := KeyHint.Render("space play/pause  [/] step  s species  b braille  t theme  ? help  q quit")
	return title + "\n" + body + "\n" + hints
}

// renderBlocks draws the current frame with the top cell of each character
// as foreground and the bottom cell as background.
func (m Player) renderBlocks(maxCols, maxRows int) string {
	f := m.session.Current()
	if f == nil {
		return Subtle.Render("no frames")
	}
	cols := min(f.W, maxCols)
	rows := min((f.H+1)/2, maxRows)
	plane := f.Plane(m.session.Species)
	sample := func(c, r int) color.RGBA {
		x := c * f.W / cols
		y := min(r*f.H/(rows*2), f.H-1)
		return m.cm.At(float64(plane[f.Index(x, y)]))
	}

	var b strings.Builder
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			top, bottom := sample(c, 2*r), sample(c, 2*r+1)
			style := lipgloss.NewStyle().Foreground(rgbColor(top)).Background(rgbColor(bottom))
			b.WriteString(style.Render("▀"))
		}
		b.WriteRune('\n')
	}
	return b.String()
}

func (m Player) sidebar() string {
	s := m.session
	var b strings.Builder

	status := StatusRunning.Render("▶ playing")
	if !s.Playing {
		status = StatusPaused.Render("⏸ paused")
	}
	b.WriteString(status + "\n\n")

	line := func(label, value string) {
		b.WriteString(MetricLabel.Render(fmt.Sprintf("%-10s", label)) + valueStyle.Foreground(m.theme.Value).Render(value) + "\n")
	}
	line("species", s.Species.String())
	line("frame", fmt.Sprintf("%d/%d", s.Frame+1, s.Len()))
	line("time", fmt.Sprintf("%g", s.Time()))
	line("fps", fmt.Sprintf("%d", s.FPS))
	if f := s.Current(); f != nil {
		st := analysis.Stats(f, s.Species)
		line("mean", fmt.Sprintf("%.4f", st.Mean))
		line("range", fmt.Sprintf("[%.3f, %.3f]", st.Min, st.Max))
	}

	b.WriteString(Separator(sidebarWidth-6) + "\n")
	if s.Len() > 1 {
		b.WriteString(ProgressBar(float64(s.Frame)/float64(s.Len()-1), sidebarWidth-6) + "\n")
	}

	hist := m.meanV
	if s.Species == dynamo.U {
		hist = m.meanU
	}
	if len(hist) > 1 {
		upTo := hist[:s.Frame+1]
		if len(upTo) < 2 {
			upTo = hist[:2]
		}
		graph := asciigraph.Plot(upTo, asciigraph.Height(6), asciigraph.Width(sidebarWidth-12), asciigraph.Caption("mean "+s.Species.String()))
		b.WriteString(graphStyle.Foreground(m.theme.Graph).Render(graph) + "\n")
		b.WriteString(SparklineChart(hist, sidebarWidth-6, m.cm) + "\n")
	}
	return b.String()
}

func helpText() string {
	return helpStyle.Render(strings.Join([]string{
		"space    pause or resume playback",
		"[ ]      step one frame",
		"home/end first or last frame",
		"s        switch between U and V",
		"b        braille threshold view",
		"+ -      playback speed",
		"t        cycle themes and colormaps",
		"?        toggle this help",
		"q        quit",
	}, "\n"))
}

// RunPlayer plays ts in the terminal until the user quits. A non-empty
// theme overrides cm with the theme's colormap.
func RunPlayer(ts *dynamo.TimeSeries, cm *Colormap, name, theme string) error {
	if ts == nil || ts.Len() == 0 {
		return fmt.Errorf("%w: empty series", dynamo.ErrInvalidInput)
	}
	p := NewPlayer(ts, cm, name)
	if theme != "" {
		var err error
		if p, err = p.WithTheme(theme); err != nil {
			return err
		}
	}
	_, err := tea.NewProgram(p, tea.WithAltScreen()).Run()
	return err
}
