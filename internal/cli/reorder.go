package cli

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mosaic/pkg/geom"
	"github.com/matzehuels/mosaic/pkg/grouped"
	"github.com/matzehuels/mosaic/pkg/manifest"
	"github.com/matzehuels/mosaic/pkg/pipeline"
)

const (
	// reorderHeaderLines is the number of lines above the grid.
	reorderHeaderLines = 2

	minGridCols     = 20
	maxGridCols     = 80
	defaultGridCols = 48
)

var tileColors = []lipgloss.Color{"75", "35", "220", "167", "141", "80", "209", "110", "179", "168"}

var (
	styleCursorTile = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
	styleHeldTile   = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
)

// reorderModel is the bubbletea model for dragging tiles of a measured
// layout. Keyboard: arrows select, space picks up and drops. Mouse: press
// on a tile, release on another.
type reorderModel struct {
	layout   *grouped.Layout
	box      geom.Size
	spacing  float64
	captions []grouped.Caption
	title    string

	cursor int
	held   int // index being dragged, -1 when none
	cols   int
	moved  bool
	saved  bool
	err    error
}

func newReorderModel(l *grouped.Layout, box geom.Size, spacing float64, captions []grouped.Caption, title string) reorderModel {
	return reorderModel{
		layout:   l,
		box:      box,
		spacing:  spacing,
		captions: captions,
		title:    title,
		held:     -1,
		cols:     defaultGridCols,
	}
}

func (m reorderModel) Init() tea.Cmd {
	return nil
}

func (m reorderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	n := m.layout.Count()
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "s":
			m.saved = true
			return m, tea.Quit
		case "left", "h", "up", "k", "shift+tab":
			m.cursor = (m.cursor + n - 1) % n
		case "right", "l", "down", "j", "tab":
			m.cursor = (m.cursor + 1) % n
		case " ", "space", "enter":
			if m.held < 0 {
				m.held = m.cursor
			} else {
				m = m.drop(m.center(m.cursor))
			}
		}
	case tea.MouseMsg:
		switch msg.Action {
		case tea.MouseActionPress:
			if msg.Button != tea.MouseButtonLeft {
				break
			}
			if i, ok := m.indexAt(m.pointAt(msg.X, msg.Y)); ok {
				m.held, m.cursor = i, i
			}
		case tea.MouseActionRelease:
			if m.held >= 0 {
				m = m.drop(m.pointAt(msg.X, msg.Y))
			}
		}
	case tea.WindowSizeMsg:
		m.cols = max(minGridCols, min(maxGridCols, msg.Width-2))
	}
	return m, nil
}

// drop moves the held item onto the tile under p and remeasures.
func (m reorderModel) drop(p geom.Point) reorderModel {
	from := m.held
	m.held = -1
	to, ok := m.layout.MoveItemIfNeeded(from, p)
	if !ok {
		m.cursor = from
		return m
	}
	if err := m.layout.Measure(m.box, m.spacing); err != nil {
		m.err = err
		return m
	}
	m.layout.ApplyCaptions(m.captions)
	m.cursor = to
	m.moved = true
	return m
}

// cellSize returns the points covered by one terminal cell. Cells are
// about twice as tall as they are wide.
func (m reorderModel) cellSize() (float64, float64) {
	sx := m.layout.Dimensions().Width / float64(m.cols)
	return sx, sx * 2
}

func (m reorderModel) pointAt(col, row int) geom.Point {
	sx, sy := m.cellSize()
	return geom.Point{
		X: (float64(col) + 0.5) * sx,
		Y: (float64(row-reorderHeaderLines) + 0.5) * sy,
	}
}

func (m reorderModel) center(i int) geom.Point {
	f, err := m.layout.FrameAt(i)
	if err != nil {
		return geom.Point{X: -1, Y: -1}
	}
	return geom.Point{X: f.CenterX(), Y: f.CenterY()}
}

func (m reorderModel) indexAt(p geom.Point) (int, bool) {
	it, ok := m.layout.ItemAt(p)
	if !ok {
		return -1, false
	}
	for i, cur := range m.layout.Items() {
		if cur.ID() == it.ID() {
			return i, true
		}
	}
	return -1, false
}

// order returns the item ids in their current order.
func (m reorderModel) order() []string {
	items := m.layout.Items()
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID()
	}
	return ids
}

func tileLabel(i int) string {
	return strconv.Itoa((i + 1) % 10)
}

func (m reorderModel) tileStyle(i int) lipgloss.Style {
	switch i {
	case m.held:
		return styleHeldTile
	case m.cursor:
		return styleCursorTile
	}
	return lipgloss.NewStyle().Foreground(tileColors[i%len(tileColors)])
}

func (m reorderModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Reorder " + m.title))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("←/→ select  space pick up/drop  drag with mouse  s save  q quit"))
	b.WriteString("\n")

	sx, sy := m.cellSize()
	rows := int(math.Ceil(m.layout.Dimensions().Height / sy))

	// The label goes in the cell holding each tile's center.
	labels := make(map[[2]int]int, m.layout.Count())
	for i := 0; i < m.layout.Count(); i++ {
		c := m.center(i)
		labels[[2]int{int(c.X / sx), int(c.Y / sy)}] = i
	}

	for row := 0; row < rows; row++ {
		for col := 0; col < m.cols; col++ {
			i, ok := m.indexAt(m.pointAt(col, row+reorderHeaderLines))
			if !ok {
				b.WriteString(" ")
				continue
			}
			glyph := "█"
			if m.cursor == i || m.held == i {
				glyph = "▓"
			}
			if li, ok := labels[[2]int{col, row}]; ok && li == i {
				glyph = tileLabel(i)
			}
			b.WriteString(m.tileStyle(i).Render(glyph))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	ids := m.order()
	for i, id := range ids {
		if i > 0 {
			b.WriteString(StyleDim.Render(" · "))
		}
		b.WriteString(m.tileStyle(i).Render(tileLabel(i) + " " + id))
	}
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(styleIconError.Render(iconError) + " " + m.err.Error() + "\n")
	}
	return b.String()
}

// reorderCommand creates the interactive reorder command.
func (c *CLI) reorderCommand() *cobra.Command {
	var flags measureFlags

	cmd := &cobra.Command{
		Use:   "reorder [manifest]",
		Short: "Drag tiles into a new order and save the manifest",
		Long: `Show the measured album in the terminal and reorder it by dragging one tile
onto another, with the mouse or the keyboard. The collage is remeasured
after every move. Press s to write the new order back to the manifest.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runReorder(cmd.Context(), args[0], c.options(cmd.Flags(), flags))
		},
	}
	flags.register(cmd.Flags())
	return cmd
}

func (c *CLI) runReorder(ctx context.Context, path string, opts pipeline.Options) error {
	album, err := manifest.Load(path)
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}

	runner, err := c.newRunner(false)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return err
	}
	if _, err := runner.Probe(ctx, album, opts); err != nil {
		return err
	}

	l, _, err := pipeline.MeasureLayout(album, opts)
	if err != nil {
		return err
	}
	box := geom.Size{Width: opts.Width, Height: opts.Height}

	p := tea.NewProgram(newReorderModel(l, box, opts.Spacing, album.Captions(), album.ID),
		tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return err
	}
	m := final.(reorderModel)
	if m.err != nil {
		return m.err
	}
	if !m.saved || !m.moved {
		printInfo("Order unchanged")
		return nil
	}

	ids := m.order()
	if err := album.Reorder(ids); err != nil {
		return err
	}
	if err := album.Save(path); err != nil {
		return err
	}
	printSuccess("Saved new order")
	printFile(path)
	printDetail("%s", strings.Join(ids, " "))
	return nil
}
