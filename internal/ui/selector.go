package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	pkgtypes "github.com/tdang/curfew/pkg/types"
)

const (
	listHeight = 8
	minWidth   = 60
	maxWidth   = 110

	colWidthID    = 21
	colWidthState = 12
	colWidthType  = 12
)

// selectorModel is the bubbletea model for picking one instance to stop.
type selectorModel struct {
	instances    []pkgtypes.Instance
	filtered     []pkgtypes.Instance
	cursor       int
	offset       int
	search       string
	selected     *pkgtypes.Instance
	quitting     bool
	cancelled    bool
	termWidth    int
	contentWidth int
	nameWidth    int
}

func newSelectorModel(instances []pkgtypes.Instance) selectorModel {
	m := selectorModel{
		instances: instances,
		filtered:  instances,
		termWidth: 80,
	}
	m.calculateWidths()
	return m
}

func (m *selectorModel) calculateWidths() {
	m.contentWidth = m.termWidth - 2
	if m.contentWidth < minWidth {
		m.contentWidth = minWidth
	}
	if m.contentWidth > maxWidth {
		m.contentWidth = maxWidth
	}

	// cursor(3) + ID + sp(2) + State + sp(2) + Type + sp(2)
	fixedWidth := 3 + colWidthID + 2 + colWidthState + 2 + colWidthType + 2
	m.nameWidth = m.contentWidth - fixedWidth
	if m.nameWidth < 10 {
		m.nameWidth = 10
	}
}

// Init implements tea.Model.
func (m selectorModel) Init() tea.Cmd {
	return tea.WindowSize()
}

// Update implements tea.Model.
func (m selectorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth = msg.Width
		m.calculateWidths()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quitting = true
			m.cancelled = true
			return m, tea.Quit

		case tea.KeyEnter:
			if len(m.filtered) > 0 {
				m.selected = &m.filtered[m.cursor]
				m.quitting = true
				return m, tea.Quit
			}

		case tea.KeyUp:
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}

		case tea.KeyDown:
			if m.cursor < len(m.filtered)-1 {
				m.cursor++
				if m.cursor >= m.offset+listHeight {
					m.offset = m.cursor - listHeight + 1
				}
			}

		case tea.KeyBackspace:
			if len(m.search) > 0 {
				m.search = m.search[:len(m.search)-1]
				m.filterInstances()
			}

		case tea.KeyRunes:
			m.search += string(msg.Runes)
			m.filterInstances()
		}
	}

	return m, nil
}

func (m *selectorModel) filterInstances() {
	if m.search == "" {
		m.filtered = m.instances
	} else {
		query := strings.ToLower(m.search)
		m.filtered = nil
		for _, inst := range m.instances {
			if strings.Contains(strings.ToLower(inst.Name), query) ||
				strings.Contains(strings.ToLower(inst.ID), query) {
				m.filtered = append(m.filtered, inst)
			}
		}
	}
	if m.cursor >= len(m.filtered) {
		if len(m.filtered) > 0 {
			m.cursor = len(m.filtered) - 1
		} else {
			m.cursor = 0
		}
	}
	m.offset = 0
}

// View implements tea.Model.
func (m selectorModel) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder
	w := m.contentWidth

	sb.WriteString(BorderStyle.Render(TopLeft))
	sb.WriteString(BorderStyle.Render(strings.Repeat(Horizontal, w)))
	sb.WriteString(BorderStyle.Render(TopRight))
	sb.WriteString("\n")

	// Search input
	sb.WriteString(BorderStyle.Render(Vertical))
	sb.WriteString(NameStyle.Render(padRight(" > "+m.search, w)))
	sb.WriteString(BorderStyle.Render(Vertical))
	sb.WriteString("\n")

	visibleEnd := m.offset + listHeight
	if visibleEnd > len(m.filtered) {
		visibleEnd = len(m.filtered)
	}

	for i := m.offset; i < visibleEnd; i++ {
		sb.WriteString(m.renderRow(i))
	}

	// Fill remaining lines if list is short
	for i := len(m.filtered); i < m.offset+listHeight; i++ {
		sb.WriteString(BorderStyle.Render(Vertical))
		sb.WriteString(strings.Repeat(" ", w))
		sb.WriteString(BorderStyle.Render(Vertical))
		sb.WriteString("\n")
	}

	sb.WriteString(BorderStyle.Render(BottomLeft))
	sb.WriteString(BorderStyle.Render(strings.Repeat(Horizontal, w)))
	sb.WriteString(BorderStyle.Render(BottomRight))
	sb.WriteString("\n")

	sb.WriteString(HintStyle.Render(fmt.Sprintf("  %d/%d instances", len(m.filtered), len(m.instances))))
	sb.WriteString(HintStyle.Render("  ·  ↑/↓ move · enter stop · esc cancel"))
	sb.WriteString("\n")

	return sb.String()
}

func (m selectorModel) renderRow(idx int) string {
	inst := m.filtered[idx]
	w := m.contentWidth

	var line strings.Builder
	plainWidth := 0

	if idx == m.cursor {
		line.WriteString(" > ")
	} else {
		line.WriteString("   ")
	}
	plainWidth += 3

	line.WriteString(IDStyle.Render(padRight(inst.ID, colWidthID)))
	line.WriteString("  ")
	plainWidth += colWidthID + 2

	state := string(inst.State)
	line.WriteString(stateStyle(state).Render(padRight(state, colWidthState)))
	line.WriteString("  ")
	plainWidth += colWidthState + 2

	line.WriteString(PlainStyle.Render(padRight(inst.Type, colWidthType)))
	line.WriteString("  ")
	plainWidth += colWidthType + 2

	line.WriteString(NameStyle.Render(padRight(inst.Name, m.nameWidth)))
	plainWidth += m.nameWidth

	if plainWidth < w {
		line.WriteString(strings.Repeat(" ", w-plainWidth))
	}

	return BorderStyle.Render(Vertical) + line.String() + BorderStyle.Render(Vertical) + "\n"
}

// SelectInstance runs the interactive picker and returns the chosen
// instance, or nil if the user cancelled.
func SelectInstance(instances []pkgtypes.Instance) (*pkgtypes.Instance, error) {
	p := tea.NewProgram(newSelectorModel(instances))

	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("selector failed: %w", err)
	}

	m, ok := final.(selectorModel)
	if !ok || m.cancelled {
		return nil, nil
	}
	return m.selected, nil
}
