package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/wippyai/typeinfo/portable"
	"github.com/wippyai/typeinfo/schema"
)

func newBrowseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "browse <table>",
		Short: "Browse a table interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := readTable(args[0], a.format())
			if err != nil {
				return err
			}
			p := tea.NewProgram(newBrowseModel(args[0], reg), tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}
}

var paneStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("#7D56F4")).
	Padding(0, 1)

type typeItem struct {
	name string
	kind string
	id   uint32
}

func (i typeItem) Title() string       { return "#" + strconv.FormatUint(uint64(i.id), 10) + " " + i.name }
func (i typeItem) Description() string { return i.kind }
func (i typeItem) FilterValue() string { return i.name }

type pane int

const (
	paneList pane = iota
	paneDetail
)

type browseModel struct {
	reg      *portable.Registry
	users    map[uint32][]uint32
	filename string
	list     list.Model
	detail   viewport.Model
	focus    pane
	current  int
	ready    bool
}

func newBrowseModel(filename string, reg *portable.Registry) *browseModel {
	items := make([]list.Item, 0, reg.Len())
	users := make(map[uint32][]uint32)
	for _, e := range reg.Types() {
		items = append(items, typeItem{
			id:   e.ID,
			name: refName(reg, e.ID),
			kind: e.Type.Def.Kind().String(),
		})
		seen := make(map[uint32]bool)
		for _, ref := range schema.Refs(e.Type) {
			if !seen[ref] {
				seen[ref] = true
				users[ref] = append(users[ref], e.ID)
			}
		}
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = fmt.Sprintf("%s (%d types)", filename, reg.Len())
	l.Styles.Title = titleStyle

	return &browseModel{
		reg:      reg,
		users:    users,
		filename: filename,
		list:     l,
		current:  -1,
	}
}

func (m *browseModel) Init() tea.Cmd {
	return nil
}

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		listWidth := msg.Width * 2 / 5
		height := msg.Height - 2
		m.list.SetSize(listWidth, height)
		detailWidth := msg.Width - listWidth - paneStyle.GetHorizontalFrameSize()
		detailHeight := height - paneStyle.GetVerticalFrameSize()
		if !m.ready {
			m.detail = viewport.New(detailWidth, detailHeight)
			m.ready = true
		} else {
			m.detail.Width = detailWidth
			m.detail.Height = detailHeight
		}
		m.current = -1
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			if m.focus == paneList {
				m.focus = paneDetail
			} else {
				m.focus = paneList
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	if m.focus == paneDetail && m.ready {
		m.detail, cmd = m.detail.Update(msg)
		return m, cmd
	}
	m.list, cmd = m.list.Update(msg)
	m.refresh()
	return m, cmd
}

// refresh loads the selected type into the detail pane when it changed.
func (m *browseModel) refresh() {
	if !m.ready {
		return
	}
	item, ok := m.list.SelectedItem().(typeItem)
	if !ok {
		m.detail.SetContent("")
		return
	}
	if int(item.id) == m.current {
		return
	}
	m.current = int(item.id)
	m.detail.SetContent(m.details(item.id))
	m.detail.GotoTop()
}

func (m *browseModel) details(id uint32) string {
	var b strings.Builder
	b.WriteString(definition(m.reg, id))

	ty, ok := m.reg.Resolve(id)
	if !ok {
		return b.String()
	}
	if refs := uniqueSorted(schema.Refs(*ty)); len(refs) > 0 {
		b.WriteString("\nUses:\n")
		for _, ref := range refs {
			fmt.Fprintf(&b, "  #%d %s\n", ref, refName(m.reg, ref))
		}
	}
	if users := m.users[id]; len(users) > 0 {
		b.WriteString("\nUsed by:\n")
		for _, user := range users {
			fmt.Fprintf(&b, "  #%d %s\n", user, refName(m.reg, user))
		}
	}
	return b.String()
}

func uniqueSorted(ids []uint32) []uint32 {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := ids[:0]
	for i, id := range ids {
		if i == 0 || id != ids[i-1] {
			out = append(out, id)
		}
	}
	return out
}

func (m *browseModel) View() string {
	if !m.ready {
		return "Loading..."
	}
	detail := paneStyle
	if m.focus != paneDetail {
		detail = detail.BorderForeground(lipgloss.Color("#444444"))
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.list.View(), detail.Render(m.detail.View()))
	return body + "\n" + helpStyle.Render("tab switch pane • / filter • q quit")
}
