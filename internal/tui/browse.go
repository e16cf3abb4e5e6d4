package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/hapscan/internal/discovery"
)

// ScanFunc enumerates accessories. It blocks for the whole discovery window.
type ScanFunc func() ([]*discovery.Record, error)

// NicknameFunc returns the stored label for a device id, or "".
type NicknameFunc func(deviceID string) string

// Messages for async operations
type scanStartMsg struct{}
type scanCompleteMsg struct {
	records []*discovery.Record
	err     error
}

// browseKeyMap defines key bindings for the accessory list
type browseKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Detail key.Binding
	Rescan key.Binding
	Quit   key.Binding
}

func (k browseKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Detail, k.Rescan, k.Quit}
}

func (k browseKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Detail},
		{k.Rescan, k.Quit},
	}
}

// scanningKeyMap is shown while a scan is running
type scanningKeyMap struct {
	Quit key.Binding
}

func (s scanningKeyMap) ShortHelp() []key.Binding { return []key.Binding{s.Quit} }

func (s scanningKeyMap) FullHelp() [][]key.Binding { return [][]key.Binding{{s.Quit}} }

// accessoryItem wraps a Record for use with bubbles/list
type accessoryItem struct {
	record   *discovery.Record
	nickname string
}

func (a accessoryItem) FilterValue() string {
	return strings.Join([]string{a.nickname, a.record.Name, a.record.ID, a.record.Model, a.record.Address}, " ")
}

func (a accessoryItem) Title() string {
	if a.nickname != "" {
		return a.nickname
	}
	return a.record.Name
}

func (a accessoryItem) Description() string {
	return a.record.Summary()
}

// accessoryDelegate renders each accessory as a bordered card
type accessoryDelegate struct {
	width int
}

func (d accessoryDelegate) Height() int { return 8 }

func (d accessoryDelegate) Spacing() int { return 1 }

func (d accessoryDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d accessoryDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(accessoryItem)
	if !ok {
		return
	}
	r := it.record
	selected := index == m.Index()

	var content strings.Builder
	if selected {
		content.WriteString(SelectedItemStyle.Render("→ " + it.Title()))
	} else {
		content.WriteString("  " + it.Title())
	}
	content.WriteString("\n\n")

	category := r.CategoryName()
	if category == "" {
		category = "Unknown"
	}
	content.WriteString(fmt.Sprintf("  Model:    %s (%s)\n", r.Model, category))
	content.WriteString(fmt.Sprintf("  ID:       %s\n", r.ID))
	content.WriteString(fmt.Sprintf("  Address:  %s:%d\n", r.Address, r.Port))
	status := r.PairingStatus()
	content.WriteString(fmt.Sprintf("  Pairing:  %s", pairingStyle(status).Render(status)))

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderColor).
		Padding(0, 2).
		MarginLeft(2).
		Width(cardWidth(d.width))
	if selected {
		card = card.BorderForeground(HighlightColor)
	}

	fmt.Fprint(w, card.Render(content.String()))
}

// BrowseModel is the accessory browser screen: it scans on start, lists the
// accessories found and shows the full record of the selected one on demand.
type BrowseModel struct {
	Scanning bool
	Detail   bool
	List     list.Model
	Err      error

	Width         int
	Height        int
	Spinner       spinner.Model
	ProgressBar   progress.Model
	ScanStartTime time.Time
	Help          help.Model
	Keys          browseKeyMap
	ScanningKeys  scanningKeyMap

	scan     ScanFunc
	nickname NicknameFunc
	timeout  time.Duration
}

// NewBrowseModel creates the browser screen. timeout only drives the
// progress bar; scan owns the actual discovery window. nickname may be nil.
func NewBrowseModel(scan ScanFunc, timeout time.Duration, nickname NicknameFunc) BrowseModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	progressBar := progress.New(progress.WithDefaultGradient())
	progressBar.Width = 40

	l := list.New([]list.Item{}, accessoryDelegate{width: MinTerminalWidth}, 0, 0)
	l.Title = "HomeKit Accessories"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)
	l.Styles.Title = TitleStyle

	if nickname == nil {
		nickname = func(string) string { return "" }
	}
	if timeout <= 0 {
		timeout = discovery.DefaultTimeout
	}

	return BrowseModel{
		List:        l,
		Spinner:     s,
		ProgressBar: progressBar,
		Help:        help.New(),
		Keys: browseKeyMap{
			Up: key.NewBinding(
				key.WithKeys("up", "k"),
				key.WithHelp("↑/k", "move up"),
			),
			Down: key.NewBinding(
				key.WithKeys("down", "j"),
				key.WithHelp("↓/j", "move down"),
			),
			Detail: key.NewBinding(
				key.WithKeys("enter", " "),
				key.WithHelp("enter", "details"),
			),
			Rescan: key.NewBinding(
				key.WithKeys("r"),
				key.WithHelp("r", "rescan"),
			),
			Quit: key.NewBinding(
				key.WithKeys("q", "ctrl+c"),
				key.WithHelp("q", "quit"),
			),
		},
		ScanningKeys: scanningKeyMap{
			Quit: key.NewBinding(
				key.WithKeys("q", "ctrl+c"),
				key.WithHelp("q", "quit"),
			),
		},
		scan:     scan,
		nickname: nickname,
		timeout:  timeout,
	}
}

// Init starts the first scan
func (m BrowseModel) Init() tea.Cmd {
	return m.startScan()
}

func (m BrowseModel) startScan() tea.Cmd {
	return tea.Batch(
		func() tea.Msg { return scanStartMsg{} },
		m.scanCmd(),
	)
}

func (m BrowseModel) scanCmd() tea.Cmd {
	scan := m.scan
	return func() tea.Msg {
		records, err := scan()
		return scanCompleteMsg{records: records, err: err}
	}
}

// Update handles messages and updates the model
func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.updateKeys(msg)

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.List.SetDelegate(accessoryDelegate{width: msg.Width})
		m.List.SetWidth(msg.Width - 4)
		m.List.SetHeight(msg.Height - 8)
		return m, nil

	case scanStartMsg:
		m.Scanning = true
		m.Detail = false
		m.ScanStartTime = time.Now()
		return m, m.Spinner.Tick

	case scanCompleteMsg:
		m.Scanning = false
		m.Err = msg.err
		items := make([]list.Item, len(msg.records))
		for i, r := range msg.records {
			items[i] = accessoryItem{record: r, nickname: m.nickname(r.ID)}
		}
		cmd = m.List.SetItems(items)
		return m, cmd

	case spinner.TickMsg:
		if !m.Scanning {
			return m, nil
		}
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}

	if !m.Scanning {
		m.List, cmd = m.List.Update(msg)
	}
	return m, cmd
}

func (m BrowseModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.Scanning {
		if key.Matches(msg, m.ScanningKeys.Quit) {
			return m, tea.Quit
		}
		return m, nil
	}

	// Typing into the filter must not trigger shortcuts
	if m.List.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.List, cmd = m.List.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.Keys.Detail):
		if m.List.SelectedItem() != nil {
			m.Detail = !m.Detail
		}
		return m, nil

	case key.Matches(msg, m.Keys.Rescan):
		m.Err = nil
		m.Detail = false
		cmd := m.List.SetItems([]list.Item{})
		return m, tea.Batch(cmd, m.startScan())

	case m.Detail && msg.String() == "esc":
		m.Detail = false
		return m, nil
	}

	var cmd tea.Cmd
	m.List, cmd = m.List.Update(msg)
	return m, cmd
}

// View renders the browser screen
func (m BrowseModel) View() string {
	width := m.Width
	if width == 0 {
		width = defaultWidth
	}

	var content, helpText string
	switch {
	case m.Scanning:
		content = m.renderScanning(width - 4)
		helpText = m.Help.View(m.ScanningKeys)
	case m.Detail:
		content = m.renderDetail()
		helpText = m.Help.View(m.Keys)
	default:
		content = m.renderResults()
		helpText = m.Help.View(m.Keys)
	}

	return RenderApplicationContainer(content, helpText, m.Width, m.Height)
}

func (m BrowseModel) renderScanning(width int) string {
	elapsed := time.Since(m.ScanStartTime)
	fraction := float64(elapsed) / float64(m.timeout)
	if fraction > 1 {
		fraction = 1
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		"",
		TitleStyle.Render(fmt.Sprintf("%s SEARCHING FOR ACCESSORIES", m.Spinner.View())),
		SubtitleStyle.Render("Browsing _hap._tcp on the local network..."),
		"",
		m.ProgressBar.ViewAs(fraction),
		"",
		SubtitleStyle.Render(fmt.Sprintf("Elapsed: %ds of %ds", int(elapsed.Seconds()), int(m.timeout.Seconds()))),
		"",
	)
	return lipgloss.Place(width, 0, lipgloss.Center, lipgloss.Top, content)
}

func (m BrowseModel) renderResults() string {
	var b strings.Builder
	b.WriteString("\n")

	switch {
	case m.Err != nil:
		b.WriteString(RenderError(fmt.Sprintf("Scan failed: %v", m.Err)))
		b.WriteString("\n\n")
		b.WriteString(indent(discovery.TroubleshootingHint(m.Err)))

	case len(m.List.Items()) == 0:
		b.WriteString("  ")
		b.WriteString(WarningStyle.Render("⚠ No HomeKit accessories found on your network"))
		b.WriteString("\n\n")
		b.WriteString("  Troubleshooting:\n")
		b.WriteString("    • Ensure accessories are powered on and joined to this network\n")
		b.WriteString("    • Verify multicast (UDP 5353) is not blocked\n")
		b.WriteString("    • Press 'r' to rescan\n")

	default:
		b.WriteString(m.List.View())
	}

	return b.String()
}

func (m BrowseModel) renderDetail() string {
	r := m.SelectedRecord()
	if r == nil {
		return m.renderResults()
	}
	return "\n" + InfoBoxStyle.Render(strings.TrimRight(r.FormatDetailed(m.nickname(r.ID)), "\n"))
}

// SelectedRecord returns the record under the cursor, or nil.
func (m BrowseModel) SelectedRecord() *discovery.Record {
	if it, ok := m.List.SelectedItem().(accessoryItem); ok {
		return it.record
	}
	return nil
}

func indent(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = "  " + l
	}
	return strings.Join(lines, "\n")
}

// Run shows the browser full-screen until the user quits.
func Run(scan ScanFunc, timeout time.Duration, nickname NicknameFunc) error {
	p := tea.NewProgram(NewBrowseModel(scan, timeout, nickname), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("browser error: %w", err)
	}
	return nil
}
