// Package tui implements the interactive terminal views for dnsm.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"nathanbeddoewebdev/dnsm/internal/clouddns"
	"nathanbeddoewebdev/dnsm/internal/domain"
	dnssvc "nathanbeddoewebdev/dnsm/internal/services/dns"
	"nathanbeddoewebdev/dnsm/internal/tui/components"
	"nathanbeddoewebdev/dnsm/internal/tui/styles"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// --- Messages ---

type domainsLoadedMsg struct {
	domains []domain.Domain
}

type domainDetailMsg struct {
	domain *domain.Domain
}

type loadErrorMsg struct {
	err error
}

// --- Model ---

type browsePhase int

const (
	phaseList   browsePhase = iota // scrolling the domain table
	phaseDetail                    // viewing one domain with its records
)

type domainBrowserModel struct {
	service *dnssvc.Service
	account string
	filter  string

	phase browsePhase

	// List phase.
	domains   []domain.Domain
	cursor    int
	listStart int

	// Detail phase.
	detail *domain.Domain

	width  int
	height int

	loading bool
	spinner spinner.Model
	err     error
	status  string
}

// RunDomainBrowser starts the interactive domain list. Selecting a
// domain loads its records in a detail view.
func RunDomainBrowser(svc *dnssvc.Service, account, filter string) error {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Blue)

	m := domainBrowserModel{
		service: svc,
		account: account,
		filter:  filter,
		loading: true,
		spinner: s,
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run domain browser: %w", err)
	}
	return nil
}

func (m domainBrowserModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadDomains())
}

func (m domainBrowserModel) loadDomains() tea.Cmd {
	return func() tea.Msg {
		domains, err := m.service.ListDomains(context.Background(), clouddns.ListDomainsOpts{Name: m.filter})
		if err != nil {
			return loadErrorMsg{err}
		}
		return domainsLoadedMsg{domains}
	}
}

func (m domainBrowserModel) loadDetail(id string) tea.Cmd {
	return func() tea.Msg {
		d, err := m.service.GetDomain(context.Background(), id, true)
		if err != nil {
			return loadErrorMsg{err}
		}
		return domainDetailMsg{d}
	}
}

func (m *domainBrowserModel) updateScroll() {
	visibleRows := max(m.height-8, 1)
	if m.cursor < m.listStart {
		m.listStart = m.cursor
	} else if m.cursor >= m.listStart+visibleRows {
		m.listStart = m.cursor - visibleRows + 1
	}
}

func (m domainBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case domainsLoadedMsg:
		m.loading = false
		m.domains = msg.domains
		m.cursor = 0
		m.listStart = 0
		if len(m.domains) == 0 {
			m.status = "No domains found."
		} else {
			m.status = fmt.Sprintf("%d domain(s)", len(m.domains))
		}
		return m, nil

	case domainDetailMsg:
		m.loading = false
		m.detail = msg.domain
		m.phase = phaseDetail
		m.status = ""
		return m, nil

	case loadErrorMsg:
		m.loading = false
		m.err = msg.err
		return m, nil

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	return m, nil
}

func (m domainBrowserModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.loading {
		return m, nil
	}

	if m.phase == phaseDetail {
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "esc", "backspace":
			m.phase = phaseList
			m.detail = nil
			m.err = nil
			return m, nil
		}
		return m, nil
	}

	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		m.updateScroll()
	case "down", "j":
		if m.cursor < len(m.domains)-1 {
			m.cursor++
		}
		m.updateScroll()
	case "g":
		m.cursor = 0
		m.updateScroll()
	case "G":
		if len(m.domains) > 0 {
			m.cursor = len(m.domains) - 1
		}
		m.updateScroll()
	case "r":
		m.loading = true
		m.err = nil
		return m, tea.Batch(m.spinner.Tick, m.loadDomains())
	case "enter":
		if len(m.domains) > 0 {
			m.loading = true
			m.err = nil
			return m, tea.Batch(m.spinner.Tick, m.loadDetail(m.domains[m.cursor].ID))
		}
	}

	return m, nil
}

func (m domainBrowserModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	breadcrumb := "domains"
	if m.phase == phaseDetail && m.detail != nil {
		breadcrumb = "domains > " + m.detail.Name
	}
	header := components.Header(m.width, breadcrumb, m.account)

	var bindings []components.KeyBinding
	switch {
	case m.loading:
		bindings = []components.KeyBinding{{Key: "ctrl+c", Desc: "quit"}}
	case m.phase == phaseDetail:
		bindings = []components.KeyBinding{
			{Key: "esc", Desc: "back"},
			{Key: "q", Desc: "quit"},
		}
	default:
		bindings = []components.KeyBinding{
			{Key: "j/k", Desc: "navigate"},
			{Key: "enter", Desc: "records"},
			{Key: "r", Desc: "refresh"},
			{Key: "q", Desc: "quit"},
		}
	}
	footer := components.Footer(m.width, bindings)

	statusBar := ""
	if m.err != nil {
		statusBar = components.StatusBar(m.width, "Error: "+m.err.Error(), true)
	} else if m.status != "" && m.phase == phaseList {
		statusBar = components.StatusBar(m.width, m.status, false)
	}

	headerH := lipgloss.Height(header)
	footerH := lipgloss.Height(footer)
	statusH := lipgloss.Height(statusBar)
	contentH := max(m.height-headerH-footerH-statusH, 1)

	content := m.renderContent(contentH)

	sections := []string{header, content}
	if statusBar != "" {
		sections = append(sections, statusBar)
	}
	sections = append(sections, footer)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m domainBrowserModel) renderContent(height int) string {
	if m.loading {
		return lipgloss.Place(
			m.width, height,
			lipgloss.Center, lipgloss.Center,
			styles.MutedText.Render(m.spinner.View()+"  Loading…"),
		)
	}

	if m.err != nil {
		return lipgloss.Place(
			m.width, height,
			lipgloss.Center, lipgloss.Center,
			styles.ErrorText.Render(fmt.Sprintf("Error: %v", m.err)),
		)
	}

	if m.phase == phaseDetail {
		return m.renderDetail(height)
	}

	if len(m.domains) == 0 {
		return lipgloss.Place(
			m.width, height,
			lipgloss.Center, lipgloss.Center,
			styles.MutedText.Render("No domains found."),
		)
	}

	return m.renderTable(height)
}

func (m domainBrowserModel) renderTable(height int) string {
	type column struct {
		title string
		width int
	}

	available := m.width - 4

	cols := []column{
		{title: "NAME", width: 32},
		{title: "ID", width: 12},
		{title: "EMAIL", width: 28},
		{title: "TTL", width: 8},
		{title: "UPDATED", width: 22},
	}

	total := 0
	for _, c := range cols {
		total += c.width
	}
	if available > total {
		cols[0].width += available - total
	}

	headerCells := make([]string, len(cols))
	for i, col := range cols {
		headerCells[i] = styles.TableHeader.Width(col.width).Render(col.title)
	}
	headerRow := lipgloss.JoinHorizontal(lipgloss.Top, headerCells...)

	sep := styles.MutedText.Render(strings.Repeat("─", max(available, 1)))

	visibleRows := max(height-3, 1)
	end := min(m.listStart+visibleRows, len(m.domains))

	rows := []string{headerRow, sep}
	for i := m.listStart; i < end; i++ {
		d := m.domains[i]

		ttl := ""
		if d.TTL > 0 {
			ttl = strconv.Itoa(d.TTL)
		}

		cells := []string{
			lipgloss.NewStyle().Width(cols[0].width).Render(d.Name),
			lipgloss.NewStyle().Width(cols[1].width).Render(d.ID),
			lipgloss.NewStyle().Width(cols[2].width).Render(d.EmailAddress),
			lipgloss.NewStyle().Width(cols[3].width).Render(ttl),
			lipgloss.NewStyle().Width(cols[4].width).Render(d.Updated),
		}
		rowContent := lipgloss.JoinHorizontal(lipgloss.Top, cells...)

		cursor := "  "
		rowStyle := styles.TableCell
		if i == m.cursor {
			cursor = styles.AccentText.Render("> ")
			rowStyle = styles.TableSelectedRow
		}

		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cursor, rowStyle.Render(rowContent)))
	}

	table := lipgloss.JoinVertical(lipgloss.Left, rows...)

	// Pad to keep the footer pinned to the bottom.
	lines := strings.Split(table, "\n")
	if len(lines) < height {
		table += strings.Repeat("\n", height-len(lines))
	}
	return table
}

func (m domainBrowserModel) renderDetail(height int) string {
	d := m.detail

	labelW := 14
	field := func(label, value string) string {
		return styles.Label.Width(labelW).Render(label) + styles.Value.Render(value)
	}

	fields := []string{
		field("Name", d.Name),
		field("ID", d.ID),
		field("Email", d.EmailAddress),
		field("TTL", strconv.Itoa(d.TTL)),
	}
	if d.Comment != "" {
		fields = append(fields, field("Comment", d.Comment))
	}
	if len(d.Nameservers) > 0 {
		fields = append(fields, field("Nameservers", strings.Join(d.Nameservers, ", ")))
	}
	if d.Updated != "" {
		fields = append(fields, field("Updated", d.Updated))
	}

	body := strings.Join(fields, "\n")

	if len(d.Records) > 0 {
		recHeader := styles.TableHeader.Render("TYPE") +
			styles.TableHeader.Width(30).Render("NAME") +
			styles.TableHeader.Width(30).Render("DATA") +
			styles.TableHeader.Render("TTL")
		recRows := []string{recHeader}
		for _, r := range d.Records {
			recRows = append(recRows,
				styles.TableCell.Width(6).Render(r.Type)+
					styles.TableCell.Width(30).Render(r.Name)+
					styles.TableCell.Width(30).Render(r.Data)+
					styles.TableCell.Render(strconv.Itoa(r.TTL)))
		}
		body += "\n\n" + styles.Subtitle.Render(fmt.Sprintf("%d record(s)", len(d.Records))) +
			"\n" + strings.Join(recRows, "\n")
	} else {
		body += "\n\n" + styles.MutedText.Render("No records returned.")
	}

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.DimGray).
		Padding(1, 2).
		Render(body)

	return lipgloss.Place(
		m.width, height,
		lipgloss.Center, lipgloss.Center,
		card,
	)
}
