package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	cl "stonkbot/internal/cli"
	"stonkbot/internal/game"
)

var (
	watchFrame = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240"))
	watchTitle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	watchEvent = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	watchErr   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	watchUp    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	watchDown  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	watchDim   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func newWatchCmd(apiBase *string) *cobra.Command {
	interval := 2 * time.Second
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Live market table",
		RunE: func(cmd *cobra.Command, args []string) error {
			m := newWatchModel(newClient(apiBase), interval)
			_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
			return err
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", interval, "refresh interval")
	return cmd
}

type stocksMsg struct {
	payload cl.StocksPayload
	err     error
}

type refreshMsg struct{}

type watchModel struct {
	client    *cl.Client
	interval  time.Duration
	table     table.Model
	event     *game.MarketEvent
	err       error
	refreshed time.Time
}

func newWatchModel(client *cl.Client, interval time.Duration) watchModel {
	columns := []table.Column{
		{Title: "Name", Width: 12},
		{Title: "Price", Width: 10},
		{Title: "Change", Width: 16},
		{Title: "Sector", Width: 8},
		{Title: "Float", Width: 11},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57"))
	t.SetStyles(s)

	return watchModel{client: client, interval: interval, table: t}
}

func (m watchModel) Init() tea.Cmd { return m.fetch }

func (m watchModel) fetch() tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	payload, err := m.client.Stocks(ctx)
	return stocksMsg{payload: payload, err: err}
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "r":
			return m, m.fetch
		}
	case stocksMsg:
		m.err = msg.err
		if msg.err == nil {
			m.table.SetRows(stockRows(msg.payload.Stocks))
			m.event = msg.payload.Event
			m.refreshed = time.Now()
		}
		return m, tea.Tick(m.interval, func(time.Time) tea.Msg { return refreshMsg{} })
	case refreshMsg:
		return m, m.fetch
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func stockRows(stocks []game.StockView) []table.Row {
	rows := make([]table.Row, 0, len(stocks))
	for _, s := range stocks {
		change := watchDim.Render("0.00")
		if s.ChangeAmount > 0 {
			change = watchUp.Render(fmt.Sprintf("+%.2f (%.2f%%)", s.ChangeAmount, s.ChangePercent))
		} else if s.ChangeAmount < 0 {
			change = watchDown.Render(fmt.Sprintf("%.2f (%.2f%%)", s.ChangeAmount, s.ChangePercent))
		}
		rows = append(rows, table.Row{
			s.Name,
			strconv.FormatFloat(s.Price, 'f', 2, 64),
			change,
			s.Sector,
			fmt.Sprintf("%d/%d", s.AvailableShares, s.TotalShares),
		})
	}
	return rows
}

func (m watchModel) View() string {
	header := watchTitle.Render("stonk watch")
	if m.event != nil {
		header += "  " + watchEvent.Render(fmt.Sprintf("event: %s x%.2f", m.event.Sector, m.event.Multiplier))
	}
	footer := watchDim.Render("q quit · r refresh")
	if !m.refreshed.IsZero() {
		footer += watchDim.Render("  updated " + m.refreshed.Format("15:04:05"))
	}
	if m.err != nil {
		footer += "\n" + watchErr.Render("fetch failed: "+m.err.Error())
	}
	return header + "\n" + watchFrame.Render(m.table.View()) + "\n" + footer + "\n"
}
