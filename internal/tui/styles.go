package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/nunchaku-india/voucher-desk/internal/domain/voucher"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)

	tabStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(lipgloss.Color("240"))

	activeTabStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Bold(true).
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57"))

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	errStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))

	labelStyle = lipgloss.NewStyle().Bold(true).Width(22)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(1, 2)

	badgeBase = lipgloss.NewStyle().Padding(0, 1)

	// Status badge colors: draft neutral, pending amber, approved green,
	// rejected red. Anything unrecognized falls back to neutral.
	badgeStyles = map[voucher.Status]lipgloss.Style{
		voucher.StatusDraft:    badgeBase.Background(lipgloss.Color("250")).Foreground(lipgloss.Color("236")),
		voucher.StatusPending:  badgeBase.Background(lipgloss.Color("220")).Foreground(lipgloss.Color("236")),
		voucher.StatusApproved: badgeBase.Background(lipgloss.Color("42")).Foreground(lipgloss.Color("236")),
		voucher.StatusRejected: badgeBase.Background(lipgloss.Color("196")).Foreground(lipgloss.Color("231")),
	}
)

func statusBadge(s voucher.Status) string {
	style, ok := badgeStyles[s]
	if !ok {
		style = badgeStyles[voucher.StatusDraft]
	}
	return style.Render(s.String())
}
