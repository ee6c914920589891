// Package tui is the terminal front end: a create-voucher form, the voucher
// table with status-gated actions, and the modal dialogs the action flows
// block on. All remote work runs in command goroutines; the model only
// mutates in response to the messages they send back.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/nunchaku-india/voucher-desk/internal/domain/voucher"
	"github.com/nunchaku-india/voucher-desk/internal/form"
	"github.com/nunchaku-india/voucher-desk/internal/list"
	"go.uber.org/zap"
)

const (
	tabVouchers = iota
	tabCreate
)

// Field order on the create tab.
const (
	fieldAssociation = iota
	fieldFinancialYear
	fieldDate
	fieldPayee
	fieldAmount
	fieldPurpose
	fieldApprovedBy
	fieldCount
)

type (
	// listRefreshedMsg fires after any list action finishes.
	listRefreshedMsg struct{}

	// formSubmittedMsg fires after a create attempt finishes.
	formSubmittedMsg struct{}
)

// modal is the active dialog, nil when none is showing.
type modal struct {
	req   dialogRequestMsg
	input textinput.Model
}

// Model is the root bubbletea model.
type Model struct {
	ctx    context.Context
	form   *form.Form
	list   *list.List
	logger *zap.Logger

	tab        int
	table      table.Model
	rows       []voucher.Voucher // snapshot backing the table rows
	inputs     []textinput.Model
	focus      int
	submitting bool

	// Snapshot of the last submit outcome, taken on formSubmittedMsg so the
	// view never reads form state while a submit goroutine owns it.
	formErr     string
	formSuccess bool
	created     *voucher.Voucher

	modal  *modal
	width  int
	height int
}

// NewModel wires the front end together.
func NewModel(ctx context.Context, f *form.Form, l *list.List, logger *zap.Logger) *Model {
	columns := []table.Column{
		{Title: "Voucher #", Width: 18},
		{Title: "Date", Width: 12},
		{Title: "Payee", Width: 18},
		{Title: "Amount", Width: 12},
		{Title: "Purpose", Width: 24},
		{Title: "Status", Width: 10},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	labels := []string{
		"Association Name", "Financial Year", "Voucher Date (yyyy-mm-dd)",
		"Payee Name *", "Amount *", "Purpose *", "Approved By (Treasurer) *",
	}
	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		ti := textinput.New()
		ti.Placeholder = labels[i]
		ti.CharLimit = 120
		ti.Width = 40
		inputs[i] = ti
	}
	inputs[fieldAssociation].Focus()

	m := &Model{
		ctx:    ctx,
		form:   f,
		list:   l,
		logger: logger,
		table:  t,
		inputs: inputs,
	}
	m.fieldsFromForm()
	return m
}

// Init loads the voucher list once on startup.
func (m *Model) Init() tea.Cmd {
	return m.loadCmd()
}

func (m *Model) loadCmd() tea.Cmd {
	return func() tea.Msg {
		m.list.Load(m.ctx)
		return listRefreshedMsg{}
	}
}

func (m *Model) actionCmd(run func()) tea.Cmd {
	return func() tea.Msg {
		run()
		return listRefreshedMsg{}
	}
}

func (m *Model) submitCmd() tea.Cmd {
	return func() tea.Msg {
		m.form.Submit(m.ctx)
		return formSubmittedMsg{}
	}
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case dialogRequestMsg:
		md := &modal{req: msg}
		if msg.kind == dialogReason {
			md.input = textinput.New()
			md.input.Placeholder = "reason"
			md.input.Width = 40
			md.input.Focus()
		}
		m.modal = md
		return m, nil

	case listRefreshedMsg:
		m.rows = m.list.Vouchers()
		m.logger.Debug("voucher list refreshed", zap.Int("count", len(m.rows)))
		rows := make([]table.Row, len(m.rows))
		for i, v := range m.rows {
			number := v.VoucherNumber
			if number == "" {
				number = "N/A"
			}
			rows[i] = table.Row{
				number, v.Date, v.Payee,
				voucher.FormatINR(v.Amount), v.Purpose, v.Status.String(),
			}
		}
		m.table.SetRows(rows)
		return m, nil

	case formSubmittedMsg:
		m.submitting = false
		m.formErr = m.form.Err
		m.formSuccess = m.form.Success
		m.created = m.form.Created
		m.fieldsFromForm()
		if m.formSuccess {
			// A fresh voucher exists; keep the table current.
			return m, m.loadCmd()
		}
		return m, nil

	case tea.KeyMsg:
		if m.modal != nil {
			return m.updateModal(msg)
		}
		return m.updateKeys(msg)
	}

	return m, nil
}

func (m *Model) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	md := m.modal
	switch md.req.kind {
	case dialogConfirm:
		switch msg.String() {
		case "y", "Y", "enter":
			md.req.confirmReply <- true
			m.modal = nil
		case "n", "N", "esc":
			md.req.confirmReply <- false
			m.modal = nil
		}
	case dialogReason:
		switch msg.String() {
		case "enter":
			md.req.reasonReply <- reasonAnswer{reason: strings.TrimSpace(md.input.Value()), ok: true}
			m.modal = nil
		case "esc":
			md.req.reasonReply <- reasonAnswer{ok: false}
			m.modal = nil
		default:
			var cmd tea.Cmd
			md.input, cmd = md.input.Update(msg)
			return m, cmd
		}
	case dialogAlert:
		switch msg.String() {
		case "enter", "esc", " ":
			md.req.ackReply <- struct{}{}
			m.modal = nil
		}
	}
	return m, nil
}

func (m *Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if msg.String() == "tab" {
		m.tab = (m.tab + 1) % 2
		return m, nil
	}

	if m.tab == tabVouchers {
		return m.updateVouchersTab(msg)
	}
	return m.updateCreateTab(msg)
}

func (m *Model) updateVouchersTab(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "r":
		return m, m.loadCmd()
	case "p":
		if v, ok := m.selectedVoucher(); ok {
			return m, m.actionCmd(func() { m.list.Print(m.ctx, v) })
		}
	case "a":
		if v, ok := m.selectedVoucher(); ok && voucher.Can(v.Status, voucher.ActionApprove) {
			return m, m.actionCmd(func() { m.list.Approve(m.ctx, v.ID) })
		}
	case "x":
		if v, ok := m.selectedVoucher(); ok && voucher.Can(v.Status, voucher.ActionReject) {
			return m, m.actionCmd(func() { m.list.Reject(m.ctx, v.ID) })
		}
	case "d":
		if v, ok := m.selectedVoucher(); ok && voucher.Can(v.Status, voucher.ActionDelete) {
			return m, m.actionCmd(func() { m.list.Delete(m.ctx, v.ID) })
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *Model) selectedVoucher() (voucher.Voucher, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.rows) {
		return voucher.Voucher{}, false
	}
	return m.rows[i], true
}

func (m *Model) updateCreateTab(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.tab = tabVouchers
		return m, nil
	case "up", "shift+tab":
		m.setFocus(m.focus - 1)
		return m, nil
	case "down":
		m.setFocus(m.focus + 1)
		return m, nil
	case "enter":
		if m.focus < fieldApprovedBy {
			m.setFocus(m.focus + 1)
			return m, nil
		}
		fallthrough
	case "ctrl+s":
		if m.submitting {
			return m, nil // control is disabled while a submit is in flight
		}
		m.submitting = true
		m.formSuccess = false
		m.formErr = ""
		m.fieldsToForm()
		return m, m.submitCmd()
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) setFocus(i int) {
	if i < 0 {
		i = fieldCount - 1
	}
	if i >= fieldCount {
		i = 0
	}
	m.inputs[m.focus].Blur()
	m.focus = i
	m.inputs[m.focus].Focus()
}

// fieldsToForm copies the inputs into the form before a submit.
func (m *Model) fieldsToForm() {
	m.form.Association = m.inputs[fieldAssociation].Value()
	m.form.FinancialYear = m.inputs[fieldFinancialYear].Value()
	m.form.Date = m.inputs[fieldDate].Value()
	m.form.Payee = m.inputs[fieldPayee].Value()
	m.form.Amount = m.inputs[fieldAmount].Value()
	m.form.Purpose = m.inputs[fieldPurpose].Value()
	m.form.ApprovedBy = m.inputs[fieldApprovedBy].Value()
}

// fieldsFromForm copies the form into the inputs, used at startup and after
// a submit so a success shows the reset defaults and a failure keeps the
// user's input.
func (m *Model) fieldsFromForm() {
	m.inputs[fieldAssociation].SetValue(m.form.Association)
	m.inputs[fieldFinancialYear].SetValue(m.form.FinancialYear)
	m.inputs[fieldDate].SetValue(m.form.Date)
	m.inputs[fieldPayee].SetValue(m.form.Payee)
	m.inputs[fieldAmount].SetValue(m.form.Amount)
	m.inputs[fieldPurpose].SetValue(m.form.Purpose)
	m.inputs[fieldApprovedBy].SetValue(m.form.ApprovedBy)
}

// View renders the active tab, with any modal on top.
func (m *Model) View() string {
	var b strings.Builder

	tabs := []string{"Vouchers", "Create Voucher"}
	var rendered []string
	for i, name := range tabs {
		if i == m.tab {
			rendered = append(rendered, activeTabStyle.Render(name))
		} else {
			rendered = append(rendered, tabStyle.Render(name))
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
	b.WriteString("\n\n")

	if m.tab == tabVouchers {
		b.WriteString(m.viewVouchers())
	} else {
		b.WriteString(m.viewCreate())
	}

	if m.modal != nil {
		b.WriteString("\n")
		b.WriteString(m.viewModal())
	}

	return b.String()
}

func (m *Model) viewVouchers() string {
	var b strings.Builder

	switch {
	case m.list.Loading():
		b.WriteString(titleStyle.Render("All Vouchers"))
		b.WriteString("\n\nLoading vouchers...\n")

	case m.list.Err() != "":
		b.WriteString(titleStyle.Render("All Vouchers"))
		b.WriteString("\n\n")
		b.WriteString(errStyle.Render("Error: " + m.list.Err()))
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("r retry • tab create • q quit"))

	case m.list.Count() == 0:
		b.WriteString(titleStyle.Render("All Vouchers (0)"))
		b.WriteString("\n\nNo vouchers found. Create your first voucher!\n\n")
		b.WriteString(helpStyle.Render("r refresh • tab create • q quit"))

	default:
		b.WriteString(titleStyle.Render(fmt.Sprintf("All Vouchers (%d)", m.list.Count())))
		b.WriteString("\n\n")
		b.WriteString(m.table.View())
		b.WriteString("\n")
		if v, ok := m.selectedVoucher(); ok {
			b.WriteString(statusBadge(v.Status))
			b.WriteString("  ")
			b.WriteString(helpStyle.Render(actionHelp(m.list.Actions(v))))
			b.WriteString("\n")
		}
		b.WriteString(helpStyle.Render("r refresh • tab create • q quit"))
	}

	return b.String()
}

// actionHelp lists only the controls the selected voucher's status permits.
func actionHelp(actions []voucher.Action) string {
	keys := map[voucher.Action]string{
		voucher.ActionPrint:   "p print",
		voucher.ActionApprove: "a approve",
		voucher.ActionReject:  "x reject",
		voucher.ActionDelete:  "d delete",
	}
	parts := make([]string, 0, len(actions))
	for _, a := range actions {
		parts = append(parts, keys[a])
	}
	return strings.Join(parts, " • ")
}

func (m *Model) viewCreate() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Create Voucher"))
	b.WriteString("\n\n")

	labels := []string{
		"Association Name", "Financial Year", "Voucher Date",
		"Payee Name *", "Amount *", "Purpose *", "Approved By *",
	}
	for i, input := range m.inputs {
		b.WriteString(labelStyle.Render(labels[i]))
		b.WriteString(input.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.formErr != "" {
		b.WriteString(errStyle.Render(m.formErr))
		b.WriteString("\n")
	}
	if m.formSuccess {
		b.WriteString(successStyle.Render("Voucher generated successfully!"))
		b.WriteString("\n")
	}
	if m.created != nil {
		b.WriteString(m.viewCreated())
	}

	if m.submitting {
		b.WriteString(helpStyle.Render("Saving..."))
	} else {
		b.WriteString(helpStyle.Render("enter next/submit • ctrl+s submit • esc back • tab vouchers"))
	}
	return b.String()
}

// viewCreated shows the freshly created record, server-assigned fields
// included.
func (m *Model) viewCreated() string {
	v := m.created
	lines := []string{
		"Voucher Number: " + v.VoucherNumber,
		"Association: " + v.Association,
		"Financial Year: " + v.FinancialYear,
		"Date: " + v.Date,
		"Payee: " + v.Payee,
		"Amount: " + voucher.FormatINR(v.Amount),
		"Purpose: " + v.Purpose,
		"Approved By: " + v.ApprovedBy,
		"Status: " + v.Status.String(),
	}
	return modalStyle.Render("Generated Voucher\n\n"+strings.Join(lines, "\n")) + "\n"
}

func (m *Model) viewModal() string {
	md := m.modal
	var body string
	switch md.req.kind {
	case dialogConfirm:
		body = md.req.message + "\n\n" + helpStyle.Render("y yes • n no")
	case dialogReason:
		body = md.req.message + "\n\n" + md.input.View() + "\n\n" + helpStyle.Render("enter submit • esc cancel")
	case dialogAlert:
		body = md.req.message + "\n\n" + helpStyle.Render("enter dismiss")
	}
	return modalStyle.Render(body)
}
