package tui

import tea "github.com/charmbracelet/bubbletea"

// dialogKind selects the modal being shown.
type dialogKind int

const (
	dialogConfirm dialogKind = iota
	dialogReason
	dialogAlert
)

// dialogRequestMsg asks the program to show a modal. The action goroutine
// that sent it blocks on the reply channels until the user answers, which is
// what makes the list component's dialogs blocking.
type dialogRequestMsg struct {
	kind    dialogKind
	message string

	confirmReply chan bool
	reasonReply  chan reasonAnswer
	ackReply     chan struct{}
}

type reasonAnswer struct {
	reason string
	ok     bool
}

// ProgramDialog implements list.Dialog by routing each request through the
// running bubbletea program as a modal. Bind must be called with the program
// before any action can run.
type ProgramDialog struct {
	send func(tea.Msg)
}

// NewProgramDialog creates an unbound dialog.
func NewProgramDialog() *ProgramDialog {
	return &ProgramDialog{}
}

// Bind attaches the dialog to the running program.
func (d *ProgramDialog) Bind(p *tea.Program) {
	d.send = p.Send
}

// Confirm shows a yes/no modal and blocks until the user answers.
func (d *ProgramDialog) Confirm(message string) bool {
	reply := make(chan bool, 1)
	d.send(dialogRequestMsg{kind: dialogConfirm, message: message, confirmReply: reply})
	return <-reply
}

// PromptReason shows a free-text modal and blocks until submitted or cancelled.
func (d *ProgramDialog) PromptReason(message string) (string, bool) {
	reply := make(chan reasonAnswer, 1)
	d.send(dialogRequestMsg{kind: dialogReason, message: message, reasonReply: reply})
	answer := <-reply
	return answer.reason, answer.ok
}

// Alert shows a message modal and blocks until dismissed.
func (d *ProgramDialog) Alert(message string) {
	reply := make(chan struct{}, 1)
	d.send(dialogRequestMsg{kind: dialogAlert, message: message, ackReply: reply})
	<-reply
}
