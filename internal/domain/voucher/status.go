package voucher

// Status represents a voucher's position in the approval lifecycle
type Status string

const (
	StatusDraft    Status = "draft"
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

var validStatuses = map[Status]bool{
	StatusDraft:    true,
	StatusPending:  true,
	StatusApproved: true,
	StatusRejected: true,
}

// String returns the string representation of the status
func (s Status) String() string {
	return string(s)
}

// IsValid returns true if the status is a known lifecycle status
func (s Status) IsValid() bool {
	return validStatuses[s]
}

// Action represents an operation a user can take on a voucher
type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionDelete  Action = "delete"
	ActionPrint   Action = "print"
)

// String returns the string representation of the action
func (a Action) String() string {
	return string(a)
}

// StatusDeleted is a pseudo-state: the record is gone after a delete, but the
// transition table needs a target so delete gating reads from the same map as
// approve and reject.
const StatusDeleted Status = "deleted"

// Transitions is the allowed-transition table for the voucher lifecycle.
// The list gating in the UI and the server-side validation both read from it,
// so the two can never disagree on what a status permits.
var Transitions = map[Status]map[Action]Status{
	StatusDraft: {
		ActionApprove: StatusApproved,
		ActionReject:  StatusRejected,
		ActionDelete:  StatusDeleted,
	},
	StatusRejected: {
		ActionDelete: StatusDeleted,
	},
}

// NextStatus returns the status a voucher would move to if the action were
// applied, and whether the transition is allowed from the current status.
func NextStatus(from Status, action Action) (Status, bool) {
	if action == ActionPrint {
		return from, true
	}
	to, ok := Transitions[from][action]
	return to, ok
}

// Can returns true if the action is permitted for a voucher in the given status.
func Can(from Status, action Action) bool {
	_, ok := NextStatus(from, action)
	return ok
}

// AllowedActions returns the actions available for the given status, in a
// stable display order. Print is always available; the rest come from the
// transition table. Unknown statuses get print only.
func AllowedActions(s Status) []Action {
	actions := []Action{ActionPrint}
	for _, a := range []Action{ActionApprove, ActionReject, ActionDelete} {
		if Can(s, a) {
			actions = append(actions, a)
		}
	}
	return actions
}
