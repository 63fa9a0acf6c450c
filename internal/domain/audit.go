package domain

import "time"

// AuditAction captures what happened in an audit entry. The values match
// the action names persisted by earlier deployments of the bot.
type AuditAction string

const (
	ActionCustomerCreated AuditAction = "KUNDENAKTE_ERSTELLT"
	ActionInvoiceIssued   AuditAction = "RECHNUNG_ERSTELLT"
	ActionInvoicePaid     AuditAction = "RECHNUNG_BEZAHLT"
	ActionReminder1       AuditAction = "MAHNUNG_1"
	ActionReminder2       AuditAction = "MAHNUNG_2"
	ActionReminder3       AuditAction = "MAHNUNG_3"
	ActionTicketOpened    AuditAction = "TICKET_ERSTELLT"
	ActionTicketClaimed   AuditAction = "TICKET_UEBERNOMMEN"
	ActionTicketClosed    AuditAction = "TICKET_GESCHLOSSEN"
	ActionPanelSetup      AuditAction = "TICKET_SYSTEM_SETUP"
	ActionSettingsUpdated AuditAction = "EINSTELLUNGEN_GEAENDERT"
	ActionResponseAdded   AuditAction = "ANTWORT_HINZUGEFUEGT"
	ActionResponseRemoved AuditAction = "ANTWORT_ENTFERNT"
)

// SystemActor is the sentinel actor id for automated actions such as
// overdue reminders.
const SystemActor = "0"

// AuditEntry is an immutable record of a state-changing action.
type AuditEntry struct {
	Timestamp time.Time      `json:"timestamp"`
	Action    AuditAction    `json:"action"`
	ActorID   string         `json:"actor_id"`
	Details   map[string]any `json:"details"`
}

// ReminderAction maps a reminder stage (1..3) to its audit action.
func ReminderAction(stage int) AuditAction {
	switch stage {
	case 1:
		return ActionReminder1
	case 2:
		return ActionReminder2
	default:
		return ActionReminder3
	}
}
