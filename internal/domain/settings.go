package domain

// TicketPanel configures one ticket entry point posted into a channel.
type TicketPanel struct {
	ID         string     `json:"id"`
	Label      string     `json:"label"`
	Kind       TicketKind `json:"kind"`
	ChannelID  string     `json:"channel_id"`
	CategoryID string     `json:"category_id,omitempty"`
	MessageID  string     `json:"message_id,omitempty"`
}

// CannedResponse is a keyword-triggered reply. Matching is a
// case-insensitive substring check against incoming messages.
type CannedResponse struct {
	Keyword string `json:"keyword"`
	Reply   string `json:"reply"`
}

// GuildSettings holds per-server configuration.
type GuildSettings struct {
	GuildID          string              `json:"guild_id"`
	LogChannelID     string              `json:"log_channel_id,omitempty"`
	TicketCategoryID string              `json:"ticket_category_id,omitempty"`
	StaffRoleID      string              `json:"staff_role_id,omitempty"`
	Panels           []TicketPanel       `json:"panels,omitempty"`
	CommandRoles     map[string][]string `json:"command_roles,omitempty"`
	Responses        []CannedResponse    `json:"responses,omitempty"`
}

// RolesForCommand returns the role allow-list for a command name.
// An absent or empty list means the command is admin-only.
func (g GuildSettings) RolesForCommand(command string) []string {
	if g.CommandRoles == nil {
		return nil
	}
	return g.CommandRoles[command]
}
