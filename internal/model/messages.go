package model

// DispatchMessage is the MQ payload for one queue entry handed to a delivery
// worker. Instants travel as RFC3339 strings on the wire and are normalized
// back to UTC time.Time at the consumer boundary.
type DispatchMessage struct {
	MessageID   string  `json:"message_id"`
	EntryID     string  `json:"entry_id"`
	ReminderID  string  `json:"reminder_id"`
	SettingID   string  `json:"setting_id"`
	OwnerID     string  `json:"owner_id"`
	Channel     Channel `json:"channel"`
	Title       string  `json:"title"`
	Notes       string  `json:"notes,omitempty"`
	DueAt       string  `json:"due_at"`
	ScheduledAt string  `json:"scheduled_at"`
	Timezone    string  `json:"timezone"`
}
