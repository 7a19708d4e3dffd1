package model

// ReminderLevel orders reminders by how soon the household should act.
type ReminderLevel string

const (
	ReminderUrgent  ReminderLevel = "urgent"
	ReminderWarning ReminderLevel = "warning"
	ReminderInfo    ReminderLevel = "info"
)

// ReminderTypeGrowthPosition flags a fund position outside its target band.
const ReminderTypeGrowthPosition = "growth_position"

// Reminder is one actionable notice shown on the dashboard.
// Days counts down to a deadline and is nil for notices without one.
type Reminder struct {
	Type   string        `json:"type"`
	Level  ReminderLevel `json:"level"`
	Title  string        `json:"title"`
	Detail string        `json:"detail"`
	Days   *int          `json:"days"`
	Link   string        `json:"link"`
}
