package errors

func (d Definition) Error() string {
	return d.Message
}

// Definition carries a stable business error code plus a default message.
type Definition struct {
	Code    string
	Message string
}

// Reminder errors.
var (
	ReminderNotFound     = Definition{Code: "REMINDER_NOT_FOUND", Message: "Reminder not found"}
	ReminderInvalid      = Definition{Code: "REMINDER_INVALID", Message: "Reminder payload invalid"}
	RuleIntervalInvalid  = Definition{Code: "RULE_INTERVAL_INVALID", Message: "Recurrence interval must be at least 1"}
	RuleWeekdaysInvalid  = Definition{Code: "RULE_WEEKDAYS_INVALID", Message: "Recurrence weekdays must be within 0..6"}
	RuleFrequencyInvalid = Definition{Code: "RULE_FREQUENCY_INVALID", Message: "Recurrence frequency invalid"}
	OffsetInvalid        = Definition{Code: "OFFSET_INVALID", Message: "Notification offset must not be negative"}
	ChannelSpecInvalid   = Definition{Code: "CHANNEL_SPEC_INVALID", Message: "Notification channel spec invalid"}
	TimezoneInvalid      = Definition{Code: "TIMEZONE_INVALID", Message: "Timezone identifier invalid"}
)

// Routine errors.
var (
	RoutineNotFound     = Definition{Code: "ROUTINE_NOT_FOUND", Message: "Routine not found"}
	RoutineInactive     = Definition{Code: "ROUTINE_INACTIVE", Message: "Routine is inactive"}
	RoutineStepInvalid  = Definition{Code: "ROUTINE_STEP_INVALID", Message: "Routine step invalid"}
	ScheduleDaysInvalid = Definition{Code: "SCHEDULE_DAYS_INVALID", Message: "Schedule days must be within 0..6"}
)

// Queue errors.
var (
	RebuildInProgress = Definition{Code: "REBUILD_IN_PROGRESS", Message: "Queue rebuild already running for owner"}
	OwnerMissing      = Definition{Code: "OWNER_MISSING", Message: "Owner id missing"}
)

// Contact errors.
var (
	ContactAddressInvalid = Definition{Code: "CONTACT_ADDRESS_INVALID", Message: "Contact address must not be empty"}
)

// Lookup provides code based retrieval.
var Lookup = map[string]Definition{
	ReminderNotFound.Code:      ReminderNotFound,
	ReminderInvalid.Code:       ReminderInvalid,
	RuleIntervalInvalid.Code:   RuleIntervalInvalid,
	RuleWeekdaysInvalid.Code:   RuleWeekdaysInvalid,
	RuleFrequencyInvalid.Code:  RuleFrequencyInvalid,
	OffsetInvalid.Code:         OffsetInvalid,
	ChannelSpecInvalid.Code:    ChannelSpecInvalid,
	TimezoneInvalid.Code:       TimezoneInvalid,
	RoutineNotFound.Code:       RoutineNotFound,
	RoutineInactive.Code:       RoutineInactive,
	RoutineStepInvalid.Code:    RoutineStepInvalid,
	ScheduleDaysInvalid.Code:   ScheduleDaysInvalid,
	RebuildInProgress.Code:     RebuildInProgress,
	OwnerMissing.Code:          OwnerMissing,
	ContactAddressInvalid.Code: ContactAddressInvalid,
}

// Get returns the Definition for a code, or a generic one if unknown.
func Get(code string) Definition {
	if def, ok := Lookup[code]; ok {
		return def
	}
	return Definition{Code: code, Message: "Unexpected error"}
}

// SkipMessageError tells a consumer to ack a message without processing it,
// e.g. when the idempotency mark shows it was already handled.
type SkipMessageError struct {
	Reason string
}

func (e *SkipMessageError) Error() string {
	return "skip message: " + e.Reason
}
