package model

import "time"

// EventRecord is the pretty-printed content of scheduled_events/event_<id>.json.
type EventRecord struct {
	ID                 string               `json:"id"`
	Name               string               `json:"name"`
	Description        string               `json:"description"`
	ScheduledStartTime time.Time            `json:"scheduled_start_time"`
	ScheduledEndTime   *time.Time           `json:"scheduled_end_time"`
	Status             string               `json:"status"`
	EntityType         string               `json:"entity_type"`
	ChannelID          string               `json:"channel_id,omitempty"`
	CreatorID          string               `json:"creator_id"`
	UserCount          int                  `json:"user_count"`
	PrivacyLevel       string               `json:"privacy_level"`
	Image              string               `json:"image,omitempty"`
	RecurrenceRule     *RecurrenceRecord    `json:"recurrence_rule"`
	EntityMetadata     *EventLocationRecord `json:"entity_metadata"`
}

// RecurrenceRecord describes a repeating event schedule. The platform
// library does not expose recurrence yet, so this stays null in output;
// the schema reserves it so readers do not break when it lands.
type RecurrenceRecord struct {
	Frequency  string     `json:"frequency"`
	Interval   int        `json:"interval"`
	ByWeekday  []string   `json:"by_weekday"`
	ByMonth    []int      `json:"by_month"`
	ByMonthDay []int      `json:"by_month_day"`
	End        *time.Time `json:"end"`
}

// EventLocationRecord carries the location of externally hosted events.
type EventLocationRecord struct {
	Location string `json:"location"`
}
