package schedule

import "time"

// PrivacyLevel mirrors Discord's guild scheduled event privacy level.
type PrivacyLevel int

const (
	PrivacyPublic    PrivacyLevel = 1
	PrivacyGuildOnly PrivacyLevel = 2
)

// EntityType selects where a scheduled event takes place.
type EntityType int

const (
	EntityStageInstance EntityType = 1
	EntityVoice         EntityType = 2
	EntityExternal      EntityType = 3
)

const (
	MaxNameLen        = 100
	MaxDescriptionLen = 1000
	MaxLocationLen    = 100

	// DefaultExternalDuration is applied to external events submitted without an end time.
	DefaultExternalDuration = 2 * time.Hour
	DefaultLocation         = "TBD"
	DefaultDescription      = "Event created via Google Scripts integration"
)

type EntityMetadata struct {
	Location string `json:"location,omitempty"`
}

// EventData is the typed form of a validated eventData object.
// Zero PrivacyLevel / EntityType and nil pointers mean "not supplied".
type EventData struct {
	Name               string          `json:"name"`
	Description        string          `json:"description,omitempty"`
	ScheduledStartTime time.Time       `json:"scheduledStartTime"`
	ScheduledEndTime   *time.Time      `json:"scheduledEndTime,omitempty"`
	PrivacyLevel       PrivacyLevel    `json:"privacyLevel,omitempty"`
	EntityType         EntityType      `json:"entityType,omitempty"`
	EntityMetadata     *EntityMetadata `json:"entityMetadata,omitempty"`
}

// EventSpec is EventData with every optional field resolved.
type EventSpec struct {
	Name               string
	Description        string
	ScheduledStartTime time.Time
	ScheduledEndTime   *time.Time
	PrivacyLevel       PrivacyLevel
	EntityType         EntityType
	EntityMetadata     EntityMetadata
}
