package models

import "gorm.io/datatypes"

// ActivityAction identifies a mutation recorded in the activity log.
type ActivityAction string

const (
	ActivityRecommendationAdded   ActivityAction = "recommendation_added"
	ActivityRecommendationDeleted ActivityAction = "recommendation_deleted"
	ActivityStaffPickToggled      ActivityAction = "staff_pick_toggled"
)

// ActivityLog is an append-only audit trail of recommendation mutations.
// Entries are written best-effort and pruned after a retention window.
type ActivityLog struct {
	BaseModel
	Action ActivityAction `gorm:"type:text;not null;index" json:"action"`

	// ActorSubject is the identity subject of the user who performed the
	// action; RecordID is the affected recommendation's id.
	ActorSubject string         `gorm:"column:actor_id;type:text;not null" json:"actorId"`
	RecordID     string         `gorm:"column:record_id;type:text"         json:"recordId"`
	Detail       datatypes.JSON `gorm:"type:jsonb"                         json:"detail,omitempty"`
}
