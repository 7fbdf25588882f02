package models

type Recommendation struct {
	BaseUUIDModel
	Title string `gorm:"type:text;not null"                                     json:"title"`
	Genre string `gorm:"type:text;not null;index:idx_recommendations_genre"    json:"genre"`
	Link  string `gorm:"type:text"                                             json:"link"`
	Blurb string `gorm:"type:text"                                             json:"blurb"`

	// OwnerSubject references User.Subject. Set once at creation from the
	// caller's verified identity, never reassigned.
	OwnerSubject string `gorm:"column:user_id;type:text;not null;index" json:"userId"`

	// AuthorName is a denormalized copy of the owner's name at creation
	// time. Safe only because User.Name is immutable post-creation.
	AuthorName string `gorm:"type:text" json:"authorName"`

	IsStaffPick bool `gorm:"type:bool;default:false" json:"isStaffPick"`
}

// IsOwnedBy reports whether subject is this recommendation's creator.
func (r *Recommendation) IsOwnedBy(subject string) bool {
	return r.OwnerSubject == subject
}
