package models

import (
	"time"

	"github.com/google/uuid"
)

// BaseUUIDModel carries the shared identity and timestamp columns. Deletes
// are hard deletes, so there is deliberately no gorm.DeletedAt here.
type BaseUUIDModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:uuidv7()" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime"                        json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"                        json:"updatedAt"`
}

type BaseModel struct {
	ID        int       `gorm:"type:int;primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime"                    json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"                    json:"updatedAt"`
}
