package task

import "time"

// Task is the core domain entity: a single todo item owned by exactly one
// authenticated principal. The owner is assigned at creation and never
// changes; storage is partitioned by OwnerID so tasks are invisible across
// owner boundaries.
type Task struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	OwnerID     string     `gorm:"index:idx_tasks_owner_created,priority:1;size:128;not null" json:"-"`
	Title       string     `gorm:"size:500;not null" json:"title"`
	Description string     `gorm:"size:2000" json:"description"`
	IsCompleted bool       `gorm:"not null;default:false" json:"isCompleted"`
	DueAt       *time.Time `json:"dueAt,omitempty"`
	// Timestamps are assigned by the service layer in UTC, not by GORM,
	// so both storage backends see identical values.
	CreatedAt time.Time `gorm:"index:idx_tasks_owner_created,priority:2;autoCreateTime:false" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false" json:"updatedAt"`
}

// TableName returns the table name for the Task entity.
func (Task) TableName() string {
	return "tasks"
}
