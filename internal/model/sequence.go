package model

// IDSequence backs the prefixed system-id allocator. One row per entity
// kind holds the next unallocated sequence number; the row is locked
// FOR UPDATE while an id is minted so two writers can never observe the
// same counter value.
type IDSequence struct {
	Kind string `gorm:"type:varchar(50);primaryKey"`
	Next int    `gorm:"not null"`
}
