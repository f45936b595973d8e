package models

import "time"

// RoomType is the normalized teaching-type compatibility of a room.
type RoomType string

const (
	RoomTypePureLec RoomType = "PURELEC"
	RoomTypeLecLab  RoomType = "LECLAB"
	RoomTypeBoth    RoomType = "BOTH"
)

// Room is a physical room. Each room expands into two parallel scheduling
// columns, "<name> A" and "<name> B".
type Room struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	RoomType  string    `db:"room_type" json:"room_type"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
