package model

import "time"

type Simulator struct {
	ID          string    `json:"simulator_id"`
	Name        string    `json:"name"`
	Area        string    `json:"area"` // area_1 .. area_4
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
