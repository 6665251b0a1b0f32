package domain

import "time"

type Product struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Cost      int64     `json:"cost"`
	Rating    int       `json:"rating"`
	Image     string    `json:"image,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
