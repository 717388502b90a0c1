package dto

import "time"

// AckResponse acknowledges a ticket mutation.
type AckResponse struct {
	OK bool   `json:"ok"`
	ID string `json:"id,omitempty"`
}

// CreateBoardEntryRequest payload.
type CreateBoardEntryRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// BoardEntryResponse response.
type BoardEntryResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}
