package request_models

import "encoding/json"

type CreateVisitRequest struct {
	OrganizationID string `json:"organization_id" binding:"required,uuid4"`
	LocationID     string `json:"location_id" binding:"required,uuid4"`
	AgentID        string `json:"agent_id" binding:"required,uuid4"`
	// RFC3339 (e.g. "2024-01-01T00:00:00Z") or plain "2024-01-01"
	ScheduledDate string `json:"scheduled_date" binding:"required"`
	Notes         string `json:"notes"`
}

type UpdateVisitStatusRequest struct {
	Status string `json:"status" binding:"required"`
	// Client-minted token; replaying the same transition twice is a no-op.
	IdempotencyToken string `json:"idempotency_token"`

	CheckInLat  *float64 `json:"check_in_lat"`
	CheckInLng  *float64 `json:"check_in_lng"`
	CheckOutLat *float64 `json:"check_out_lat"`
	CheckOutLng *float64 `json:"check_out_lng"`

	Notes      *string         `json:"notes"`
	MediaURLs  []string        `json:"media_urls"`
	ReportData json.RawMessage `json:"report_data"`
}
