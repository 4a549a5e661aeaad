package response_models

import "encoding/json"

type AgentSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type LocationSummary struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	District    string  `json:"district"`
	Block       string  `json:"block"`
	StationType string  `json:"station_type"`
}

type VisitResponse struct {
	ID             string `json:"id"`
	OrganizationID string `json:"organization_id"`
	LocationID     string `json:"location_id"`
	AgentID        string `json:"agent_id"`
	Status         string `json:"status"`
	ScheduledDate  string `json:"scheduled_date"`

	CheckInTime string   `json:"check_in_time,omitempty"`
	CheckInLat  *float64 `json:"check_in_lat,omitempty"`
	CheckInLng  *float64 `json:"check_in_lng,omitempty"`

	CheckOutTime   string   `json:"check_out_time,omitempty"`
	CheckOutLat    *float64 `json:"check_out_lat,omitempty"`
	CheckOutLng    *float64 `json:"check_out_lng,omitempty"`
	TravelDistance *float64 `json:"travel_distance,omitempty"`

	Notes      string          `json:"notes,omitempty"`
	MediaURLs  json.RawMessage `json:"media_urls,omitempty"`
	ReportData json.RawMessage `json:"report_data,omitempty"`

	Version int `json:"version"`

	Location *LocationSummary `json:"location,omitempty"`
	Agent    *AgentSummary    `json:"agent,omitempty"`
}
