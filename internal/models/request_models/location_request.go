package request_models

type CreateLocationRequest struct {
	Name            string  `json:"name" binding:"required"`
	Latitude        float64 `json:"latitude" binding:"required"`
	Longitude       float64 `json:"longitude" binding:"required"`
	Address         string  `json:"address"`
	District        string  `json:"district"`
	Block           string  `json:"block"`
	StationType     string  `json:"station_type"`
	OrganizationID  string  `json:"organization_id" binding:"required,uuid4"`
	AssignedAgentID string  `json:"assigned_agent_id"`
}
