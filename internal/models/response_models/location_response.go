package response_models

type LocationResponse struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Latitude      float64       `json:"latitude"`
	Longitude     float64       `json:"longitude"`
	Address       string        `json:"address,omitempty"`
	District      string        `json:"district,omitempty"`
	Block         string        `json:"block,omitempty"`
	StationType   string        `json:"station_type,omitempty"`
	HasProblem    bool          `json:"has_problem"`
	LastVisitedAt string        `json:"last_visited_at,omitempty"`
	AssignedAgent *AgentSummary `json:"assigned_agent,omitempty"`
}
