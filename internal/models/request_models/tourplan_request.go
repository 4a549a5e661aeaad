package request_models

type ReconcilePlanRequest struct {
	OrganizationID string `json:"organization_id" binding:"required,uuid4"`
	AgentID        string `json:"agent_id" binding:"required,uuid4"`
	// Staged plan: "2006-01-02" date key -> station location ids.
	Plan map[string][]string `json:"plan" binding:"required"`
}
