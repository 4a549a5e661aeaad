package response_models

type ReconcileResult struct {
	Added   int `json:"added"`
	Removed int `json:"removed"`
}
