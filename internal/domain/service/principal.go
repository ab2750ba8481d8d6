package service

// Principal is the authenticated identity attached to a request. It is
// derived from the bearer token subject and, when the document store is
// reachable, enriched with the stored activity/admin flags.
type Principal struct {
	Username string `json:"username"`
	IsActive bool   `json:"is_active"`
	IsAdmin  bool   `json:"is_admin"`
}
