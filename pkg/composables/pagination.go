package composables

// PaginationParams carries the limit/offset pair list endpoints decode from
// the query string.
type PaginationParams struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}

// Validate reports out-of-range values keyed by query parameter name.
func (p *PaginationParams) Validate() map[string]string {
	fields := map[string]string{}
	if p.Limit < 1 {
		fields["limit"] = "must be a positive integer"
	}
	if p.Offset < 0 {
		fields["offset"] = "must be a non-negative integer"
	}
	return fields
}
