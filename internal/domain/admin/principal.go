// Package admin holds the identity model for racha group administrators.
package admin

// Principal is a verified administrator identity attached to a request.
type Principal struct {
	AdminID string
	Email   string
	Tenants []string
}

// CanManage reports whether the administrator runs the given racha group.
// An empty tenant list means the account is not scoped and may manage all.
func (p Principal) CanManage(tenantID string) bool {
	if len(p.Tenants) == 0 {
		return true
	}
	for _, tenant := range p.Tenants {
		if tenant == tenantID {
			return true
		}
	}
	return false
}
