package premiumroles

import "sort"

// RoleSet is a set of role IDs
type RoleSet map[string]struct{}

// NewRoleSet builds a set from $ids, dropping duplicates
func NewRoleSet(ids ...string) RoleSet {
	set := make(RoleSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Add reports false if $id was already in the set
func (s RoleSet) Add(id string) bool {
	if s.Contains(id) {
		return false
	}
	s[id] = struct{}{}
	return true
}

// Remove reports false if $id was not in the set
func (s RoleSet) Remove(id string) bool {
	if !s.Contains(id) {
		return false
	}
	delete(s, id)
	return true
}

func (s RoleSet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

func (s RoleSet) Len() int {
	return len(s)
}

// Slice returns the IDs sorted
func (s RoleSet) Slice() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Intersect returns the sorted IDs of $roles that are in the set
func (s RoleSet) Intersect(roles []string) []string {
	var found []string
	seen := make(map[string]struct{}, len(roles))
	for _, id := range roles {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if s.Contains(id) {
			found = append(found, id)
		}
	}
	sort.Strings(found)
	return found
}

// Evaluate decides which roles to take away from a member holding $memberRoles.
// Members holding any required role keep everything, everyone else loses their premium roles.
// Nothing is revoked while no required role is configured.
func Evaluate(memberRoles []string, required, premium RoleSet) []string {
	if required.Len() == 0 {
		return nil
	}
	if len(required.Intersect(memberRoles)) > 0 {
		return nil
	}
	return premium.Intersect(memberRoles)
}
