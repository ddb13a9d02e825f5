package core

// UserContext is the opaque per-user profile handed through to tools
// unchanged. The core never inspects Profile; it exists so tools can
// personalize lookups (dietary preferences, home city, booked tickets)
// without the loop knowing about any of it.
type UserContext struct {
	UserID  string            `json:"user_id"`
	Profile map[string]string `json:"profile,omitempty"`
}

// UserContextProvider resolves the profile for a user identifier. The
// default implementation returns a bare context carrying only the id.
type UserContextProvider interface {
	UserContext(userID string) (UserContext, error)
}

// StaticUserContextProvider serves fixed profiles from memory. Useful for
// tests and for deployments whose user store is injected at startup.
type StaticUserContextProvider map[string]map[string]string

// UserContext implements UserContextProvider.
func (p StaticUserContextProvider) UserContext(userID string) (UserContext, error) {
	profile, ok := p[userID]
	if !ok {
		return UserContext{UserID: userID}, nil
	}
	cp := make(map[string]string, len(profile))
	for k, v := range profile {
		cp[k] = v
	}
	return UserContext{UserID: userID, Profile: cp}, nil
}
