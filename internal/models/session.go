package models

import "strings"

// SessionInfo describes the MAST user behind the current session, as
// returned by the Mashup login service. Anonymous sessions carry no
// identity beyond the anon flag.
type SessionInfo struct {
	EPPN      string         `json:"eppn,omitempty"`
	EzID      string         `json:"ezid,omitempty"`
	Anonymous bool           `json:"anon"`
	Scopes    []string       `json:"scopes,omitempty"`
	Attrib    map[string]any `json:"attrib,omitempty"`
}

func (s SessionInfo) Username() string {
	if len(s.EzID) > 0 {
		return s.EzID
	}
	return s.EPPN
}

func (s SessionInfo) HasScope(scope string) bool {
	for _, candidate := range s.Scopes {
		if strings.EqualFold(candidate, scope) {
			return true
		}
	}
	return false
}
