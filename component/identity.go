package component

import "github.com/google/uuid"

// IdentityComponent carries the persistent GUID and tag of an entity
type IdentityComponent struct {
	GUID uuid.UUID
	Tag  string
}

// NewIdentity assigns a fresh random GUID
func NewIdentity(tag string) IdentityComponent {
	return IdentityComponent{GUID: uuid.New(), Tag: tag}
}
