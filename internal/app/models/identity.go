package models

// Identity is the read-only identity context supplied with each operation,
// extracted from a verified identity-provider token. The engine never
// mutates it and never caches it globally; it travels as an explicit
// parameter into every service call that acts on behalf of a user.
type Identity struct {
	UserID      string
	DisplayName string
	AvatarURL   *string
}
