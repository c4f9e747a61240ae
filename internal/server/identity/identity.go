// Package identity classifies user identifiers into the two variants the
// storage layer dispatches on: real accounts issued by the backend and
// synthetic demo accounts derived from an email address.
package identity

import "strings"

// DemoPrefix marks synthetic identifiers. The prefix check is the sole
// dispatch mechanism between the remote and session-scoped backends, so it
// must stay stable.
const DemoPrefix = "demo_user_"

// Kind tags an Identity variant.
type Kind int

const (
	// Authenticated identifies a user issued by the identity backend.
	Authenticated Kind = iota
	// Demo identifies a synthetic demo user (or an absent identifier).
	Demo
)

// Identity is a classified user identifier. Classification happens once per
// call boundary instead of scattering prefix checks through the code.
type Identity struct {
	Kind Kind
	ID   string
}

// IsDemo reports whether the identity must stay on the session-scoped path.
func (i Identity) IsDemo() bool {
	return i.Kind == Demo
}

// Classify tags a raw user identifier. Empty identifiers and identifiers
// carrying DemoPrefix are Demo; everything else is Authenticated. Demo
// identities never reach the remote store for any operation.
func Classify(userID string) Identity {
	if userID == "" || strings.HasPrefix(userID, DemoPrefix) {
		return Identity{Kind: Demo, ID: userID}
	}
	return Identity{Kind: Authenticated, ID: userID}
}

var demoReplacer = strings.NewReplacer("@", "_", ".", "_")

// DemoID derives the synthetic identifier for an email address:
// "demo_user_" plus the email with '@' and '.' replaced by underscores.
// The transform is not reversible; it only needs to be stable and
// distinguishable by prefix.
func DemoID(email string) string {
	return DemoPrefix + demoReplacer.Replace(email)
}
