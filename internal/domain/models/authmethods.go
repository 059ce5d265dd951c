// internal/domain/models/authmethods.go
package models

// Supported sign-in methods. Stored in User.AuthMethod.
const (
	AuthMethodPassword = "password"
	AuthMethodGoogle   = "google"
)

// AuthMethods is the full set of allowed sign-in method identifiers.
var AuthMethods = []string{
	AuthMethodPassword,
	AuthMethodGoogle,
}
