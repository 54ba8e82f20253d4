package enums

import "fmt"

// AuthMethod records how an identity most recently authenticated.
type AuthMethod string

const (
	AuthMethodPassword         AuthMethod = "password"
	AuthMethodOTP              AuthMethod = "otp"
	AuthMethodIdentityProvider AuthMethod = "identity-provider"
)

var validAuthMethods = []AuthMethod{
	AuthMethodPassword,
	AuthMethodOTP,
	AuthMethodIdentityProvider,
}

// String implements fmt.Stringer.
func (a AuthMethod) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AuthMethod.
func (a AuthMethod) IsValid() bool {
	for _, candidate := range validAuthMethods {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAuthMethod converts raw input into an AuthMethod.
func ParseAuthMethod(value string) (AuthMethod, error) {
	for _, candidate := range validAuthMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid auth method %q", value)
}
