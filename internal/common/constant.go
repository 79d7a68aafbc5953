// Package common contains shared constants and sentinel errors used across
// tripshare components.
package common

// AccessTokenHeaderName is the gRPC/HTTP metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// PinLength is the exact number of digits of a user PIN.
const PinLength = 4

// DefaultPin is assigned to users created without an explicit PIN.
const DefaultPin = "0000"
