// Package collabsdk is a typed Go client for the CollabFlow service.
//
// Construct a Client, authenticate with PasswordGrant, and call the
// surface methods. Every non-2xx response is returned as *APIError
// carrying one of the stable error codes.
package collabsdk
