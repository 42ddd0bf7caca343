// Package models defines the records bizdir stores and the request
// payloads that create or patch them.
//
// Create payloads carry the declared owner of the new record. Patch
// payloads list only client-mutable fields; owner and parent references
// are not among them, so they cannot change after creation.
package models
