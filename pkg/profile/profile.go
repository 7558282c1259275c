// Package profile defines the types shared by social profile lookups and the email hunter.
package profile

import (
	"context"
	"errors"
)

// Common errors returned by lookup implementations.
var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrRateLimited     = errors.New("rate limited")
)

// Info is what a lookup returns for a single account.
type Info struct {
	Username    string
	Biography   string
	ExternalURL string // Website link shown on the profile, may be empty
	Followers   int
	Followees   int
}

// Lookup resolves a username to its public profile information.
// A nil Info with a nil error is treated as ErrProfileNotFound by callers.
// Implementations own their transport, session and rate-limit behavior.
type Lookup interface {
	Lookup(ctx context.Context, username string) (*Info, error)
}

// LookupFunc adapts a plain function to the Lookup interface.
type LookupFunc func(ctx context.Context, username string) (*Info, error)

// Lookup calls f(ctx, username).
func (f LookupFunc) Lookup(ctx context.Context, username string) (*Info, error) {
	return f(ctx, username)
}

// Record is the subset of a profile the hunter reports alongside found emails.
type Record struct {
	Biography   string `json:"biography"`
	ExternalURL string `json:"external_url"`
	Followers   int    `json:"followers"`
	Following   int    `json:"following"`
}

// NewRecord builds a Record from lookup output.
func NewRecord(info *Info) *Record {
	return &Record{
		Biography:   info.Biography,
		ExternalURL: info.ExternalURL,
		Followers:   info.Followers,
		Following:   info.Followees,
	}
}
