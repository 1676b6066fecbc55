package i

import (
	dmn "github.com/beka-birhanu/torchmaze/domain"
)

// Authenticator registers players and issues their access tokens.
type Authenticator interface {
	Register(username, password string) error
	SignIn(username, password string) (*dmn.User, string, error)
}
