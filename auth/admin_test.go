package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAuthorizer_SharedSecret(t *testing.T) {
	req := require.New(t)

	// Given only the admin secret
	authorizer := NewAuthorizer("s3cret", "")

	// Then both privileged commands accept it
	req.True(authorizer.SharedSecret())
	req.True(authorizer.AuthorizeKick("s3cret"))
	req.True(authorizer.AuthorizeClear("s3cret"))

	// Then a wrong or differently cased secret is refused
	req.False(authorizer.AuthorizeKick("S3CRET"))
	req.False(authorizer.AuthorizeClear("s3cret "))
	req.False(authorizer.AuthorizeKick(""))
}

func TestAuthorizer_SeparateSecrets(t *testing.T) {
	req := require.New(t)

	// Given a dedicated secret for clearing the log
	authorizer := NewAuthorizer("kick-me", "wipe-it")

	req.False(authorizer.SharedSecret())
	req.True(authorizer.AuthorizeKick("kick-me"))
	req.False(authorizer.AuthorizeKick("wipe-it"))
	req.True(authorizer.AuthorizeClear("wipe-it"))
	req.False(authorizer.AuthorizeClear("kick-me"))
}

func TestAuthorizer_EmptySecretNeverMatches(t *testing.T) {
	req := require.New(t)

	authorizer := NewAuthorizer("", "")

	req.False(authorizer.AuthorizeKick(""))
	req.False(authorizer.AuthorizeClear(""))
}
