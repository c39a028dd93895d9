package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTarget_RemotePath(t *testing.T) {
	target := Target{MappingRoot: "/proj", RemoteBase: "/srv/app"}

	tests := []struct {
		name      string
		localPath string
		expected  string
	}{
		{"file at root", "/proj/a.txt", "/srv/app/a.txt"},
		{"nested file", "/proj/src/lib/b.go", "/srv/app/src/lib/b.go"},
		{"root itself", "/proj", "/srv/app"},
		{"unclean path", "/proj/src/../c.txt", "/srv/app/c.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := target.RemotePath(tt.localPath)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestTarget_RemotePathOutsideRoot(t *testing.T) {
	target := Target{MappingRoot: "/proj", RemoteBase: "/srv/app"}

	for _, p := range []string{"/other/a.txt", "/", "/projects/a.txt"} {
		t.Run(p, func(t *testing.T) {
			_, err := target.RemotePath(p)
			assert.ErrorIs(t, err, ErrPathOutsideRoot)
		})
	}
}

func TestTarget_DisplayPath(t *testing.T) {
	target := Target{RemoteBase: "/srv/app"}

	assert.Equal(t, "a.txt", target.DisplayPath("/srv/app/a.txt"))
	assert.Equal(t, "src/b.go", target.DisplayPath("/srv/app/src/b.go"))
	assert.Equal(t, "c.txt", target.DisplayPath("/elsewhere/c.txt"))
}

func TestServer_Address(t *testing.T) {
	tests := []struct {
		name     string
		server   Server
		expected string
	}{
		{"default port", Server{Host: "example.com"}, "example.com:22"},
		{"explicit port", Server{Host: "example.com", Port: 2222}, "example.com:2222"},
		{"host with port", Server{Host: "10.0.0.1:2022"}, "10.0.0.1:2022"},
		{"ipv6", Server{Host: "::1", Port: 22}, "[::1]:22"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.server.Address())
		})
	}
}

func TestServer_Validate(t *testing.T) {
	valid := Server{
		AuthMethod: AuthKey,
		Host:       "example.com",
		KeyPath:    "/home/me/.ssh/id_ed25519",
		Name:       "s1",
		Remotes:    map[string]string{"r1": "/srv/app"},
		User:       "deploy",
	}
	require.NoError(t, valid.Validate())

	noHost := valid
	noHost.Host = ""
	assert.Error(t, noHost.Validate())

	passwordWithoutSecret := valid
	passwordWithoutSecret.AuthMethod = AuthPassword
	assert.Error(t, passwordWithoutSecret.Validate())

	relativeRemote := valid
	relativeRemote.Remotes = map[string]string{"r1": "srv/app"}
	assert.Error(t, relativeRemote.Validate())
}

func TestParseAuthMethod(t *testing.T) {
	method, err := ParseAuthMethod("")
	require.NoError(t, err)
	assert.Equal(t, AuthKey, method)

	method, err = ParseAuthMethod("Password")
	require.NoError(t, err)
	assert.Equal(t, AuthPassword, method)

	_, err = ParseAuthMethod("kerberos")
	assert.Error(t, err)
}
