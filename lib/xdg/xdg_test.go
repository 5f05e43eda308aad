package xdg

import (
	"errors"
	"os/user"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHomeDir(t *testing.T) {
	t.Run("from env", func(t *testing.T) {
		t.Setenv("HOME", "/home/user")
		assert.Equal(t, "/home/user", HomeDir())
	})
	t.Run("from passwd", func(t *testing.T) {
		t.Setenv("HOME", "")
		orig := currentUser
		defer func() { currentUser = orig }()
		currentUser = func() (*user.User, error) {
			return &user.User{HomeDir: "/home/pw"}, nil
		}
		assert.Equal(t, "/home/pw", HomeDir())
	})
	t.Run("failure", func(t *testing.T) {
		t.Setenv("HOME", "")
		orig := currentUser
		defer func() { currentUser = orig }()
		currentUser = func() (*user.User, error) {
			return nil, errors.New("no such user")
		}
		assert.Equal(t, "", HomeDir())
	})
}

func TestExpandHome(t *testing.T) {
	t.Setenv("HOME", "/home/user")
	vectors := []struct {
		args     []string
		expected string
	}{
		{args: []string{"foo"}, expected: "foo"},
		{args: []string{"foo", "bar"}, expected: "foo/bar"},
		{args: []string{"/foobar/baz"}, expected: "/foobar/baz"},
		{args: []string{"~/foobar/baz"}, expected: "/home/user/foobar/baz"},
		{args: []string{"~", "/Mail"}, expected: "/home/user/Mail"},
		{args: []string{"~user/x"}, expected: "~user/x"},
		{args: []string{}, expected: ""},
		{args: []string{"~"}, expected: "/home/user"},
	}
	for _, vec := range vectors {
		t.Run(vec.expected, func(t *testing.T) {
			assert.Equal(t, vec.expected, ExpandHome(vec.args...))
		})
	}
}

func TestConfigPath(t *testing.T) {
	t.Setenv("HOME", "/home/user")
	t.Setenv("XDG_CONFIG_HOME", "")
	assert.Equal(t, "/home/user/.config/hrreject/hrreject.conf",
		ConfigPath("hrreject", "hrreject.conf"))
	assert.Equal(t, "/etc/hrreject.conf", ConfigPath("/etc/hrreject.conf"))

	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	assert.Equal(t, "/cfg/hrreject", ConfigPath("hrreject"))
	t.Setenv("XDG_CONFIG_HOME", "relative")
	assert.Equal(t, "/home/user/.config/hrreject", ConfigPath("hrreject"))
}

func TestDataPath(t *testing.T) {
	t.Setenv("HOME", "/home/user")
	t.Setenv("XDG_DATA_HOME", "")
	assert.Equal(t, "/home/user/.local/share/hrreject/templates",
		DataPath("hrreject", "templates"))
	t.Setenv("XDG_DATA_HOME", "/data")
	assert.Equal(t, "/data/hrreject", DataPath("hrreject"))
}
