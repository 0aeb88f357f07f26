package driver

import (
	"os"
	"os/user"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// maxServerNameLength caps generated names; some clouds reject longer
// ones.
const maxServerNameLength = 63

// loginPlaceholder stands in when the local login cannot be determined.
const loginPlaceholder = "nologin"

// Environ supplies the local identity woven into generated server
// names. Tests substitute fixed values.
type Environ interface {
	// Login returns the local login name, or "" when unknown.
	Login() string
	Hostname() string
}

type osEnviron struct{}

func (osEnviron) Login() string {
	u, err := user.Current()
	if err != nil {
		return ""
	}
	return u.Username
}

func (osEnviron) Hostname() string {
	name, err := os.Hostname()
	if err != nil {
		return ""
	}
	return name
}

// OSEnviron returns the Environ backed by the local operating system.
func OSEnviron() Environ {
	return osEnviron{}
}

var nameUnsafe = regexp.MustCompile(`[^A-Za-z0-9-]`)

// generateName synthesizes a default server name of the form
// <base>-<login>-<hostname>-<suffix>, capped at 63 characters. The
// random suffix survives truncation so repeated runs stay distinct.
func generateName(base string, env Environ) string {
	login := env.Login()
	if login == "" {
		login = loginPlaceholder
	}
	suffix := uuid.New().String()[:6]
	name := strings.Join([]string{
		nameUnsafe.ReplaceAllString(base, ""),
		nameUnsafe.ReplaceAllString(login, ""),
		nameUnsafe.ReplaceAllString(env.Hostname(), ""),
		suffix,
	}, "-")
	if len(name) > maxServerNameLength {
		name = name[:maxServerNameLength-len(suffix)-1] + "-" + suffix
	}
	return name
}
