package driver

import (
	"fmt"
	"strings"
)

const ohaiHintsDir = "/etc/chef/ohai/hints"

// keySetupCommands is the remote sequence that installs the given
// public key for user and locks the account password, leaving key-based
// login as the only way in.
func keySetupCommands(user, publicKey string) []string {
	return []string{
		"mkdir .ssh",
		fmt.Sprintf(`echo "%s" >> ~/.ssh/authorized_keys`, strings.TrimSpace(publicKey)),
		fmt.Sprintf("passwd -l %s", user),
	}
}

// hintCommands is the remote sequence that drops an empty marker file
// naming the platform, so in-guest discovery tooling can identify the
// cloud without probing the metadata service.
func hintCommands() []string {
	return []string{
		fmt.Sprintf("sudo mkdir -p %s", ohaiHintsDir),
		fmt.Sprintf("sudo touch %s/openstack.json", ohaiHintsDir),
	}
}
