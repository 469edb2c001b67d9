package utils

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Optional. URL of the xfc_control server.
server_url = "https://xfc.ceda.ac.uk/xfc_control"

# Optional. Username sent to the server, default is the invoking OS user ($USER).
# username = "myusername"

# Optional. Verify the server's TLS certificate, default true. Only switch this
# off for servers on a trusted internal network.
verify_tls = true

# Optional request timeout in seconds, default 30.
timeout_seconds = 30

# Optional log level, default "warn".
loglevel = "warn"
`

// GenerateConfig writes a commented default configuration file to
// configPath, backing up any existing file first
func GenerateConfig(configPath string) error {
	// Check if config file already exists and back it up
	if _, err := os.Stat(configPath); err == nil {
		backupPath := configPath + ".bak"
		fmt.Printf("Backing up config %s\n", configPath)
		if err := os.Rename(configPath, backupPath); err != nil {
			return fmt.Errorf("failed to backup config: %w", err)
		}
	}

	// Create parent directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	fmt.Printf("Writing %s\n", configPath)
	if err := os.WriteFile(configPath, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
