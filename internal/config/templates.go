package config

import (
	"fmt"
	"os"
	"strings"
)

func Template(shape string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(shape)) {
	case "canonical":
		return canonicalTemplate, nil
	case "legacy":
		return legacyTemplate, nil
	default:
		return "", fmt.Errorf("unknown template shape: %s", shape)
	}
}

func WriteTemplate(path, shape string, overwrite bool) error {
	template, err := Template(shape)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}

const canonicalTemplate = `shape = "canonical"
workers = 4
idna = false

[[record]]
name = "ipv4"
type_id = 1
local_address = "0.0.0.0"
local_port = 0
remote_address = "127.0.0.1"
remote_port = 8080

[[record]]
name = "ipv6"
type_id = 1
local_address = "::1"
local_port = 50000
remote_address = "2001:db8:85a3::8a2e:370:7334"
remote_port = 443

[[record]]
name = "host"
local_port = 0
remote_host = "localhost"
remote_port = 8080
`

const legacyTemplate = `shape = "legacy"
workers = 2

[[record]]
name = "remote-address"
remote_address = "127.0.0.1"
remote_port = 8080

[[record]]
name = "remote-host"
remote_host = "localhost"
remote_port = 8080
`
