package config

import (
	"os"
	"path/filepath"
)

const defaultAPIURL = "http://localhost:8080"

const sessionFileName = ".sip_session"

// APIURL returns the base URL for the Sip API.
// It can be overridden with the SIP_API_URL environment variable.
func APIURL() string {
	if v := os.Getenv("SIP_API_URL"); v != "" {
		return v
	}
	return defaultAPIURL
}

// SaveSession stores the session token locally for subsequent commands.
func SaveSession(token string) error {
	return os.WriteFile(sessionPath(), []byte(token), 0600)
}

// LoadSession reads the locally stored session token.
func LoadSession() (string, error) {
	data, err := os.ReadFile(sessionPath())
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ClearSession removes the stored session token. Missing file is not an error.
func ClearSession() error {
	err := os.Remove(sessionPath())
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func sessionPath() string {
	dir, _ := os.UserHomeDir()
	return filepath.Join(dir, sessionFileName)
}
