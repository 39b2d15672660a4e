package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	defaultAPIURL   = "http://localhost:8080"
	sessionFileName = ".forum_session.json"
)

// ErrNoSession is returned when no login has been stored.
var ErrNoSession = errors.New("please login first")

// APIURL returns the base URL of the forum API.
// It can be overridden with the FORUM_API_URL environment variable.
func APIURL() string {
	if v := os.Getenv("FORUM_API_URL"); v != "" {
		return v
	}
	return defaultAPIURL
}

// SessionUser is the identity returned by login.
type SessionUser struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}

// Session is what a successful login leaves on disk.
type Session struct {
	Token string      `json:"token"`
	User  SessionUser `json:"user"`
}

// SessionPath is ~/.forum_session.json.
func SessionPath() (string, error) {
	dir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	return filepath.Join(dir, sessionFileName), nil
}

// SaveSession writes the session readable only by the current user.
func SaveSession(s Session) error {
	path, err := SessionPath()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// LoadSession returns the stored session or ErrNoSession.
func LoadSession() (*Session, error) {
	path, err := SessionPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoSession
		}
		return nil, err
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil || s.Token == "" {
		return nil, ErrNoSession
	}
	return &s, nil
}

// ClearSession removes the stored session. It reports whether one existed.
func ClearSession() (bool, error) {
	path, err := SessionPath()
	if err != nil {
		return false, err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
