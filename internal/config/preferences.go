package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// ResumePreference represents the user's preference for session resumption
type ResumePreference string

const (
	// ResumeAlwaysAsk prompts the user on every startup
	ResumeAlwaysAsk ResumePreference = "ask"
	// ResumeAlwaysContinue automatically resumes the last session
	ResumeAlwaysContinue ResumePreference = "continue"
	// ResumeAlwaysNew always creates a new session
	ResumeAlwaysNew ResumePreference = "new"
)

const (
	DefaultResumePreference = ResumeAlwaysAsk
	// MaxSessionAge bounds how old a session may be and still trigger a
	// resume prompt.
	MaxSessionAge = 24 * time.Hour
)

// LastSessionInfo contains information about the last active session
type LastSessionInfo struct {
	SessionID    string    `json:"sessionId"`
	Title        string    `json:"title"`
	LastActive   time.Time `json:"lastActive"`
	MessageCount int       `json:"messageCount"`
	LastMessage  string    `json:"lastMessage"` // Truncated preview
}

// Preferences stores user preferences for the TUI
type Preferences struct {
	ResumePreference ResumePreference `json:"resumePreference"`
	Theme            string           `json:"theme,omitempty"`
	LastSession      *LastSessionInfo `json:"lastSession,omitempty"`
}

func getConfigDir() (string, error) {
	if dir := os.Getenv("WEFT_CONFIG_DIR"); dir != "" {
		return dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "weft"), nil
}

func getPreferencesPath() (string, error) {
	configDir, err := getConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "preferences.json"), nil
}

// LoadPreferences loads preferences from disk, returning defaults when no
// file exists yet.
func LoadPreferences() (*Preferences, error) {
	prefPath, err := getPreferencesPath()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(prefPath); os.IsNotExist(err) {
		return &Preferences{ResumePreference: DefaultResumePreference}, nil
	}

	data, err := os.ReadFile(prefPath)
	if err != nil {
		return nil, err
	}

	var prefs Preferences
	if err := json.Unmarshal(data, &prefs); err != nil {
		return nil, err
	}
	if prefs.ResumePreference == "" {
		prefs.ResumePreference = DefaultResumePreference
	}

	return &prefs, nil
}

// SavePreferences saves preferences to disk
func SavePreferences(prefs *Preferences) error {
	configDir, err := getConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return err
	}

	prefPath, err := getPreferencesPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(prefs, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(prefPath, data, 0o644)
}

// SaveLastSession saves the last active session information
func SaveLastSession(sessionID, title string, messageCount int, lastMessage string) error {
	prefs, err := LoadPreferences()
	if err != nil {
		prefs = &Preferences{ResumePreference: DefaultResumePreference}
	}

	const maxMessageLen = 200
	if len(lastMessage) > maxMessageLen {
		lastMessage = lastMessage[:maxMessageLen] + "..."
	}

	prefs.LastSession = &LastSessionInfo{
		SessionID:    sessionID,
		Title:        title,
		LastActive:   time.Now(),
		MessageCount: messageCount,
		LastMessage:  lastMessage,
	}

	return SavePreferences(prefs)
}

// GetLastSession retrieves the last active session info, or nil when none
// is recorded or it is too old to resume.
func GetLastSession() (*LastSessionInfo, error) {
	prefs, err := LoadPreferences()
	if err != nil {
		return nil, err
	}
	if prefs.LastSession == nil {
		return nil, nil
	}
	if time.Since(prefs.LastSession.LastActive) > MaxSessionAge {
		return nil, nil
	}
	return prefs.LastSession, nil
}

// GetResumePreference returns the user's resume preference
func GetResumePreference() (ResumePreference, error) {
	prefs, err := LoadPreferences()
	if err != nil {
		return DefaultResumePreference, err
	}
	return prefs.ResumePreference, nil
}

// SetResumePreference sets the user's resume preference
func SetResumePreference(pref ResumePreference) error {
	prefs, err := LoadPreferences()
	if err != nil {
		prefs = &Preferences{}
	}
	prefs.ResumePreference = pref
	return SavePreferences(prefs)
}

// ClearLastSession clears the saved last session info
func ClearLastSession() error {
	prefs, err := LoadPreferences()
	if err != nil {
		return err
	}
	prefs.LastSession = nil
	return SavePreferences(prefs)
}
