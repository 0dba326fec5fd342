package models

import "fmt"

// ShortcutFlag names one of the quick-entry shortcut toggles
type ShortcutFlag string

const (
	ShortcutPriority  ShortcutFlag = "priority"
	ShortcutMention   ShortcutFlag = "mention"
	ShortcutDate      ShortcutFlag = "date"
	ShortcutAutoClean ShortcutFlag = "autoclean"
)

// ShortcutSettings controls which quick-entry shortcuts are recognised
type ShortcutSettings struct {
	EnablePriority bool `json:"enablePriorityShortcuts"`
	EnableMention  bool `json:"enableMentionShortcuts"`
	EnableDate     bool `json:"enableDateShortcuts"`
	AutoClean      bool `json:"autoCleanShortcuts"`
}

// Branding holds the studio's logo preferences
type Branding struct {
	LogoURL      string `json:"logoUrl,omitempty"`
	LogoSize     int    `json:"logoSize"`
	LogoInverted bool   `json:"logoInverted"`
}

// Settings is the persisted user preference document
type Settings struct {
	Shortcuts ShortcutSettings `json:"shortcuts"`
	Branding  Branding         `json:"branding"`
}

// DefaultSettings enables every shortcut
func DefaultSettings() Settings {
	return Settings{
		Shortcuts: ShortcutSettings{
			EnablePriority: true,
			EnableMention:  true,
			EnableDate:     true,
			AutoClean:      true,
		},
		Branding: Branding{LogoSize: 40},
	}
}

// SetShortcut returns a copy of s with a single shortcut flag changed
func (s Settings) SetShortcut(flag ShortcutFlag, enabled bool) (Settings, error) {
	switch flag {
	case ShortcutPriority:
		s.Shortcuts.EnablePriority = enabled
	case ShortcutMention:
		s.Shortcuts.EnableMention = enabled
	case ShortcutDate:
		s.Shortcuts.EnableDate = enabled
	case ShortcutAutoClean:
		s.Shortcuts.AutoClean = enabled
	default:
		return s, fmt.Errorf("unknown shortcut flag %q", flag)
	}
	return s, nil
}

// Shortcut reports the current value of a flag
func (s Settings) Shortcut(flag ShortcutFlag) bool {
	switch flag {
	case ShortcutPriority:
		return s.Shortcuts.EnablePriority
	case ShortcutMention:
		return s.Shortcuts.EnableMention
	case ShortcutDate:
		return s.Shortcuts.EnableDate
	case ShortcutAutoClean:
		return s.Shortcuts.AutoClean
	}
	return false
}

// SetBranding returns a copy of s with new branding
func (s Settings) SetBranding(b Branding) Settings {
	s.Branding = b
	return s
}
