package tui

import (
	"github.com/DaylightE/Log-Highlighter/internal/profile"
	"github.com/DaylightE/Log-Highlighter/internal/source"
	"github.com/DaylightE/Log-Highlighter/internal/store"
)

// Async message types for Bubble Tea commands.

type loadedMsg struct {
	doc   source.Document
	prefs store.Preferences
	err   error
}

type gendersMsg struct {
	genders map[string]profile.Gender
}

type actionResultMsg struct {
	action string // "save preferences", "open profile"
	err    error
}

type statusMsg string
