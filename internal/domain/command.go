package domain

import "time"

// CommandType classifies a console command.
type CommandType int

const (
	CommandUnknown CommandType = iota
	CommandAddTimer
	CommandAddAlarm
	CommandToggle
	CommandDelete
	CommandList
	CommandSavePreset
	CommandListPresets
	CommandStartPreset
	CommandVoice
	CommandListVoices
	CommandStyle
	CommandSay
	CommandExport
	CommandToggleView
	CommandHelp
	CommandQuit
)

// String returns a human-readable command type.
func (c CommandType) String() string {
	switch c {
	case CommandAddTimer:
		return "add_timer"
	case CommandAddAlarm:
		return "add_alarm"
	case CommandToggle:
		return "toggle"
	case CommandDelete:
		return "delete"
	case CommandList:
		return "list"
	case CommandSavePreset:
		return "save_preset"
	case CommandListPresets:
		return "list_presets"
	case CommandStartPreset:
		return "start_preset"
	case CommandVoice:
		return "voice"
	case CommandListVoices:
		return "list_voices"
	case CommandStyle:
		return "style"
	case CommandSay:
		return "say"
	case CommandExport:
		return "export"
	case CommandToggleView:
		return "toggle_view"
	case CommandHelp:
		return "help"
	case CommandQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// TargetKind says which list a Ref indexes into.
type TargetKind int

const (
	TargetNone TargetKind = iota
	TargetTimer
	TargetAlarm
	TargetPreset
)

// Ref points at a listed item by kind and 1-based position, e.g. "t2".
type Ref struct {
	Kind  TargetKind
	Index int
}

// Command is a parsed console line.
type Command struct {
	Type      CommandType
	Duration  time.Duration // timers and presets
	Time      string        // alarms, normalized HH:MM
	Label     string
	AlertText string
	Looping   bool
	Ref       Ref
	Payload   string // free text: say/export text, voice or style name, or the raw input when unknown
}
