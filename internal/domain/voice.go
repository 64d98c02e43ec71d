package domain

import "strings"

// Voices are the prebuilt speech voices the console offers.
var Voices = []string{"Zephyr", "Kore", "Puck", "Charon", "Fenrir"}

// DefaultVoice is used until the user picks another one.
const DefaultVoice = "Zephyr"

// VoiceStyle is a spoken delivery hint prepended to alert scripts.
type VoiceStyle struct {
	ID     string
	Label  string
	Prefix string
}

// VoiceStyles lists the delivery styles, "normal" first.
var VoiceStyles = []VoiceStyle{
	{ID: "normal", Label: "Default", Prefix: ""},
	{ID: "alert", Label: "Critical alert", Prefix: "URGENT: "},
	{ID: "calm", Label: "Zen / calm", Prefix: "Calmly and softly: "},
	{ID: "robot", Label: "Robotic", Prefix: "In a synthetic, robotic voice: "},
}

// LookupVoice resolves a voice name case-insensitively.
func LookupVoice(name string) (string, error) {
	for _, v := range Voices {
		if strings.EqualFold(v, strings.TrimSpace(name)) {
			return v, nil
		}
	}
	return "", ErrUnknownVoice
}

// LookupStyle resolves a style ID case-insensitively.
func LookupStyle(id string) (VoiceStyle, error) {
	for _, s := range VoiceStyles {
		if strings.EqualFold(s.ID, strings.TrimSpace(id)) {
			return s, nil
		}
	}
	return VoiceStyle{}, ErrUnknownStyle
}
