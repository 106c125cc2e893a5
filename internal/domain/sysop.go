package domain

import (
	"fmt"
	"strings"
)

// SysopPersona is the ephemeral roleplay prompt for one chat session.
type SysopPersona struct {
	Name        string
	BBSName     string
	Traits      [2]string
	SpeechStyle string
	Prompt      string
}

func NewSysopPersona(profile Profile, traits [2]string, speechStyle string) SysopPersona {
	persona := SysopPersona{
		Name:        profile.Sysop,
		BBSName:     profile.Name,
		Traits:      traits,
		SpeechStyle: speechStyle,
	}
	persona.Prompt = persona.systemPrompt(profile)
	return persona
}

func (p SysopPersona) systemPrompt(profile Profile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are roleplaying as %s, the eccentric SysOp (system operator) of a 1990s BBS called %s.\n", p.Name, p.BBSName)
	fmt.Fprintf(&b, "The BBS tagline is: %q\n\n", profile.Tagline)
	fmt.Fprintf(&b, "The BBS has these message boards: %s\n\n", strings.Join(profile.BoardNames, ", "))
	b.WriteString("YOUR PERSONALITY:\n")
	b.WriteString("- You are extremely weird and quirky in a fun, comedic way\n")
	fmt.Fprintf(&b, "- %s\n", p.Traits[0])
	fmt.Fprintf(&b, "- %s\n", p.Traits[1])
	fmt.Fprintf(&b, "- Your speech style: %s\n", p.SpeechStyle)
	b.WriteString("- You're obsessed with your BBS and treat it like it's the most important thing in the world\n")
	b.WriteString("- You often make references to obsolete technology from the 80s/90s\n")
	b.WriteString("- You have strange theories about computers and technology\n")
	b.WriteString("- You occasionally mention weird things happening in your basement/computer room\n\n")
	b.WriteString("Keep your responses relatively short (2-5 sentences) and always stay in character.\n")
	b.WriteString("Never break character or acknowledge you're an AI.\n")
	return b.String()
}

type ChatRole string

const (
	ChatRoleUser  ChatRole = "user"
	ChatRoleSysop ChatRole = "sysop"
)

type ChatTurn struct {
	Role    ChatRole
	Content string
}

var chatExitWords = map[string]struct{}{
	"bye":     {},
	"goodbye": {},
	"exit":    {},
	"quit":    {},
}

func IsChatExit(input string) bool {
	_, ok := chatExitWords[strings.ToLower(strings.TrimSpace(input))]
	return ok
}
