package domain

import (
	"fmt"
	"strings"
)

const (
	MaxProfileNameLength = 20
	MinBoardNames        = 3
	MaxBoardNames        = 5
)

// Profile is the fabricated identity of the BBS for one session.
type Profile struct {
	Name        string   `json:"name" yaml:"name"`
	Tagline     string   `json:"tagline" yaml:"tagline"`
	Sysop       string   `json:"sysop" yaml:"sysop"`
	Established string   `json:"established" yaml:"established"`
	Nodes       string   `json:"nodes" yaml:"nodes"`
	BoardNames  []string `json:"board_names" yaml:"board_names"`
}

func (p Profile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if strings.TrimSpace(p.Tagline) == "" {
		return fmt.Errorf("tagline is required")
	}
	if strings.TrimSpace(p.Sysop) == "" {
		return fmt.Errorf("sysop is required")
	}
	if strings.TrimSpace(p.Established) == "" {
		return fmt.Errorf("established is required")
	}
	if strings.TrimSpace(p.Nodes) == "" {
		return fmt.Errorf("nodes is required")
	}
	if len(p.BoardNames) == 0 {
		return fmt.Errorf("board_names must not be empty")
	}

	return nil
}

// Normalize truncates the name, trims whitespace and drops empty or duplicate
// board names, keeping at most MaxBoardNames.
func (p *Profile) Normalize() {
	if p == nil {
		return
	}

	p.Name = TruncateName(strings.TrimSpace(p.Name))
	p.Tagline = strings.TrimSpace(p.Tagline)
	p.Sysop = strings.TrimSpace(p.Sysop)
	p.Established = strings.TrimSpace(p.Established)
	p.Nodes = strings.TrimSpace(p.Nodes)

	boards := make([]string, 0, len(p.BoardNames))
	seen := make(map[string]struct{}, len(p.BoardNames))
	for _, board := range p.BoardNames {
		trimmed := strings.TrimSpace(board)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		boards = append(boards, trimmed)
	}
	if len(boards) > MaxBoardNames {
		boards = boards[:MaxBoardNames]
	}

	p.BoardNames = boards
}

// TruncateName cuts name to MaxProfileNameLength runes.
func TruncateName(name string) string {
	runes := []rune(name)
	if len(runes) <= MaxProfileNameLength {
		return name
	}
	return string(runes[:MaxProfileNameLength])
}

const GeneralSoftwareCategory = "General Software"

// FileCategories lists the archive sections: a general one followed by one per board.
func (p Profile) FileCategories() []string {
	categories := make([]string, 0, len(p.BoardNames)+1)
	categories = append(categories, GeneralSoftwareCategory)
	return append(categories, p.BoardNames...)
}
