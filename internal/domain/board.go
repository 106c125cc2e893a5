package domain

import "strings"

type BoardMessage struct {
	Author  string `json:"author"`
	Date    string `json:"date"`
	Subject string `json:"subject"`
	Content string `json:"content"`
}

func (m BoardMessage) Valid() bool {
	return strings.TrimSpace(m.Subject) != "" && strings.TrimSpace(m.Content) != ""
}
