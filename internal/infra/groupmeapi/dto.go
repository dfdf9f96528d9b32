package groupmeapi

import (
	"time"

	"github.com/aalvaropc/gmscraper/internal/domain"
)

type envelope[T any] struct {
	Response T `json:"response"`
	Meta     struct {
		Code   int      `json:"code"`
		Errors []string `json:"errors"`
	} `json:"meta"`
}

type groupDTO struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Members []memberDTO `json:"members"`
}

type memberDTO struct {
	UserID   string `json:"user_id"`
	Nickname string `json:"nickname"`
}

type messagesDTO struct {
	Count    int          `json:"count"`
	Messages []messageDTO `json:"messages"`
}

type messageDTO struct {
	ID          string          `json:"id"`
	GroupID     string          `json:"group_id"`
	UserID      string          `json:"user_id"`
	Name        string          `json:"name"`
	Text        *string         `json:"text"`
	CreatedAt   int64           `json:"created_at"`
	Attachments []attachmentDTO `json:"attachments"`
}

type attachmentDTO struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

func mapGroup(g groupDTO) domain.Group {
	members := make([]domain.Member, 0, len(g.Members))
	for _, m := range g.Members {
		members = append(members, domain.Member{UserID: m.UserID, Nickname: m.Nickname})
	}
	return domain.Group{
		ID:          g.ID,
		Name:        g.Name,
		MemberCount: len(members),
		Members:     members,
	}
}

func mapMessage(m messageDTO) domain.Message {
	text := ""
	if m.Text != nil {
		text = *m.Text
	}

	var atts []domain.Attachment
	for _, a := range m.Attachments {
		atts = append(atts, domain.Attachment{Type: a.Type, URL: a.URL})
	}

	return domain.Message{
		ID:          m.ID,
		GroupID:     m.GroupID,
		UserID:      m.UserID,
		Name:        m.Name,
		Text:        text,
		CreatedAt:   time.Unix(m.CreatedAt, 0),
		Attachments: atts,
	}
}
