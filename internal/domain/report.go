package domain

import "time"

// FlaggedMessage is a message classified as aggressive.
type FlaggedMessage struct {
	MessageID string    `json:"message_id"`
	Name      string    `json:"name"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// DownloadSummary describes the outcome of an image download pass.
type DownloadSummary struct {
	Dir     string `json:"dir"`
	New     int    `json:"new"`
	Skipped int    `json:"skipped"`
	Failed  int    `json:"failed"`
	Bytes   int64  `json:"bytes"`
}

// ScanReport is the persisted outcome of scanning one group.
type ScanReport struct {
	ID              string           `json:"id"`
	GroupID         string           `json:"group_id"`
	GroupName       string           `json:"group_name"`
	Classifier      ClassifierName   `json:"classifier"`
	StartedAt       time.Time        `json:"started_at"`
	EndedAt         time.Time        `json:"ended_at"`
	MessagesScanned int              `json:"messages_scanned"`
	Range           *ReportRange     `json:"range,omitempty"`
	Aggressive      []FlaggedMessage `json:"aggressive"`
	Images          *DownloadSummary `json:"images,omitempty"`
}

// ReportRange is the serialized form of the date range used for downloads.
type ReportRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ReportRef is a lightweight reference to a saved report.
type ReportRef struct {
	ID        string    `json:"id"`
	File      string    `json:"file"`
	GroupName string    `json:"group_name"`
	StartedAt time.Time `json:"started_at"`
}

// Flag converts a message into its report form.
func Flag(m Message) FlaggedMessage {
	return FlaggedMessage{
		MessageID: m.ID,
		Name:      m.Name,
		Text:      m.Text,
		CreatedAt: m.CreatedAt,
	}
}
