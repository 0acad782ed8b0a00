package models

import "time"

// Role identifies who produced a conversation turn.
type Role string

const (
	RoleOperator  Role = "operator"
	RoleAssistant Role = "assistant"
)

// ActionKind styles a suggested action for the presentation layer.
type ActionKind string

const (
	ActionPrimary   ActionKind = "primary"
	ActionSecondary ActionKind = "secondary"
	ActionDanger    ActionKind = "danger"
)

// SuggestedAction is a follow-up the assistant offers alongside a turn.
type SuggestedAction struct {
	ID    string     `json:"id"`
	Label string     `json:"label"`
	Kind  ActionKind `json:"kind"`
}

// Turn is one entry in the conversation transcript. Text may contain
// `**` emphasis markers; the engine treats them as opaque content.
// Turns are immutable once appended.
type Turn struct {
	TurnID           string            `json:"turn_id"`
	Role             Role              `json:"role"`
	Text             string            `json:"text"`
	Timestamp        time.Time         `json:"timestamp"`
	SuggestedActions []SuggestedAction `json:"suggested_actions,omitempty"`
}
