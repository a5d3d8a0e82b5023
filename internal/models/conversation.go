package models

import "time"

type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

type Message struct {
	ID        string    `json:"id"`
	Sender    Sender    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

type ConversationStatus string

const (
	StatusActive     ConversationStatus = "active"
	StatusClassified ConversationStatus = "classified"
)

type Lead struct {
	Name           string `json:"name"`
	Phone          string `json:"phone"`
	Source         string `json:"source"`
	InitialMessage string `json:"initialMessage,omitempty"`
}

type Conversation struct {
	ID             string                `json:"id"`
	OwnerSessionID string                `json:"ownerSessionId"`
	Lead           Lead                  `json:"lead"`
	Industry       IndustryConfig        `json:"industry"`
	Messages       []Message             `json:"messages"`
	Metadata       Metadata              `json:"metadata"`
	Status         ConversationStatus    `json:"status"`
	StartTime      time.Time             `json:"startTime"`
	LastUpdateTime time.Time             `json:"lastUpdateTime"`
	Classification *ClassificationResult `json:"classification,omitempty"`
}

func (c *Conversation) AppendMessage(id string, sender Sender, text string, at time.Time) Message {
	msg := Message{ID: id, Sender: sender, Text: text, Timestamp: at}
	c.Messages = append(c.Messages, msg)
	c.LastUpdateTime = at
	return msg
}

func (c *Conversation) MergeMetadata(update Metadata) {
	c.Metadata = c.Metadata.Merge(update)
}

// MarkClassified moves an active conversation to classified. It reports false
// and changes nothing when the conversation was already classified.
func (c *Conversation) MarkClassified(result ClassificationResult) bool {
	if c.Status != StatusActive {
		return false
	}
	r := result.Clone()
	c.Status = StatusClassified
	c.Classification = &r
	return true
}

func (c *Conversation) UserTexts() []string {
	out := make([]string, 0, len(c.Messages))
	for _, m := range c.Messages {
		if m.Sender == SenderUser {
			out = append(out, m.Text)
		}
	}
	return out
}

func (c *Conversation) UserMessageCount() int {
	n := 0
	for _, m := range c.Messages {
		if m.Sender == SenderUser {
			n++
		}
	}
	return n
}

func (c *Conversation) Age(now time.Time) time.Duration {
	return now.Sub(c.StartTime)
}

// Clone returns a deep copy safe to hand out of the store.
func (c *Conversation) Clone() *Conversation {
	out := *c
	out.Messages = append(make([]Message, 0, len(c.Messages)), c.Messages...)
	out.Metadata = c.Metadata.Clone()
	out.Industry.QualifyingAreas = append([]string(nil), c.Industry.QualifyingAreas...)
	out.Industry.RequiredFieldsForClassification = append([]string(nil), c.Industry.RequiredFieldsForClassification...)
	if c.Classification != nil {
		r := c.Classification.Clone()
		out.Classification = &r
	}
	return &out
}
