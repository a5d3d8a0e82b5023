// Package dialogue picks the next bot utterance from the conversation stage and
// the metadata gathered so far.
package dialogue

import (
	"fmt"

	"lead-qualifier/internal/models"
)

// Context is everything a rule may look at.
type Context struct {
	Stage    Stage
	LeadName string
	Metadata models.Metadata
}

type Rule struct {
	Name  string
	When  func(c Context) bool
	Reply func(c Context) string
}

type intentReply struct {
	intent string
	text   string
}

// Policy is an ordered rule list. The first rule whose predicate holds wins;
// after the rules come the intent replies and then the fallback.
type Policy struct {
	IndustryID string
	greeting   string
	rules      []Rule
	intents    []intentReply
	fallback   string
}

// Reply walks the policy and returns the first applicable utterance.
func (p *Policy) Reply(c Context) string {
	text, _ := p.Decide(c)
	return text
}

// Decide is Reply that also names the rule that produced the text.
func (p *Policy) Decide(c Context) (string, string) {
	for _, r := range p.rules {
		if r.When(c) {
			return r.Reply(c), r.Name
		}
	}
	if c.Metadata.HasIntent() {
		for _, ir := range p.intents {
			if ir.intent == *c.Metadata.Intent {
				return ir.text, "intent:" + ir.intent
			}
		}
	}
	return p.fallback, "fallback"
}

func (p *Policy) Fallback() string {
	return p.fallback
}

// Greeting is the first bot message, addressed to the lead.
func (p *Policy) Greeting(leadName string) string {
	return fmt.Sprintf(p.greeting, leadName)
}

// RuleNames lists the rule names in evaluation order.
func (p *Policy) RuleNames() []string {
	names := make([]string, 0, len(p.rules))
	for _, r := range p.rules {
		names = append(names, r.Name)
	}
	return names
}

var policies = []*Policy{realEstatePolicy, softwarePolicy}

// PolicyFor returns the industry's policy, or the stage-keyed generic one.
func PolicyFor(industryID string) *Policy {
	for _, p := range policies {
		if p.IndustryID == industryID {
			return p
		}
	}
	return genericPolicy
}

func Greeting(industryID, leadName string) string {
	return PolicyFor(industryID).Greeting(leadName)
}

// NextReply is the bot utterance for a conversation after its latest user turn.
func NextReply(conv *models.Conversation) string {
	return PolicyFor(conv.Industry.ID).Reply(Context{
		Stage:    StageFor(conv.UserMessageCount()),
		LeadName: conv.Lead.Name,
		Metadata: conv.Metadata,
	})
}
