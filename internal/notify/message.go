package notify

import (
	"fmt"
	"sort"
	"strings"

	"lead-qualifier/internal/models"
)

type Message struct {
	Subject string
	Body    string
	// Short fits a single SMS segment where possible.
	Short  string
	Record models.ClassificationRecord
}

// Compose renders the human readable forms of a record.
func Compose(r models.ClassificationRecord) Message {
	subject := fmt.Sprintf("%s lead: %s (%s)", r.Status, r.Lead.Name, r.IndustryID)

	var b strings.Builder
	fmt.Fprintf(&b, "Lead: %s\n", r.Lead.Name)
	fmt.Fprintf(&b, "Phone: %s\n", r.Lead.Phone)
	fmt.Fprintf(&b, "Source: %s\n", r.Lead.Source)
	fmt.Fprintf(&b, "Industry: %s\n", r.IndustryID)
	fmt.Fprintf(&b, "Status: %s (confidence %.0f%%)\n", r.Status, r.Confidence*100)
	if len(r.Reasons) > 0 {
		fmt.Fprintf(&b, "Reasons: %s\n", strings.Join(r.Reasons, "; "))
	}
	if fields := metadataLines(r.Metadata); len(fields) > 0 {
		b.WriteString("Details:\n")
		for _, f := range fields {
			fmt.Fprintf(&b, "  %s\n", f)
		}
	}
	fmt.Fprintf(&b, "Conversation: %s\n", r.ID)

	short := fmt.Sprintf("%s lead %s %s", r.Status, r.Lead.Name, r.Lead.Phone)
	if r.Metadata.Location != nil {
		short += " in " + *r.Metadata.Location
	}
	if r.Metadata.Budget != nil {
		short += fmt.Sprintf(", budget %g", *r.Metadata.Budget)
	}

	return Message{Subject: subject, Body: b.String(), Short: short, Record: r}
}

func metadataLines(m models.Metadata) []string {
	var out []string
	if m.Intent != nil {
		out = append(out, "intent: "+*m.Intent)
	}
	if m.Budget != nil {
		out = append(out, fmt.Sprintf("budget: %g", *m.Budget))
	}
	if m.Timeline != nil {
		out = append(out, fmt.Sprintf("timeline: %d months", *m.Timeline))
	}
	if m.Location != nil {
		out = append(out, "location: "+*m.Location)
	}
	if m.PropertyType != nil {
		out = append(out, "property type: "+*m.PropertyType)
	}
	if m.Purpose != nil {
		out = append(out, "purpose: "+*m.Purpose)
	}
	if m.CompanySize != nil {
		out = append(out, fmt.Sprintf("company size: %d", *m.CompanySize))
	}
	if m.DecisionMaker != nil {
		out = append(out, fmt.Sprintf("decision maker: %t", *m.DecisionMaker))
	}
	sort.Strings(out)
	return out
}
