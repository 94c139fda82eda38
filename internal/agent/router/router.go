package router

import (
	"strings"

	"github.com/sahil-voice-agent/server/internal/agent/model"
)

// Tags carries the routing decisions derived from a single query. The
// three tags are independent; a query may carry any combination.
type Tags struct {
	AboutSelf bool
	AboutOrg  bool
	NeedsWeb  bool
}

// Empty reports whether no tag matched.
func (t Tags) Empty() bool {
	return !t.AboutSelf && !t.AboutOrg && !t.NeedsWeb
}

// Classifier routes queries by case-insensitive substring matching
// against fixed keyword lists. It is a deliberate heuristic, not an NLU
// stage: false positives are expected and acceptable.
type Classifier struct {
	selfKeywords []string
	orgKeywords  []string
	webKeywords  []string
}

// NewClassifier builds the keyword lists, folding the persona's subject,
// org and founder names into the matching vocabulary.
func NewClassifier(persona model.PersonaConfig) *Classifier {
	selfKeywords := []string{
		"you", "your", "background", "education",
		"skills", "experience", "life", "career", "resume",
	}
	if name := firstName(persona.SubjectName); name != "" {
		selfKeywords = append(selfKeywords, name)
	}

	orgKeywords := []string{"company", "startup", "founder", "mission", "culture", "role"}
	if org := strings.ToLower(strings.TrimSpace(persona.OrgName)); org != "" {
		orgKeywords = append(orgKeywords, org)
	}
	if founder := strings.ToLower(strings.TrimSpace(persona.FounderName)); founder != "" {
		orgKeywords = append(orgKeywords, founder)
	}

	return &Classifier{
		selfKeywords: selfKeywords,
		orgKeywords:  orgKeywords,
		webKeywords: []string{
			"current", "today", "latest", "market",
			"news", "trend", "hiring", "salary",
		},
	}
}

// Classify derives routing tags for the query. It never fails; an
// unmatched query simply yields empty tags.
func (c *Classifier) Classify(query string) Tags {
	q := strings.ToLower(query)
	return Tags{
		AboutSelf: containsAny(q, c.selfKeywords),
		AboutOrg:  containsAny(q, c.orgKeywords),
		NeedsWeb:  containsAny(q, c.webKeywords),
	}
}

func containsAny(q string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(q, k) {
			return true
		}
	}
	return false
}

func firstName(full string) string {
	fields := strings.Fields(strings.ToLower(full))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
