package intent

import "math/rand/v2"

// Selector picks canned responses and exposes the per-intent side tables.
type Selector struct {
	catalog     *Catalog
	suggestions map[string][]string
	intn        func(n int) int
}

type SelectorOption func(*Selector)

// WithRandom replaces the uniform source used by Select.
func WithRandom(intn func(n int) int) SelectorOption {
	return func(s *Selector) { s.intn = intn }
}

// WithSuggestions replaces the follow-up suggestion table.
func WithSuggestions(table map[string][]string) SelectorOption {
	return func(s *Selector) { s.suggestions = table }
}

func NewSelector(catalog *Catalog, opts ...SelectorOption) *Selector {
	s := &Selector{
		catalog:     catalog,
		suggestions: defaultSuggestions,
		intn:        rand.IntN,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Select returns one of the intent's responses, uniformly at random.
// Unknown intents answer from the default intent.
func (s *Selector) Select(intentName string) string {
	d, ok := s.catalog.Lookup(intentName)
	if !ok {
		d, _ = s.catalog.Lookup(s.catalog.defaultIntent)
	}
	return d.Responses[s.intn(len(d.Responses))]
}

func (s *Selector) VideoKeywords(intentName string) []string {
	d, ok := s.catalog.Lookup(intentName)
	if !ok {
		return nil
	}
	return append([]string(nil), d.VideoKeywords...)
}

func (s *Selector) FollowupSuggestions(intentName string) []string {
	if list, ok := s.suggestions[intentName]; ok && len(list) > 0 {
		return append([]string(nil), list...)
	}
	return append([]string(nil), s.suggestions[s.catalog.defaultIntent]...)
}

var defaultSuggestions = map[string][]string{
	"anxiety": {
		"Tell me about breathing exercises",
		"What are some grounding techniques?",
		"How can I manage panic attacks?",
		"Share relaxation methods",
	},
	"depression": {
		"What are some mood-lifting activities?",
		"How can I build a support network?",
		"Tell me about professional help options",
		"Share self-care tips for depression",
	},
	"stress": {
		"What are quick stress relief techniques?",
		"How can I improve work-life balance?",
		"Tell me about mindfulness practices",
		"Share time management tips",
	},
	"sleep": {
		"What is good sleep hygiene?",
		"How can I create a bedtime routine?",
		"Tell me about sleep meditation",
		"What foods help with sleep?",
	},
	"self_care": {
		"What are daily self-care practices?",
		"How can I set healthy boundaries?",
		"Tell me about mindfulness exercises",
		"Share wellness routine ideas",
	},
	"general": {
		"I'm feeling anxious",
		"I need help with stress",
		"I'm having trouble sleeping",
		"Tell me about self-care",
	},
}
