package intent

import (
	"errors"
	"fmt"
	"strings"
)

// Definition is one intent category of the lexicon.
type Definition struct {
	Name          string
	Keywords      []string
	Responses     []string
	VideoKeywords []string
}

// Catalog is the ordered, read-only intent table. Order matters: it is the
// iteration order used by the classifier's keyword pass.
type Catalog struct {
	defs          []Definition
	index         map[string]int
	defaultIntent string
}

var (
	ErrEmptyIntentName   = errors.New("intent: empty intent name")
	ErrNoResponses       = errors.New("intent: definition has no responses")
	ErrDefaultNotDefined = errors.New("intent: default intent not defined")
)

func NewCatalog(defs []Definition, defaultIntent string) (*Catalog, error) {
	c := &Catalog{
		defs:          make([]Definition, 0, len(defs)),
		index:         make(map[string]int, len(defs)),
		defaultIntent: defaultIntent,
	}
	for _, d := range defs {
		name := strings.TrimSpace(d.Name)
		if name == "" {
			return nil, ErrEmptyIntentName
		}
		if _, dup := c.index[name]; dup {
			return nil, fmt.Errorf("intent: duplicate intent %q", name)
		}
		if len(d.Responses) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrNoResponses, name)
		}
		kws := make([]string, 0, len(d.Keywords))
		for _, k := range d.Keywords {
			k = strings.ToLower(strings.TrimSpace(k))
			if k != "" {
				kws = append(kws, k)
			}
		}
		c.index[name] = len(c.defs)
		c.defs = append(c.defs, Definition{
			Name:          name,
			Keywords:      kws,
			Responses:     append([]string(nil), d.Responses...),
			VideoKeywords: append([]string(nil), d.VideoKeywords...),
		})
	}
	if _, ok := c.index[defaultIntent]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrDefaultNotDefined, defaultIntent)
	}
	return c, nil
}

func (d Definition) clone() Definition {
	return Definition{
		Name:          d.Name,
		Keywords:      append([]string(nil), d.Keywords...),
		Responses:     append([]string(nil), d.Responses...),
		VideoKeywords: append([]string(nil), d.VideoKeywords...),
	}
}

// Definitions returns a copy of the table in declared order.
func (c *Catalog) Definitions() []Definition {
	out := make([]Definition, len(c.defs))
	for i, d := range c.defs {
		out[i] = d.clone()
	}
	return out
}

func (c *Catalog) Lookup(name string) (Definition, bool) {
	i, ok := c.index[name]
	if !ok {
		return Definition{}, false
	}
	return c.defs[i].clone(), true
}

func (c *Catalog) DefaultIntent() string { return c.defaultIntent }

func (c *Catalog) Names() []string {
	out := make([]string, len(c.defs))
	for i, d := range c.defs {
		out[i] = d.Name
	}
	return out
}

const DefaultIntentName = "general"

// DefaultCatalog returns the built-in lexicon.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(builtinDefinitions, DefaultIntentName)
	if err != nil {
		panic(err)
	}
	return c
}

var builtinDefinitions = []Definition{
	{
		Name:     "anxiety",
		Keywords: []string{"anxious", "anxiety", "worried", "stress", "panic", "nervous", "overwhelmed", "fear"},
		Responses: []string{
			"I understand you're feeling anxious. Anxiety is a common experience, and there are effective ways to manage it.",
			"It sounds like you're dealing with some anxiety. Let's explore some techniques that might help you feel more grounded.",
			"I hear that you're feeling overwhelmed. Anxiety can be challenging, but there are strategies we can discuss.",
		},
		VideoKeywords: []string{"anxiety relief", "breathing exercises", "anxiety management", "calm anxiety"},
	},
	{
		Name:     "depression",
		Keywords: []string{"depressed", "depression", "sad", "hopeless", "empty", "down", "low mood", "worthless"},
		Responses: []string{
			"I'm sorry you're feeling this way. Depression can be very difficult, but please know that you're not alone.",
			"It takes courage to reach out when you're feeling depressed. I'm here to support you.",
			"These feelings are valid, and it's important that you're talking about them. Let's explore some ways to help.",
		},
		VideoKeywords: []string{"depression help", "mental health support", "overcoming depression", "depression recovery"},
	},
	{
		Name:     "stress",
		Keywords: []string{"stressed", "stress", "pressure", "overwhelmed", "burnout", "exhausted", "tired"},
		Responses: []string{
			"Stress can be really challenging to manage. Let's talk about some effective stress-reduction techniques.",
			"It sounds like you're under a lot of pressure. Stress is your body's natural response, and there are healthy ways to cope.",
			"I understand you're feeling stressed. Let's explore some strategies to help you manage these feelings.",
		},
		VideoKeywords: []string{"stress relief", "stress management", "relaxation techniques", "burnout recovery"},
	},
	{
		Name:     "sleep",
		Keywords: []string{"sleep", "insomnia", "tired", "exhausted", "can't sleep", "sleepless", "nightmares"},
		Responses: []string{
			"Sleep issues can significantly impact your mental health. Let's discuss some strategies for better sleep hygiene.",
			"Getting quality sleep is crucial for mental wellness. I can share some techniques that might help.",
			"Sleep difficulties are common and treatable. Let's explore some approaches to improve your rest.",
		},
		VideoKeywords: []string{"sleep hygiene", "insomnia help", "better sleep", "sleep meditation"},
	},
	{
		Name:     "self_care",
		Keywords: []string{"self care", "self-care", "wellness", "healthy habits", "routine", "balance"},
		Responses: []string{
			"Self-care is so important for mental health. Let's explore some practices that might work for you.",
			"Taking care of yourself is not selfish, it's necessary. What aspects of self-care interest you most?",
			"Building healthy self-care routines can make a significant difference in how you feel.",
		},
		VideoKeywords: []string{"self care routine", "mental health wellness", "self care tips", "healthy habits"},
	},
	{
		Name:     "general",
		Keywords: []string{"help", "support", "talk", "listen", "advice", "guidance"},
		Responses: []string{
			"I'm here to listen and support you. What's on your mind today?",
			"Thank you for reaching out. I'm here to help in whatever way I can.",
			"I'm glad you're here. What would you like to talk about?",
		},
		VideoKeywords: []string{"mental health support", "emotional wellness", "self help", "mental health tips"},
	},
}
