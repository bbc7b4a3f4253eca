package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

const supportSystemPrompt = `You are Melvis, a warm and supportive mental health companion.
Reply in at most four short sentences. Be empathetic and practical.
If the message is unrelated to emotional wellbeing, gently steer the conversation back to how the person is feeling.
You are not a therapist: never diagnose, and encourage professional or emergency help when someone may be at risk.`

var ErrEmptyReply = errors.New("ai: empty reply")

// SupportResponder writes a free-form supportive reply for messages the
// lexicon could not place with confidence.
type SupportResponder struct {
	provider Provider
	timeout  time.Duration
}

func NewSupportResponder(p Provider, timeout time.Duration) *SupportResponder {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &SupportResponder{provider: p, timeout: timeout}
}

func (r *SupportResponder) Reply(ctx context.Context, message, intent string) (string, error) {
	cctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	out, err := r.provider.Chat(cctx, []Message{
		{Role: "system", Content: supportSystemPrompt},
		{Role: "system", Content: fmt.Sprintf("Closest topic guess: %s.", intent)},
		{Role: "user", Content: message},
	})
	if err != nil {
		return "", err
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", ErrEmptyReply
	}
	return out, nil
}
