package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Sender identifies who wrote a message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// DefaultMaxMessages bounds the transcript when no limit is configured.
const DefaultMaxMessages = 200

// Message is one entry in the conversation shown by the UI.
type Message struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Sender    Sender    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
	// IsHTML marks Text as a rendered fragment rather than plain text.
	IsHTML bool `json:"is_html"`
}

// Transcript is the in-memory conversation. It keeps at most max messages,
// dropping the oldest first, and is safe for concurrent use.
type Transcript struct {
	mu       sync.RWMutex
	messages []Message
	max      int
	now      func() time.Time
}

// NewTranscript creates an empty transcript holding at most max messages.
// A non-positive max uses DefaultMaxMessages.
func NewTranscript(max int) *Transcript {
	if max <= 0 {
		max = DefaultMaxMessages
	}
	return &Transcript{
		max: max,
		now: time.Now,
	}
}

// Append records a message and returns it with its ID and timestamp set.
func (t *Transcript) Append(sender Sender, text string, isHTML bool) Message {
	msg := Message{
		ID:        uuid.New().String(),
		Text:      text,
		Sender:    sender,
		Timestamp: t.now().UTC(),
		IsHTML:    isHTML,
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.messages = append(t.messages, msg)
	if over := len(t.messages) - t.max; over > 0 {
		t.messages = append(t.messages[:0:0], t.messages[over:]...)
	}
	return msg
}

// Messages returns a copy of the transcript in insertion order.
func (t *Transcript) Messages() []Message {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Len returns the number of messages held.
func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.messages)
}

// Clear removes every message.
func (t *Transcript) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages = nil
}
