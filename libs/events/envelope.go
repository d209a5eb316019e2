package events

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// EnvelopeVersion is the schema version of the envelope shape, not of the payload.
const EnvelopeVersion = "1.0"

// TimestampLayout renders local wall-clock time with no zone offset.
const TimestampLayout = "2006-01-02T15:04:05"

// Envelope is the standard wrapper published for every domain event.
type Envelope struct {
	// EventType uses a dot-delimited namespace, e.g. "deal.requested".
	EventType string `json:"eventType"`
	// Source names the producing service, e.g. "service-trade".
	Source        string         `json:"source"`
	Version       string         `json:"version"`
	Timestamp     Timestamp      `json:"timestamp"`
	Data          map[string]any `json:"data"`
	CorrelationID string         `json:"correlationId"`
}

// NewEnvelope builds an envelope with version, timestamp and a fresh correlation id.
// A nil data map is replaced by an empty one.
func NewEnvelope(eventType, source string, data map[string]any) Envelope {
	if data == nil {
		data = map[string]any{}
	}
	return Envelope{
		EventType:     eventType,
		Source:        source,
		Version:       EnvelopeVersion,
		Timestamp:     Now(),
		Data:          data,
		CorrelationID: uuid.NewString(),
	}
}

// Marshal returns the wire body handed to the notification service.
func (e Envelope) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

func ParseEnvelope(raw []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope{}, err
	}
	if env.Data == nil {
		env.Data = map[string]any{}
	}
	return env, nil
}

// Timestamp is a second-resolution local time without offset on the wire.
type Timestamp struct {
	time.Time
}

func Now() Timestamp {
	return Timestamp{Time: time.Now().Truncate(time.Second)}
}

func (t Timestamp) String() string {
	return t.Time.Format(TimestampLayout)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *Timestamp) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := time.ParseInLocation(TimestampLayout, s, time.Local)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}
