package events

import (
	"os"
	"sort"
	"strings"
)

const (
	TopicDealEvents    = "deal-events"
	TopicTicketEvents  = "ticket-events"
	TopicUserEvents    = "user-events"
	TopicPaymentEvents = "payment-events"
	TopicChatEvents    = "chat-events"
)

// DefaultTopicNames are the logical topics every service registers.
var DefaultTopicNames = []string{
	TopicDealEvents,
	TopicTicketEvents,
	TopicUserEvents,
	TopicPaymentEvents,
	TopicChatEvents,
}

// Topics maps logical topic names to physical destination identifiers.
// It is read-only once built and safe for concurrent use.
type Topics struct {
	dest map[string]string
}

func NewTopics(m map[string]string) Topics {
	dest := make(map[string]string, len(m))
	for name, d := range m {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		dest[name] = strings.TrimSpace(d)
	}
	return Topics{dest: dest}
}

// Destination reports the destination for name and whether name is registered.
// A registered topic may still have an empty destination.
func (t Topics) Destination(name string) (string, bool) {
	d, ok := t.dest[name]
	return d, ok
}

func (t Topics) Names() []string {
	names := make([]string, 0, len(t.dest))
	for name := range t.dest {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (t Topics) Len() int {
	return len(t.dest)
}

// TopicsFromEnv registers each name with the value of prefix+ENV_NAME(name),
// e.g. EVENT_TOPIC_DEAL_EVENTS for "deal-events". Missing values register
// the name with an empty destination. Pairs listed in EVENT_TOPICS
// ("name=dest,name2=dest2") are merged on top.
func TopicsFromEnv(prefix string, names ...string) Topics {
	m := make(map[string]string, len(names))
	for _, name := range names {
		m[name] = os.Getenv(prefix + EnvName(name))
	}
	for name, d := range ParseTopicList(os.Getenv("EVENT_TOPICS")) {
		m[name] = d
	}
	return NewTopics(m)
}

// EnvName converts a logical topic name to its environment variable suffix.
func EnvName(topic string) string {
	r := strings.NewReplacer("-", "_", ".", "_")
	return strings.ToUpper(r.Replace(strings.TrimSpace(topic)))
}

// ParseTopicList parses "name=dest,name2=dest2". Entries without "=" are skipped.
func ParseTopicList(raw string) map[string]string {
	out := map[string]string{}
	for _, part := range strings.Split(raw, ",") {
		name, dest, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		out[name] = strings.TrimSpace(dest)
	}
	return out
}
