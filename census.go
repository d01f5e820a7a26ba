package rookery

import (
	"bytes"
	"log/slog"

	json "github.com/goccy/go-json"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/casualjim/rookery/pkg/slogx"
)

// Census is an ordered topic to subscription-count mapping, the result type
// of Count and CountAll. It is backed by an explicit ordered map so that
// iteration yields only topics inserted by a subscribe call, in first-seen
// order.
type Census struct {
	topics *orderedmap.OrderedMap[string, int]
}

func newCensus() *Census {
	return &Census{topics: orderedmap.New[string, int]()}
}

// Add increases the count for topic by n, inserting the topic on first use.
func (c *Census) Add(topic string, n int) {
	if cur, ok := c.topics.Get(topic); ok {
		c.topics.Set(topic, cur+n)
		return
	}
	c.topics.Set(topic, n)
}

// Get returns the count for topic, zero when the topic is absent.
func (c *Census) Get(topic string) int {
	n, _ := c.topics.Get(topic)
	return n
}

// Len returns the number of distinct topics in the census.
func (c *Census) Len() int {
	return c.topics.Len()
}

// Topics returns the topics in first-seen order.
func (c *Census) Topics() []string {
	out := make([]string, 0, c.topics.Len())
	for pair := c.topics.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}
	return out
}

// Merge adds every entry of other into c and returns c.
func (c *Census) Merge(other *Census) *Census {
	if other == nil {
		return c
	}
	for pair := other.topics.Oldest(); pair != nil; pair = pair.Next() {
		c.Add(pair.Key, pair.Value)
	}
	return c
}

// Map returns the census as a plain map copy.
func (c *Census) Map() map[string]int {
	out := make(map[string]int, c.topics.Len())
	for pair := c.topics.Oldest(); pair != nil; pair = pair.Next() {
		out[pair.Key] = pair.Value
	}
	return out
}

// MarshalJSON renders the census as a JSON object with topics in
// first-seen order.
func (c *Census) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for pair := c.topics.Oldest(); pair != nil; pair = pair.Next() {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(pair.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(pair.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (c *Census) String() string {
	b, err := json.Marshal(c)
	if err != nil {
		slog.Error("failed to marshal census", slogx.Error(err))
		return "{}"
	}
	return string(b)
}
