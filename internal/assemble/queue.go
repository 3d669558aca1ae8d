package assemble

import (
	"encoding/hex"
	"hash/fnv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Entry is one rendered table waiting for its placeholder.
type Entry struct {
	Content     string
	Fingerprint string
}

// Queue hands out entries strictly in the order they were extracted.
type Queue struct {
	entries []Entry
	next    int
}

func NewQueue(entries []Entry) *Queue {
	return &Queue{entries: entries}
}

// Next returns the oldest unconsumed entry.
func (q *Queue) Next() (Entry, bool) {
	if q.next >= len(q.entries) {
		return Entry{}, false
	}
	e := q.entries[q.next]
	q.next++
	return e, true
}

// Drain consumes and returns every remaining entry.
func (q *Queue) Drain() []Entry {
	rest := q.entries[q.next:]
	q.next = len(q.entries)
	return rest
}

func (q *Queue) Len() int      { return len(q.entries) }
func (q *Queue) Consumed() int { return q.next }

// Fingerprint hashes the visible characters of text. Whitespace and control
// characters are ignored and compatibility forms are folded, so two
// renderings of the same cells agree even if their spacing differs.
func Fingerprint(text string) string {
	var sb strings.Builder
	for _, r := range norm.NFKC.String(text) {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			continue
		}
		sb.WriteRune(r)
	}
	h := fnv.New64a()
	h.Write([]byte(sb.String()))
	return hex.EncodeToString(h.Sum(nil))
}
