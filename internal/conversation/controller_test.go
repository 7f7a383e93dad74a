package conversation

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appointbot/appointbot/internal/knowledge"
	"github.com/appointbot/appointbot/pkg/logging"
)

// stubSearch replays canned results keyed by query and records the queries
// it received, so tests can assert the fallback ladder order.
type stubSearch struct {
	results map[string][]knowledge.Document
	queries []string
	err     error
}

func (s *stubSearch) Search(_ context.Context, query string, _ int) ([]knowledge.Document, error) {
	s.queries = append(s.queries, query)
	if s.err != nil {
		return nil, s.err
	}
	return s.results[query], nil
}

func testClock() time.Time {
	return time.Date(2024, time.March, 13, 9, 0, 0, 0, time.UTC) // a Wednesday
}

func newTestController(search DocumentSearchProvider) *Controller {
	return NewController(search, logging.Default(), nil, Options{
		PhoneRegion: "US",
		Now:         testClock,
	})
}

func TestBookingEndToEnd(t *testing.T) {
	c := newTestController(nil)
	ctx := context.Background()

	reply := c.HandleTurn(ctx, "I want to book an appointment")
	assert.Contains(t, reply, "full name")
	assert.Equal(t, "collecting", c.Status().CurrentStep)

	// Too-short name: rejected, same prompt again, record untouched.
	reply = c.HandleTurn(ctx, "j")
	assert.Contains(t, reply, "at least 2 characters")
	assert.Contains(t, reply, "full name")
	assert.Empty(t, c.Status().Fields["name"])

	reply = c.HandleTurn(ctx, "John Smith")
	assert.Contains(t, reply, "Name set to: John Smith")
	assert.Contains(t, reply, "email address")

	reply = c.HandleTurn(ctx, "john@example.com")
	assert.Contains(t, reply, "phone number")

	reply = c.HandleTurn(ctx, "555-123-4567")
	assert.Contains(t, reply, "your appointment")

	reply = c.HandleTurn(ctx, "tomorrow")
	assert.Contains(t, reply, "2024-03-14")
	assert.Contains(t, reply, "What time works")

	reply = c.HandleTurn(ctx, "morning")
	assert.Contains(t, reply, "09:00")
	assert.Contains(t, reply, "purpose")

	reply = c.HandleTurn(ctx, "skip")
	assert.Contains(t, reply, "Appointment Summary")
	assert.Contains(t, reply, "John Smith")
	assert.Contains(t, reply, "2024-03-14")
	assert.NotContains(t, reply, "Not specified", "skipped purpose stays out of the summary")

	status := c.Status()
	assert.True(t, status.IsComplete)
	assert.Equal(t, "complete", status.CurrentStep)
}

func TestResetMidBooking(t *testing.T) {
	c := newTestController(nil)
	ctx := context.Background()

	c.HandleTurn(ctx, "book an appointment")
	c.HandleTurn(ctx, "John Smith")
	require.Equal(t, "collecting", c.Status().CurrentStep)

	reply := c.HandleTurn(ctx, "start over please")
	assert.Contains(t, reply, "reset everything")

	status := c.Status()
	assert.Equal(t, "idle", status.CurrentStep)
	assert.Empty(t, status.Fields)
}

func TestBookingIntentAfterCompletionStartsFresh(t *testing.T) {
	c := newTestController(nil)
	ctx := context.Background()

	for _, turn := range []string{
		"book an appointment", "John Smith", "john@example.com",
		"555-123-4567", "tomorrow", "morning", "skip",
	} {
		c.HandleTurn(ctx, turn)
	}
	require.True(t, c.Status().IsComplete)

	reply := c.HandleTurn(ctx, "I'd like to schedule another meeting")
	assert.Contains(t, reply, "full name")
	assert.Equal(t, "collecting", c.Status().CurrentStep)
	assert.Empty(t, c.Status().Fields, "new booking starts from an empty record")
}

func TestSearchExactTier(t *testing.T) {
	search := &stubSearch{results: map[string][]knowledge.Document{
		"what are your hours": {{Content: "We are open 9 to 5 weekdays.", Source: "faq.md"}},
	}}
	c := newTestController(search)

	reply := c.HandleTurn(context.Background(), "what are your hours")
	assert.Contains(t, reply, "Here's what I found")
	assert.Contains(t, reply, "open 9 to 5")
	assert.Equal(t, []string{"what are your hours"}, search.queries)
}

func TestSearchKeywordFallback(t *testing.T) {
	search := &stubSearch{results: map[string][]knowledge.Document{
		"parking": {{Content: "Parking is available behind the building."}},
	}}
	c := newTestController(search)

	reply := c.HandleTurn(context.Background(), "do you have parking")
	assert.Contains(t, reply, "behind the building")
	// Ladder: exact query first, then the longest word.
	assert.Equal(t, []string{"do you have parking", "parking"}, search.queries)
}

func TestSearchUnrestrictedFallback(t *testing.T) {
	search := &stubSearch{results: map[string][]knowledge.Document{
		"": {{Content: "General clinic information."}},
	}}
	c := newTestController(search)

	reply := c.HandleTurn(context.Background(), "zzz qqq")
	assert.Contains(t, reply, "General clinic information")
	assert.Equal(t, "", search.queries[len(search.queries)-1], "last tier is the blank query")
}

func TestSearchNoResults(t *testing.T) {
	search := &stubSearch{}
	c := newTestController(search)

	reply := c.HandleTurn(context.Background(), "anything relevant here")
	assert.Contains(t, reply, "couldn't find relevant content")
}

func TestSearchProviderError(t *testing.T) {
	search := &stubSearch{err: errors.New("backend down")}
	c := newTestController(search)

	c.HandleTurn(context.Background(), "book an appointment")
	c.HandleTurn(context.Background(), "John Smith")

	// An utterance without keywords mid-booking goes to the form, so reset
	// first to reach the search path, then verify the form survives the
	// collaborator failure untouched.
	c.HandleTurn(context.Background(), "reset")
	reply := c.HandleTurn(context.Background(), "what about pricing")
	assert.Contains(t, reply, "try again")
	assert.Equal(t, "idle", c.Status().CurrentStep)
}

func TestNoProviderConfigured(t *testing.T) {
	c := newTestController(nil)

	reply := c.HandleTurn(context.Background(), "tell me about your services")
	assert.Contains(t, reply, "No documents are currently loaded")
}

func TestSearchTruncatesLongSnippets(t *testing.T) {
	long := strings.Repeat("x", 400)
	search := &stubSearch{results: map[string][]knowledge.Document{
		"long": {{Content: long}},
	}}
	c := newTestController(search)

	reply := c.HandleTurn(context.Background(), "long")
	assert.Contains(t, reply, strings.Repeat("x", 300)+"...")
	assert.NotContains(t, reply, strings.Repeat("x", 301))
}

func TestSearchShowsAtMostTwoSnippets(t *testing.T) {
	search := &stubSearch{results: map[string][]knowledge.Document{
		"topic": {
			{Content: "first snippet"},
			{Content: "second snippet"},
			{Content: "third snippet"},
		},
	}}
	c := newTestController(search)

	reply := c.HandleTurn(context.Background(), "topic")
	assert.Contains(t, reply, "first snippet")
	assert.Contains(t, reply, "second snippet")
	assert.NotContains(t, reply, "third snippet")
}

func TestLongestWords(t *testing.T) {
	got := longestWords("Do you have wheelchair accessible parking nearby", 3)
	assert.Equal(t, []string{"wheelchair", "accessible", "parking"}, got)

	assert.Empty(t, longestWords("a an it to", 3), "short words are dropped")
}

func TestCustomKeywords(t *testing.T) {
	c := NewController(nil, logging.Default(), nil, Options{
		BookingKeywords: []string{"reservar"},
		Now:             testClock,
	})

	reply := c.HandleTurn(context.Background(), "quiero reservar una cita")
	assert.Contains(t, reply, "full name")
	assert.Equal(t, "collecting", c.Status().CurrentStep)
}
