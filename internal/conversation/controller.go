// Package conversation implements the per-session dialogue loop: intent
// keywords route each turn into the booking flow, a reset, or a document
// search, and the booking flow walks the form one field at a time.
package conversation

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/appointbot/appointbot/internal/booking"
	"github.com/appointbot/appointbot/internal/knowledge"
	"github.com/appointbot/appointbot/internal/observability/metrics"
	"github.com/appointbot/appointbot/pkg/logging"
)

// DocumentSearchProvider is the retrieval collaborator. Implementations
// return an empty slice, not an error, when nothing matches or no corpus is
// loaded; errors are reserved for backend failures.
type DocumentSearchProvider interface {
	Search(ctx context.Context, query string, k int) ([]knowledge.Document, error)
}

// Options configures a controller. Zero values fall back to the defaults
// below.
type Options struct {
	BookingKeywords []string
	ResetKeywords   []string
	PhoneRegion     string
	SearchTopK      int
	Now             func() time.Time
}

var defaultBookingKeywords = []string{"book", "appointment", "call me", "contact me", "schedule", "meeting"}
var defaultResetKeywords = []string{"reset", "start over", "clear", "restart"}

const defaultSearchTopK = 3

// snippetLimit caps how much of a retrieved chunk is quoted back.
const snippetLimit = 300

// Controller drives one chat session. Not safe for concurrent use; callers
// serialize access per session.
type Controller struct {
	form            *booking.Form
	search          DocumentSearchProvider
	log             *logging.Logger
	metrics         *metrics.ConversationMetrics
	bookingKeywords []string
	resetKeywords   []string
	searchTopK      int
}

// Status is a UI-facing snapshot of the booking flow.
type Status struct {
	IsComplete  bool              `json:"is_complete"`
	CurrentStep string            `json:"current_step"`
	Fields      map[string]string `json:"fields"`
	NextField   string            `json:"next_field,omitempty"`
}

// NewController creates a session controller. The search provider may be
// nil, in which case document questions get the static "nothing loaded"
// answer. Metrics may be nil.
func NewController(search DocumentSearchProvider, log *logging.Logger, m *metrics.ConversationMetrics, opts Options) *Controller {
	if log == nil {
		log = logging.Default()
	}
	if len(opts.BookingKeywords) == 0 {
		opts.BookingKeywords = defaultBookingKeywords
	}
	if len(opts.ResetKeywords) == 0 {
		opts.ResetKeywords = defaultResetKeywords
	}
	if opts.SearchTopK <= 0 {
		opts.SearchTopK = defaultSearchTopK
	}
	return &Controller{
		form:            booking.NewForm(opts.PhoneRegion, opts.Now),
		search:          search,
		log:             log,
		metrics:         m,
		bookingKeywords: opts.BookingKeywords,
		resetKeywords:   opts.ResetKeywords,
		searchTopK:      opts.SearchTopK,
	}
}

// HandleTurn processes one user utterance and returns the reply text. It
// mutates session state; collaborator failures produce an apologetic reply
// and leave the booking form untouched.
func (c *Controller) HandleTurn(ctx context.Context, rawText string) string {
	lower := strings.ToLower(strings.TrimSpace(rawText))

	// Reset wins over everything, including a booking in progress.
	if containsAny(lower, c.resetKeywords) {
		c.form.Reset()
		c.metrics.ObserveTurn("reset")
		return resetMessage
	}

	if c.form.State() == booking.StateCollecting {
		c.metrics.ObserveTurn("collecting")
		return c.handleBookingTurn(rawText)
	}

	if containsAny(lower, c.bookingKeywords) {
		if c.form.State() == booking.StateComplete {
			// A fresh booking request after completion starts over.
			c.form.Reset()
		}
		c.form.Begin()
		c.metrics.ObserveTurn("booking_started")
		return bookingStartMessage
	}

	return c.handleSearchTurn(ctx, rawText)
}

func (c *Controller) handleBookingTurn(rawText string) string {
	field, ok := c.form.NextMissingField()
	if !ok {
		// All fields addressed already; close out.
		c.form.Complete()
		c.metrics.ObserveBookingCompleted()
		return "Perfect! Here's your booking information:\n\n" + c.summary() + "\n\nWe'll contact you soon!"
	}

	accepted, message := c.form.AcceptAnswer(field, rawText)
	if !accepted {
		return message + "\n\n" + fieldPrompt(field)
	}

	if next, more := c.form.NextMissingField(); more {
		return message + "\n\n" + fieldPrompt(next)
	}

	c.form.Complete()
	c.metrics.ObserveBookingCompleted()
	return message + "\n\nPerfect! Here's your booking:\n\n" + c.summary() + "\n\nWe'll contact you soon!"
}

func (c *Controller) handleSearchTurn(ctx context.Context, query string) string {
	if c.search == nil {
		c.metrics.ObserveTurn("no_results")
		return noDocumentsMessage
	}

	start := time.Now()
	docs, tier, err := c.searchWithFallback(ctx, query)
	if err != nil {
		c.log.Error("document search failed", "error", err)
		c.metrics.ObserveTurn("error")
		return "Sorry, I couldn't search the documents just now. Please try again in a moment."
	}
	c.metrics.ObserveSearch(tier, time.Since(start).Seconds())

	if len(docs) == 0 {
		c.metrics.ObserveTurn("no_results")
		return "I couldn't find relevant content. Try asking about specific topics in your documents."
	}

	c.metrics.ObserveTurn("answered")
	var sb strings.Builder
	sb.WriteString("Here's what I found:\n\n")
	for i, doc := range docs {
		if i == 2 {
			break
		}
		content := strings.TrimSpace(doc.Content)
		if len(content) > snippetLimit {
			content = content[:snippetLimit] + "..."
		}
		sb.WriteString(content)
		sb.WriteString("\n\n")
	}
	sb.WriteString("Would you like me to search for something specific?")
	return sb.String()
}

// searchWithFallback runs the three-tier ladder: the exact query, then the
// longest individual words, then an unrestricted fetch.
func (c *Controller) searchWithFallback(ctx context.Context, query string) ([]knowledge.Document, string, error) {
	docs, err := c.search.Search(ctx, query, c.searchTopK)
	if err != nil {
		return nil, "", err
	}
	if len(docs) > 0 {
		return docs, "exact", nil
	}

	for _, keyword := range longestWords(query, 3) {
		docs, err = c.search.Search(ctx, keyword, c.searchTopK)
		if err != nil {
			return nil, "", err
		}
		if len(docs) > 0 {
			return docs, "keywords", nil
		}
	}

	docs, err = c.search.Search(ctx, "", c.searchTopK)
	if err != nil {
		return nil, "", err
	}
	return docs, "unrestricted", nil
}

// longestWords returns up to max words longer than three characters, longest
// first. Ties keep their order of appearance.
func longestWords(query string, max int) []string {
	words := strings.Fields(strings.ToLower(query))
	kept := words[:0]
	for _, w := range words {
		if len(w) > 3 {
			kept = append(kept, w)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return len(kept[i]) > len(kept[j])
	})
	if len(kept) > max {
		kept = kept[:max]
	}
	return kept
}

// Status reports the booking flow for UI rendering.
func (c *Controller) Status() Status {
	next, _ := c.form.NextMissingField()
	return Status{
		IsComplete:  c.form.IsComplete(),
		CurrentStep: string(c.form.State()),
		Fields:      c.form.Fields(),
		NextField:   string(next),
	}
}

func (c *Controller) summary() string {
	rec := c.form.Record()
	var sb strings.Builder
	sb.WriteString("Appointment Summary\n\n")
	fmt.Fprintf(&sb, "Name: %s\n", rec.Name)
	fmt.Fprintf(&sb, "Email: %s\n", rec.Email)
	fmt.Fprintf(&sb, "Phone: %s\n", rec.Phone)
	fmt.Fprintf(&sb, "Date: %s\n", rec.AppointmentDate)
	fmt.Fprintf(&sb, "Time: %s", rec.AppointmentTime)
	if rec.Purpose != "" && rec.Purpose != booking.PurposeNotSpecified {
		fmt.Fprintf(&sb, "\nPurpose: %s", rec.Purpose)
	}
	return sb.String()
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

const bookingStartMessage = "I'd be happy to help you book an appointment!\n\nLet's start with your full name:"

const resetMessage = "I've reset everything. How can I help you today?\n\n" +
	"- Ask questions about uploaded documents\n" +
	"- Say 'I want to book an appointment' to schedule a meeting"

const noDocumentsMessage = "No documents are currently loaded. Please add documents to get started!\n\n" +
	"I can also help you:\n" +
	"- Book appointments (say 'I want to book an appointment')"

func fieldPrompt(field booking.Field) string {
	switch field {
	case booking.FieldName:
		return "What's your full name?"
	case booking.FieldEmail:
		return "What's your email address?"
	case booking.FieldPhone:
		return "What's your phone number?"
	case booking.FieldDate:
		return "When would you like your appointment?\n(e.g., 'tomorrow', 'next Monday', '2024-03-15')"
	case booking.FieldTime:
		return "What time works for you?\n(e.g., '2:30 PM', '9am', 'morning')"
	case booking.FieldPurpose:
		return "What's the purpose of your appointment?\n(optional - say 'skip' if you prefer not to specify)"
	}
	return "Please provide the information:"
}
