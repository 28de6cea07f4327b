package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"pabili/internal/ai"
	"pabili/internal/modules/quote"
	"pabili/internal/modules/session"
	"pabili/internal/types"
)

var ErrAssistantUnavailable = errors.New("assistant unavailable")

// Sessions is the part of the session service the planner drives.
type Sessions interface {
	Get(ctx context.Context, id types.ID) (*session.Session, error)
	FindRoute(ctx context.Context, id types.ID, cmd session.RouteCommand) (*session.Session, error)
	Price(ctx context.Context, id types.ID, opts session.BuyerOptions) (*quote.Quote, error)
}

// PlanResult is what the assistant endpoint returns for one message.
type PlanResult struct {
	Reply   string             `json:"reply"`
	Intent  *ai.DeliveryIntent `json:"intent"`
	Session *session.Session   `json:"session,omitempty"`
	Quote   *quote.Quote       `json:"quote,omitempty"`
}

// QuotePlanner orchestrates AI intent parsing, routing and pricing.
type QuotePlanner struct {
	llm      ai.LLMProvider
	sessions Sessions
	loc      *time.Location
	logger   *zap.Logger
	now      func() time.Time
}

func NewQuotePlanner(llm ai.LLMProvider, sessions Sessions, logger *zap.Logger) *QuotePlanner {
	loc, err := time.LoadLocation("Asia/Manila")
	if err != nil {
		loc = time.FixedZone("PHT", 8*60*60)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuotePlanner{llm: llm, sessions: sessions, loc: loc, logger: logger, now: time.Now}
}

// Plan reads one customer message. A complete delivery request is routed and
// priced on the session; anything else returns the model's reply as is.
func (p *QuotePlanner) Plan(ctx context.Context, sessionID types.ID, message string, location *types.Point) (*PlanResult, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, fmt.Errorf("%w: empty message", quote.ErrBadRequest)
	}
	sess, err := p.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	intent, err := p.llm.ParseDeliveryRequest(ctx, message, p.buildContext(sess, location))
	if err != nil {
		p.logger.Warn("intent parsing failed", zap.String("session_id", string(sessionID)), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrAssistantUnavailable, err)
	}

	result := &PlanResult{Reply: intent.Reply, Intent: intent, Session: sess}
	if !intent.Complete() {
		return result, nil
	}
	if intent.UseMyLocation && location == nil {
		result.Reply = "I can't see your location right now. Where should the rider start from?"
		return result, nil
	}

	cmd := session.RouteCommand{
		Destination:   *intent.Destination,
		UseMyLocation: intent.UseMyLocation,
		StartPoint:    location,
	}
	if intent.StartAddress != nil {
		cmd.StartAddress = *intent.StartAddress
	}

	routed, err := p.sessions.FindRoute(ctx, sessionID, cmd)
	if err != nil {
		if reply, ok := routeReply(err); ok {
			result.Reply = reply
			return result, nil
		}
		return nil, err
	}
	result.Session = routed

	q, err := p.sessions.Price(ctx, sessionID, session.BuyerOptions{
		Requested: intent.BuyerService,
		Hours:     intent.Hours,
		WeightKg:  intent.WeightKg,
	})
	if err != nil {
		return nil, err
	}
	result.Quote = q
	result.Reply = quoteReply(intent.Reply, routed, q)
	return result, nil
}

func (p *QuotePlanner) buildContext(sess *session.Session, location *types.Point) map[string]string {
	ctx := map[string]string{
		"current_time": p.now().In(p.loc).Format(time.RFC3339),
	}
	if location != nil {
		ctx["user_location"] = location.String()
	}
	if sess != nil && sess.HasRoute() {
		ctx["known_route"] = fmt.Sprintf("%s -> %s (%.2f km)", sess.StartLabel, sess.DestinationLabel, sess.DistanceKm)
	}
	return ctx
}

// routeReply turns address problems into a question for the customer.
func routeReply(err error) (string, bool) {
	switch {
	case errors.Is(err, session.ErrStartNotFound):
		return "I couldn't find the pickup address. Can you give a landmark or a fuller address?", true
	case errors.Is(err, session.ErrDestinationNotFound):
		return "I couldn't find the drop-off address. Can you give a landmark or a fuller address?", true
	case errors.Is(err, session.ErrRouteNotFound):
		return "There is no road route between those two places. Can you check the addresses?", true
	case errors.Is(err, session.ErrLocationUnavailable):
		return "I can't see your location right now. Where should the rider start from?", true
	}
	return "", false
}

func quoteReply(lead string, sess *session.Session, q *quote.Quote) string {
	var b strings.Builder
	if lead != "" {
		b.WriteString(lead)
		b.WriteString("\n\n")
	}
	fmt.Fprintf(&b, "%s → %s: %.2f km", sess.StartLabel, sess.DestinationLabel, sess.DistanceKm)
	if sess.Route != nil && sess.Route.IsFallback {
		b.WriteString(" (straight-line estimate)")
	}
	for _, line := range q.Receipt {
		b.WriteString("\n")
		b.WriteString(line)
	}
	return b.String()
}
