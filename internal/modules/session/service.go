// README: Session service finds routes and prices them into quotes.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pabili/internal/maps"
	"pabili/internal/modules/pricing"
	"pabili/internal/modules/quote"
	"pabili/internal/types"
)

var (
	ErrNotFound            = errors.New("session not found")
	ErrDestinationRequired = errors.New("destination address is required")
	ErrLocationUnavailable = errors.New("current location is unavailable")
	ErrStartRequired       = errors.New("start address is required")
	ErrStartNotFound       = errors.New("start address not found")
	ErrDestinationNotFound = errors.New("destination address not found")
	ErrRouteNotFound       = errors.New("no route between start and destination")
	ErrNoRoute             = errors.New("find a route first")
	// ErrUpstream wraps geocoding and routing failures other than a miss.
	ErrUpstream            = errors.New("map service unavailable")
	// ErrSessionChanged means another request replaced the route while pricing.
	ErrSessionChanged      = errors.New("session changed, price again")
)

const myLocationLabel = "Your location"

type Quoter interface {
	Create(ctx context.Context, cmd quote.CreateCommand) (*quote.Quote, error)
}

type Publisher interface {
	Publish(id types.ID, ev Event) int
}

type Deps struct {
	Store    Store
	Geocoder maps.Geocoder
	Router   maps.Router
	Quotes   Quoter
	// Events may be nil.
	Events        Publisher
	RoundDistance bool
	Logger        *zap.Logger
}

type Service struct {
	store         Store
	geocoder      maps.Geocoder
	router        maps.Router
	quotes        Quoter
	events        Publisher
	roundDistance bool
	logger        *zap.Logger
	now           func() time.Time

	mu    sync.Mutex
	locks map[types.ID]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func NewService(d Deps) *Service {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:         d.Store,
		geocoder:      d.Geocoder,
		router:        d.Router,
		quotes:        d.Quotes,
		events:        d.Events,
		roundDistance: d.RoundDistance,
		logger:        logger,
		now:           time.Now,
		locks:         make(map[types.ID]*sessionLock),
	}
}

// lock serializes read-modify-write cycles on one session within this process.
func (s *Service) lock(id types.ID) func() {
	s.mu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &sessionLock{}
		s.locks[id] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, id)
		}
		s.mu.Unlock()
	}
}

func (s *Service) Create(ctx context.Context) (*Session, error) {
	now := s.now().UTC()
	sess := &Session{
		ID:        types.ID(uuid.NewString()),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return sess, nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Session, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	return s.store.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id types.ID) error {
	if id == "" {
		return ErrNotFound
	}
	defer s.lock(id)()
	return s.store.Delete(ctx, id)
}

// FindRoute resolves both ends, routes between them and replaces whatever
// route the session had. Any previous quote is dropped with it.
func (s *Service) FindRoute(ctx context.Context, id types.ID, cmd RouteCommand) (*Session, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	defer s.lock(id)()

	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	destination := strings.TrimSpace(cmd.Destination)
	if destination == "" {
		return nil, ErrDestinationRequired
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var startCh <-chan maps.Resolution
	if cmd.UseMyLocation {
		if cmd.StartPoint == nil || !cmd.StartPoint.Valid() {
			return nil, ErrLocationUnavailable
		}
		startCh = maps.Resolved(myLocationLabel, maps.Place{Point: *cmd.StartPoint, Label: myLocationLabel})
	} else {
		startAddress := strings.TrimSpace(cmd.StartAddress)
		if startAddress == "" {
			return nil, ErrStartRequired
		}
		startCh = maps.Resolve(ctx, s.geocoder, startAddress)
	}
	destCh := maps.Resolve(ctx, s.geocoder, destination)

	start := maps.Await(ctx, startCh)
	if start.Err != nil {
		return nil, resolveError(start.Err, ErrStartNotFound, "start")
	}
	dest := maps.Await(ctx, destCh)
	if dest.Err != nil {
		return nil, resolveError(dest.Err, ErrDestinationNotFound, "destination")
	}

	route, err := s.router.Route(ctx, start.Place.Point, dest.Place.Point)
	if err != nil {
		if errors.Is(err, maps.ErrNoRoute) {
			return nil, ErrRouteNotFound
		}
		return nil, fmt.Errorf("%w: route: %w", ErrUpstream, err)
	}

	sess.clearRoute()
	startPoint, destPoint := start.Place.Point, dest.Place.Point
	sess.Start, sess.Destination = &startPoint, &destPoint
	sess.StartLabel, sess.DestinationLabel = start.Place.Label, dest.Place.Label
	sess.Route = &route
	sess.DistanceKm = route.DistanceKm()
	if s.roundDistance {
		sess.DistanceKm = pricing.RoundDistance(sess.DistanceKm)
	}
	sess.UpdatedAt = s.now().UTC()

	if err := s.store.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	s.logger.Info("route found",
		zap.String("session_id", string(sess.ID)),
		zap.Float64("distance_km", sess.DistanceKm),
		zap.Bool("fallback", route.IsFallback))
	s.publish(Event{
		Type:       EventRouteFound,
		SessionID:  sess.ID,
		DistanceKm: sess.DistanceKm,
		Fallback:   route.IsFallback,
		At:         sess.UpdatedAt,
	})
	return sess, nil
}

// Price quotes the session's current route. It fails with ErrSessionChanged
// when the route was replaced by another writer while the quote was made.
func (s *Service) Price(ctx context.Context, id types.ID, opts BuyerOptions) (*quote.Quote, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	defer s.lock(id)()

	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sess.HasRoute() {
		return nil, ErrNoRoute
	}

	sid := sess.ID
	q, err := s.quotes.Create(ctx, quote.CreateCommand{
		SessionID: &sid,
		Input: pricing.PricingInput{
			DistanceKm:            sess.DistanceKm,
			BuyerServiceRequested: opts.Requested,
			Hours:                 opts.Hours,
			WeightKg:              opts.WeightKg,
		},
	})
	if err != nil {
		return nil, err
	}

	current, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.UpdatedAt.Equal(sess.UpdatedAt) {
		return nil, ErrSessionChanged
	}

	sess.LastQuote = q
	sess.UpdatedAt = s.now().UTC()
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	s.publish(Event{
		Type:       EventPriceCalculated,
		SessionID:  sess.ID,
		DistanceKm: sess.DistanceKm,
		Quote:      q,
		At:         sess.UpdatedAt,
	})
	return q, nil
}

func (s *Service) publish(ev Event) {
	if s.events == nil {
		return
	}
	s.events.Publish(ev.SessionID, ev)
}

func resolveError(err, notFound error, which string) error {
	if errors.Is(err, maps.ErrAddressNotFound) {
		return notFound
	}
	return fmt.Errorf("%w: geocode %s: %w", ErrUpstream, which, err)
}
