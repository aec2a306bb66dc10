package dirsearch

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pdrpinto/dirsearch/namespace"
	"github.com/pdrpinto/dirsearch/sink"
	"go.uber.org/zap"
)

// Strategy names a search algorithm.
type Strategy string

const (
	StrategyAStar         Strategy = "astar"
	StrategyDijkstra      Strategy = "dijkstra"
	StrategyBidirectional Strategy = "bidirectional"
	StrategyForage        Strategy = "bfo"
	StrategyVenom         Strategy = "venom"
)

// Strategies lists every strategy in a stable order.
func Strategies() []Strategy {
	return []Strategy{StrategyAStar, StrategyDijkstra, StrategyBidirectional, StrategyForage, StrategyVenom}
}

// ParseStrategy accepts canonical names and the common aliases.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "astar", "a_star", "a*":
		return StrategyAStar, nil
	case "dijkstra", "ucs":
		return StrategyDijkstra, nil
	case "bidirectional", "ebs", "bidi":
		return StrategyBidirectional, nil
	case "bfo", "forage", "bacterial":
		return StrategyForage, nil
	case "venom", "svt":
		return StrategyVenom, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}

// Status is how a run terminated.
type Status int

const (
	StatusExhausted Status = iota
	StatusFound
	StatusCancelled
)

func (s Status) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusCancelled:
		return "cancelled"
	default:
		return "exhausted"
	}
}

// Params defines what to run and under which budget.
type Params struct {
	Strategy Strategy
	// RunTime is the cooperative time budget; zero means unlimited.
	RunTime time.Duration
	// Milestones are infected-file thresholds that trigger a progress record.
	Milestones []int
	// Seed drives every random choice. Zero picks a time-derived seed.
	Seed   uint64
	Forage ForageParams
	// Smooth collapses near-adjacent hops in bidirectional paths.
	Smooth bool
	// GrandparentFallback lets bidirectional dead ends jump two levels.
	GrandparentFallback bool
}

// DefaultParams returns informed search with the default foraging settings.
func DefaultParams() Params {
	return Params{
		Strategy:            StrategyAStar,
		Forage:              DefaultForageParams(),
		Smooth:              true,
		GrandparentFallback: true,
	}
}

// Validate rejects parameters no engine can run with.
func (p Params) Validate() error {
	if _, err := ParseStrategy(string(p.Strategy)); err != nil {
		return err
	}
	if p.RunTime < 0 {
		return fmt.Errorf("%w: negative run time %s", ErrInvalidParams, p.RunTime)
	}
	if p.Strategy == StrategyForage {
		return p.Forage.Validate()
	}
	return nil
}

// Result contains the outcome of a search
type Result struct {
	Strategy      Strategy
	RunID         string
	Path          []string
	Found         bool
	Status        Status
	Elapsed       time.Duration
	InfectedNodes int
	InfectedFiles int
	// TotalCost is the g score of the last path end for frontier engines.
	TotalCost float64
	Toxins    ToxinCounts
	Seed      uint64
}

type options struct {
	sink   sink.Sink
	logger *zap.Logger
}

// Option is a function that modifies options.
type Option func(*options)

// WithSink sends milestone and final records to s.
func WithSink(s sink.Sink) Option {
	return func(o *options) {
		if s != nil {
			o.sink = s
		}
	}
}

// WithLogger sets the structured logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Run executes one strategy from origin. The search succeeds on reaching
// destination or any directory that holds a file named marker (the
// bidirectional strategy only uses destination).
//
// A timeout is not an error: the result carries StatusCancelled and the
// partial path. The only engine error is ErrBrokenChain.
func Run(
	ctx context.Context,
	ns namespace.Accessor,
	origin string,
	destination string,
	marker string,
	params Params,
	opts ...Option,
) (Result, error) {
	if err := params.Validate(); err != nil {
		return Result{}, err
	}
	strategy, _ := ParseStrategy(string(params.Strategy))
	params.Strategy = strategy

	r, err := newRun(ctx, ns, origin, destination, marker, params, opts)
	if err != nil {
		return Result{}, err
	}
	defer r.stop.Disarm()

	r.log.Info("run started",
		zap.String("origin", r.origin),
		zap.String("destination", r.destination),
		zap.String("marker", marker),
		zap.Duration("budget", params.RunTime),
		zap.Uint64("seed", r.seed))

	var res Result
	switch strategy {
	case StrategyAStar:
		res, err = r.bestFirst(FileCountHeuristic(ns), nil)
	case StrategyDijkstra:
		res, err = r.bestFirst(ZeroHeuristic, nil)
	case StrategyVenom:
		gland := newToxinGland(ns, r.rng)
		res, err = r.bestFirst(gland.heuristic, gland)
	case StrategyBidirectional:
		res, err = r.bidirectional()
	case StrategyForage:
		res, err = r.forage()
	}
	if err != nil {
		r.log.Error("run failed", zap.Error(err))
		return Result{}, err
	}
	return r.finish(res), nil
}

// Search runs informed best-first search with a caller-supplied heuristic.
// Pass ZeroHeuristic for uniform-cost behaviour.
func Search(
	ctx context.Context,
	ns namespace.Accessor,
	origin string,
	destination string,
	marker string,
	heuristic Heuristic,
	params Params,
	opts ...Option,
) (Result, error) {
	if params.Strategy == "" {
		params.Strategy = StrategyAStar
	}
	if err := params.Validate(); err != nil {
		return Result{}, err
	}
	r, err := newRun(ctx, ns, origin, destination, marker, params, opts)
	if err != nil {
		return Result{}, err
	}
	defer r.stop.Disarm()

	res, err := r.bestFirst(heuristic, nil)
	if err != nil {
		return Result{}, err
	}
	return r.finish(res), nil
}

// run is the state shared by every engine for one invocation.
type run struct {
	ctx         context.Context
	ns          namespace.Accessor
	origin      string
	destination string
	marker      string
	params      Params

	runID    string
	seed     uint64
	rng      *rand.Rand
	stop     *StopSignal
	reporter *Reporter
	tracker  *Tracker
	sink     sink.Sink
	log      *zap.Logger
	start    time.Time
}

func newRun(
	ctx context.Context,
	ns namespace.Accessor,
	origin, destination, marker string,
	params Params,
	opts []Option,
) (*run, error) {
	if ns == nil {
		return nil, fmt.Errorf("%w: nil namespace accessor", ErrInvalidParams)
	}
	if strings.TrimSpace(origin) == "" {
		return nil, fmt.Errorf("%w: empty origin", ErrInvalidParams)
	}
	if strings.TrimSpace(destination) == "" && marker == "" {
		return nil, fmt.Errorf("%w: need a destination or a marker", ErrInvalidParams)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	o := options{sink: sink.Discard{}, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	seed := params.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	if destination != "" {
		destination = namespace.Clean(destination)
	}

	r := &run{
		ctx:         ctx,
		ns:          ns,
		origin:      namespace.Clean(origin),
		destination: destination,
		marker:      marker,
		params:      params,
		runID:       uuid.NewString(),
		seed:        seed,
		rng:         rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		reporter:    NewReporter(params.Milestones),
		tracker:     NewTracker(ns),
		sink:        o.sink,
		start:       time.Now(),
	}
	r.log = o.logger.With(zap.String("run_id", r.runID), zap.String("strategy", string(params.Strategy)))
	r.stop = NewStopSignal(ctx, params.RunTime)
	return r, nil
}

// checkMilestones emits one record per newly crossed threshold. path is only
// evaluated when something was crossed.
func (r *run) checkMilestones(path func() ([]string, error)) error {
	crossed := r.reporter.Crossed(r.tracker.InfectedFiles())
	if len(crossed) == 0 {
		return nil
	}
	current, err := path()
	if err != nil {
		return err
	}
	for _, threshold := range crossed {
		r.log.Info("milestone reached",
			zap.Int("threshold", threshold),
			zap.Int("infected_files", r.tracker.InfectedFiles()),
			zap.Int("infected_nodes", r.tracker.InfectedNodes()))
		r.emit(sink.ThresholdTrigger(threshold), current, false)
	}
	return nil
}

func (r *run) emit(trigger string, path []string, found bool) {
	record := sink.Record{
		RunID:         r.runID,
		Strategy:      string(r.params.Strategy),
		Trigger:       trigger,
		Path:          path,
		Found:         found,
		Elapsed:       time.Since(r.start),
		InfectedNodes: r.tracker.InfectedNodes(),
		InfectedFiles: r.tracker.InfectedFiles(),
		RecordedAt:    time.Now(),
	}
	if err := r.sink.Emit(r.ctx, record); err != nil {
		r.log.Warn("sink rejected record", zap.String("trigger", trigger), zap.Error(err))
	}
}

func (r *run) finish(res Result) Result {
	res.Strategy = r.params.Strategy
	res.RunID = r.runID
	res.Seed = r.seed
	res.Found = res.Status == StatusFound
	res.InfectedNodes = r.tracker.InfectedNodes()
	res.InfectedFiles = r.tracker.InfectedFiles()
	res.Elapsed = time.Since(r.start)

	r.emit(sink.TriggerFinal, res.Path, res.Found)
	r.log.Info("run finished",
		zap.String("status", res.Status.String()),
		zap.Int("path_length", len(res.Path)),
		zap.Int("infected_nodes", res.InfectedNodes),
		zap.Int("infected_files", res.InfectedFiles),
		zap.Ints("milestones_pending", r.reporter.Pending()),
		zap.Duration("elapsed", res.Elapsed))
	return res
}

// bestFirst drives a single Stepper until it finds the goal, runs out of
// frontier, or the stop signal is raised.
func (r *run) bestFirst(heuristic Heuristic, toxins *toxinGland) (Result, error) {
	stepOpts := []StepperOption{
		WithMarker(r.marker),
		WithTracker(r.tracker),
		withStepLogger(r.log),
	}
	if toxins != nil {
		stepOpts = append(stepOpts, withToxins(toxins))
	}
	stepper := NewStepper(r.ns, r.origin, r.destination, heuristic, stepOpts...)

	status := StatusExhausted
	for {
		if r.stop.Stopped() {
			status = StatusCancelled
			break
		}
		outcome := stepper.Step()
		if outcome.Node != "" {
			r.log.Debug("expanded", zap.String("dir", outcome.Node), zap.Float64("g", stepper.Cost(outcome.Node)))
		}
		if err := r.checkMilestones(stepper.Path); err != nil {
			return Result{}, fmt.Errorf("milestone path: %w", err)
		}
		if outcome.Found {
			status = StatusFound
			break
		}
		if outcome.Done {
			break
		}
	}

	path, err := stepper.Path()
	if err != nil {
		return Result{}, fmt.Errorf("reconstruct path: %w", err)
	}
	res := Result{
		Path:   path,
		Status: status,
	}
	if last := stepper.Last(); last != "" {
		res.TotalCost = stepper.Cost(last)
	}
	if toxins != nil {
		res.Toxins = toxins.Counts()
	}
	return res, nil
}
