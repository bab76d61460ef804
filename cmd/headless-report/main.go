package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/Garsondee/tacbot/internal/config"
	"github.com/Garsondee/tacbot/internal/journal"
	"github.com/Garsondee/tacbot/internal/logging"
	"github.com/Garsondee/tacbot/internal/sim"
	"github.com/Garsondee/tacbot/internal/telemetry"
	"github.com/Garsondee/tacbot/internal/world"
)

var errUsage = errors.New("usage")

type runStats struct {
	runIndex int
	seed     int64
	ticks    int
	winner   string
	over     bool

	firstContactTick int
	firstAttackTick  int
	firstDeathTick   int
	plantTick        int
	rescueTick       int
	lastDeathTick    int
	defused          bool
	exploded         bool

	stateChanges  int
	interrupts    int
	contacts      int
	deaths        int
	phrases       int
	pathsComputed int
	stuckEvents   int

	attackersAlive int
	defendersAlive int
	phraseCounts   map[string]int
	stuck          map[string]struct{}
	dump           string
}

type options struct {
	runs       int
	ticks      int
	seedBase   int64
	seedStep   int64
	scenario   string
	perTeam    int
	configPath string
	watch      bool
	dumpFrom   int
	dumpTo     int // -1 disables the dump
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("headless-report", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.IntVar(&o.runs, "runs", 5, "number of headless rounds")
	fs.IntVar(&o.ticks, "ticks", 3600, "tick limit per round")
	fs.Int64Var(&o.seedBase, "seed-base", 42, "base RNG seed for run 1")
	fs.Int64Var(&o.seedStep, "seed-step", 1, "seed increment between runs")
	fs.StringVar(&o.scenario, "scenario", "bomb", "elimination, bomb, hostages or escort")
	fs.IntVar(&o.perTeam, "per-team", 5, "bots on each side")
	fs.StringVar(&o.configPath, "config", "", "config file (json, yaml or toml)")
	fs.BoolVar(&o.watch, "watch", false, "reload the config file between runs")
	dump := fs.String("dump", "", "print each run's event log for ticks FROM:TO")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	o.dumpTo = -1
	if *dump != "" {
		from, to, err := parseTickRange(*dump)
		if err != nil {
			return o, err
		}
		o.dumpFrom, o.dumpTo = from, to
	}
	if o.runs <= 0 {
		return o, fmt.Errorf("%w: -runs must be > 0", errUsage)
	}
	if o.ticks <= 0 {
		return o, fmt.Errorf("%w: -ticks must be > 0", errUsage)
	}
	if o.perTeam <= 0 {
		return o, fmt.Errorf("%w: -per-team must be > 0", errUsage)
	}
	if _, ok := world.ParseScenario(o.scenario); !ok {
		return o, fmt.Errorf("%w: unsupported scenario %q (supported: elimination, bomb, hostages, escort)", errUsage, o.scenario)
	}
	if o.watch && o.configPath == "" {
		return o, fmt.Errorf("%w: -watch needs -config", errUsage)
	}
	return o, nil
}

// parseTickRange reads "FROM:TO" with 0 <= FROM <= TO.
func parseTickRange(s string) (int, int, error) {
	a, b, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, fmt.Errorf("%w: -dump wants FROM:TO, got %q", errUsage, s)
	}
	from, err := strconv.Atoi(strings.TrimSpace(a))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: -dump start: %v", errUsage, err)
	}
	to, err := strconv.Atoi(strings.TrimSpace(b))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: -dump end: %v", errUsage, err)
	}
	if from < 0 || to < from {
		return 0, 0, fmt.Errorf("%w: -dump range %d:%d is empty", errUsage, from, to)
	}
	return from, to, nil
}

func run(args []string, stdout, stderr io.Writer) error {
	o, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	kind, _ := world.ParseScenario(o.scenario)

	v, err := config.New(o.configPath)
	if err != nil {
		return err
	}
	cfg, err := config.Decode(v)
	if err != nil {
		return err
	}
	log := logging.New(stderr, cfg.Log.Level, cfg.Log.Console)

	var current atomic.Pointer[config.Config]
	current.Store(cfg)
	if o.watch {
		config.Watch(v, func(c *config.Config, err error) {
			if err != nil {
				log.Warn().Err(err).Msg("config reload rejected")
				return
			}
			current.Store(c)
			log.Info().Str("difficulty", c.Bot.Difficulty).Msg("config reloaded")
		})
	}

	var metrics *telemetry.Metrics
	if cfg.Metrics.Enabled {
		if metrics, err = telemetry.New(); err != nil {
			return err
		}
	}

	var jr *journal.Journal
	if cfg.Journal.Driver != "none" {
		jr, err = journal.Open(cfg.Journal.Driver, cfg.Journal.DSN, logging.Component(log, "journal"))
		if err != nil {
			return err
		}
		defer func() {
			if cerr := jr.Close(); cerr != nil {
				log.Warn().Err(cerr).Msg("closing journal")
			}
		}()
	}

	fmt.Fprintf(stdout, "=== Headless Round Report ===\n")
	fmt.Fprintf(stdout, "scenario=%s per_team=%d runs=%d ticks=%d seed_base=%d seed_step=%d\n\n",
		kind, o.perTeam, o.runs, o.ticks, o.seedBase, o.seedStep)

	ctx := context.Background()
	all := make([]runStats, 0, o.runs)
	for i := 0; i < o.runs; i++ {
		seed := o.seedBase + int64(i)*o.seedStep
		stats, err := runRound(ctx, i+1, seed, kind, o, current.Load(), log, metrics, jr)
		if err != nil {
			return err
		}
		all = append(all, stats)
		printRun(stdout, stats)
	}

	printAggregate(stdout, all)
	return nil
}

func runRound(ctx context.Context, runIndex int, seed int64, kind world.ScenarioKind, o options,
	cfg *config.Config, log zerolog.Logger, metrics *telemetry.Metrics, jr *journal.Journal,
) (runStats, error) {
	opts := append(sim.Standard(kind, o.perTeam),
		sim.WithSeed(seed),
		sim.WithConfig(cfg),
		sim.WithLogger(log.With().Int("run", runIndex).Logger()),
		sim.WithMetrics(metrics),
	)
	if jr != nil {
		opts = append(opts, sim.WithJournal(jr))
	}
	m, err := sim.NewMatch(opts...)
	if err != nil {
		return runStats{}, err
	}
	m.RunRound(o.ticks)
	if err := m.Close(ctx); err != nil {
		return runStats{}, err
	}

	rs := collectStats(m.SimLog)
	rs.runIndex = runIndex
	rs.seed = seed
	rs.ticks = m.Tick
	rs.winner = "none"
	if w, over := m.World.Winner(); over {
		rs.over = true
		rs.winner = w.String()
	}
	rs.attackersAlive = m.Alive(world.TeamAttackers)
	rs.defendersAlive = m.Alive(world.TeamDefenders)
	if o.dumpTo >= 0 {
		rs.dump = m.SimLog.FormatRange(o.dumpFrom, o.dumpTo)
	}
	return rs, nil
}

// collectStats reduces a round's SimLog to phase markers and totals.
func collectStats(sl *sim.SimLog) runStats {
	entries := sl.Entries()
	stuck := map[string]struct{}{}
	for _, e := range sl.Filter("path", "stuck") {
		stuck[e.Agent] = struct{}{}
	}
	lastDeath := -1
	if e, ok := sl.LastOf("combat", "death"); ok {
		lastDeath = e.Tick
	}
	return runStats{
		firstContactTick: firstTick(entries, "perception", "spotted", ""),
		firstAttackTick:  firstTick(entries, "combat", "attack", ""),
		firstDeathTick:   firstTick(entries, "combat", "death", ""),
		plantTick:        firstTick(entries, "world", "bomb_planted", ""),
		rescueTick:       firstTick(entries, "world", "hostage_rescued", ""),
		lastDeathTick:    lastDeath,
		defused:          sl.HasEntry("world", "bomb_defused", ""),
		exploded:         sl.HasEntry("world", "bomb_exploded", ""),
		stateChanges:     len(sl.Filter("state", "")) - sl.CountCategory("state", "interrupt"),
		interrupts:       sl.CountCategory("state", "interrupt"),
		contacts:         sl.CountCategory("perception", "spotted"),
		deaths:           sl.CountCategory("combat", "death"),
		phrases:          sl.CountCategory("chatter", "say"),
		pathsComputed:    sl.CountCategory("path", "computed"),
		stuckEvents:      sl.CountCategory("path", "stuck"),
		phraseCounts:     sl.Tally("chatter", "say"),
		stuck:            stuck,
	}
}

func firstTick(entries []sim.SimLogEntry, category, key, contains string) int {
	for _, e := range entries {
		if e.Category != category || e.Key != key {
			continue
		}
		if contains == "" || strings.Contains(e.Value, contains) {
			return e.Tick
		}
	}
	return -1
}

func printRun(w io.Writer, rs runStats) {
	fmt.Fprintf(w, "--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Fprintf(w, "result: winner=%s over=%t ticks=%d attackers_alive=%d defenders_alive=%d\n",
		rs.winner, rs.over, rs.ticks, rs.attackersAlive, rs.defendersAlive)
	fmt.Fprintf(w, "phase_markers: contact=%d attack=%d first_death=%d last_death=%d plant=%d rescue=%d\n",
		rs.firstContactTick, rs.firstAttackTick, rs.firstDeathTick, rs.lastDeathTick, rs.plantTick, rs.rescueTick)
	fmt.Fprintf(w, "bomb: defused=%t exploded=%t\n", rs.defused, rs.exploded)
	fmt.Fprintf(w, "event_totals: state_change=%d interrupt=%d contact=%d death=%d path=%d stuck=%d\n",
		rs.stateChanges, rs.interrupts, rs.contacts, rs.deaths, rs.pathsComputed, rs.stuckEvents)
	fmt.Fprintf(w, "chatter: phrases=%d top=%s\n", rs.phrases, topKey(rs.phraseCounts))
	fmt.Fprintf(w, "stuck_agents: %s\n", joinSet(rs.stuck))
	if rs.dump != "" {
		fmt.Fprintf(w, "log:\n%s", rs.dump)
	}
	fmt.Fprintln(w)
}

func printAggregate(w io.Writer, all []runStats) {
	totalState := 0
	totalInterrupt := 0
	totalContact := 0
	totalDeath := 0
	totalPhrases := 0
	totalPaths := 0
	totalStuck := 0

	contactTicks := make([]int, 0, len(all))
	attackTicks := make([]int, 0, len(all))
	deathTicks := make([]int, 0, len(all))
	plantTicks := make([]int, 0, len(all))
	wins := map[string]int{}
	phrases := map[string]int{}
	stuckGlobal := map[string]struct{}{}

	for _, rs := range all {
		totalState += rs.stateChanges
		totalInterrupt += rs.interrupts
		totalContact += rs.contacts
		totalDeath += rs.deaths
		totalPhrases += rs.phrases
		totalPaths += rs.pathsComputed
		totalStuck += rs.stuckEvents
		if rs.firstContactTick >= 0 {
			contactTicks = append(contactTicks, rs.firstContactTick)
		}
		if rs.firstAttackTick >= 0 {
			attackTicks = append(attackTicks, rs.firstAttackTick)
		}
		if rs.firstDeathTick >= 0 {
			deathTicks = append(deathTicks, rs.firstDeathTick)
		}
		if rs.plantTick >= 0 {
			plantTicks = append(plantTicks, rs.plantTick)
		}
		wins[rs.winner]++
		for p, n := range rs.phraseCounts {
			phrases[p] += n
		}
		for name := range rs.stuck {
			stuckGlobal[name] = struct{}{}
		}
	}

	fmt.Fprintln(w, "=== Aggregate ===")
	fmt.Fprintf(w, "runs=%d\n", len(all))
	fmt.Fprintf(w, "wins: attackers=%d defenders=%d none=%d\n", wins["attackers"], wins["defenders"], wins["none"])
	fmt.Fprintf(w, "avg_events_per_run: state_change=%.1f interrupt=%.1f contact=%.1f death=%.1f phrases=%.1f path=%.1f stuck=%.1f\n",
		avg(totalState, len(all)), avg(totalInterrupt, len(all)), avg(totalContact, len(all)), avg(totalDeath, len(all)),
		avg(totalPhrases, len(all)), avg(totalPaths, len(all)), avg(totalStuck, len(all)))
	fmt.Fprintf(w, "phase_marker_avg_ticks: first_contact=%s first_attack=%s first_death=%s plant=%s\n",
		avgTickString(contactTicks), avgTickString(attackTicks), avgTickString(deathTicks), avgTickString(plantTicks))
	fmt.Fprintf(w, "top_phrase=%s\n", topKey(phrases))
	fmt.Fprintf(w, "unique_stuck_agents=%d [%s]\n", len(stuckGlobal), joinSet(stuckGlobal))
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}

// topKey returns the most frequent key as "key(n)". Ties go to the
// alphabetically first key.
func topKey(counts map[string]int) string {
	if len(counts) == 0 {
		return "none"
	}
	best := ""
	bestN := 0
	for k, v := range counts {
		if v > bestN || (v == bestN && k < best) {
			best = k
			bestN = v
		}
	}
	return fmt.Sprintf("%s(%d)", best, bestN)
}

func joinSet(s map[string]struct{}) string {
	if len(s) == 0 {
		return "none"
	}
	labels := make([]string, 0, len(s))
	for k := range s {
		labels = append(labels, k)
	}
	sort.Strings(labels)
	return strings.Join(labels, ",")
}
