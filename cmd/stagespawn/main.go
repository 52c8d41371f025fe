package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/l1jgo/stagespawn/internal/config"
	"github.com/l1jgo/stagespawn/internal/core/event"
	"github.com/l1jgo/stagespawn/internal/data"
	"github.com/l1jgo/stagespawn/internal/director"
	"github.com/l1jgo/stagespawn/internal/persist"
	"github.com/l1jgo/stagespawn/internal/scripting"
	"github.com/l1jgo/stagespawn/internal/stage"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Display helpers ───────────────────────────────────────────────

func printBanner() {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m             stagespawn  v0.1.0            \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m    stage interactable population runner   \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printWarn(msg string) {
	fmt.Printf("  \033[33m!\033[0m %s\n", msg)
}

// ── Runner ────────────────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/stagespawn.toml"
	if p := os.Getenv("STAGESPAWN_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Load data tables
	printSection("Data")
	tbl, err := data.LoadStageTable(cfg.Data.StageList)
	if err != nil {
		return fmt.Errorf("load stage list: %w", err)
	}
	printStat("Spawn cards", tbl.CardCount())
	printStat("Stages", tbl.Count())

	rules, err := data.LoadModifierRules(cfg.Data.ModifierRules, tbl)
	if err != nil {
		return fmt.Errorf("load modifier rules: %w", err)
	}
	printStat("Modifier rules", len(rules))

	// 4. Modifier registry
	printSection("Modifiers")
	registry := stage.NewRegistry(log)
	stage.RegisterRules(registry, rules, tbl)

	if cfg.Scripting.Enabled {
		engine, err := scripting.NewEngine(cfg.Scripting.Dir, registry, tbl, log)
		if err != nil {
			return fmt.Errorf("init scripting: %w", err)
		}
		defer engine.Close()
		printStat("Lua modifiers", len(engine.Modifiers()))
	}
	printStat("Registered", registry.Len())

	// 5. Run history
	var runs *persist.RunRepo
	if cfg.Database.Enabled {
		printSection("Database")
		db, err := persist.NewDB(ctx, cfg.Database, log)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer db.Close()
		version, err := persist.RunMigrations(ctx, db.Pool, log)
		if err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		runs = persist.NewRunRepo(db)
		printStat("Schema version", int(version))
	}

	// 6. Event bus
	bus := event.NewBus()
	var current *persist.RunRow

	event.Subscribe(bus, func(e event.ModifierFailed) {
		printWarn(fmt.Sprintf("%s: modifier %s (priority %d) failed: %s", e.Stage, e.Modifier, e.Priority, e.Err))
	})
	event.Subscribe(bus, func(e event.CycleCompleted) {
		if current == nil {
			return
		}
		current.ModifiersRun = e.Modifiers
		current.ModifierFailure = e.ModifierFailure
		current.RegularChoices = e.RegularChoices
		current.Phases = []event.PhaseSummary{e.Early, e.Late}

		if runs == nil {
			return
		}
		saveCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := runs.Save(saveCtx, current); err != nil {
			log.Error("save population run", zap.String("stage", e.Stage), zap.Error(err))
		}
	})

	adapter := stage.NewAdapter(registry, bus, log)

	// 7. Populate
	names := cfg.Director.Stages
	if len(names) == 0 {
		names = tbl.StageNames()
	}
	seed := cfg.Director.Seed
	if seed == 0 {
		seed = rand.Int63()
	}

	for stageIdx, name := range names {
		def := tbl.Stage(name)
		if def == nil {
			return fmt.Errorf("unknown stage %q", name)
		}
		info, err := director.NewStageInfo(tbl, def, cfg.Director.StageClearCount, cfg.Director.Unlocks)
		if err != nil {
			return fmt.Errorf("stage %s: %w", name, err)
		}

		printSection(name)
		for cycle := 1; cycle <= cfg.Director.Cycles; cycle++ {
			if ctx.Err() != nil {
				log.Info("interrupted", zap.String("stage", name), zap.Int("cycle", cycle))
				return nil
			}

			info.InteractableCredit = def.InteractableCredit
			info.MonsterCredit = def.MonsterCredit
			cycleSeed := runSeed(seed, stageIdx, cfg.Director.Cycles, cycle)

			d := director.New(info, director.Options{
				Seed:                  cycleSeed,
				DifficultyCoefficient: cfg.Director.DifficultyCoefficient,
			}, log)
			res := d.Populate(adapter)

			current = &persist.RunRow{
				ID:          uuid.New(),
				Stage:       name,
				Cycle:       cycle,
				Seed:        cycleSeed,
				Budgeted:    res.Budgeted,
				CreditSpent: res.CreditSpent,
			}
			bus.SwapBuffers()
			bus.DispatchAll()

			early, late := adapter.LastReports()
			printStat(fmt.Sprintf("cycle %d placed", cycle), len(res.Placed))
			log.Debug("cycle complete",
				zap.String("run", current.ID.String()),
				zap.Int("budgeted", res.Budgeted),
				zap.Int("early_placed", early.Placed),
				zap.Int("late_placed", late.Placed),
			)
			current = nil
		}
	}

	printOK("population complete")
	return nil
}

// runSeed gives every (stage, cycle) pair of a run its own seed, derived
// from the base seed so the whole run replays from it.
func runSeed(base int64, stageIdx, cycles, cycle int) int64 {
	return base + int64(stageIdx)*int64(cycles) + int64(cycle-1)
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
