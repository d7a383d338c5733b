// nion is the CLI front end of the orchestration engine. It reads
// messages from JSON files (one-shot or via an inbox watcher), runs each
// through the three-layer pipeline, and prints the orchestration map.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"nion/internal/articulation"
	"nion/internal/audit"
	"nion/internal/capability"
	"nion/internal/config"
	"nion/internal/coordinator"
	"nion/internal/engine"
	"nion/internal/inbox"
	"nion/internal/knowledge"
	"nion/internal/perception"
	"nion/internal/planner"
	"nion/internal/registry"
	"nion/internal/report"
	"nion/internal/types"
)

// Version is set via -ldflags at release time.
var Version = "dev"

var (
	verbose    bool
	configPath string
	apiKey     string
	parallel   bool

	logger *zap.Logger
	cfg    *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "nion",
	Short: "nion - hierarchical message orchestration engine",
	Long: `nion decomposes inbound messages into layered task plans and
executes them through domain coordinators and capability agents.

Messages are JSON files; pass one to "nion process" or drop them into a
watched inbox with "nion watch".`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if apiKey != "" {
			cfg.LLM.APIKey = apiKey
		}
		if parallel {
			cfg.Parallel = true
		}

		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		} else if lvl, err := zapcore.ParseLevel(cfg.Logging.Level); err == nil {
			zcfg.Level = zap.NewAtomicLevelAt(lvl)
		}

		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var processCmd = &cobra.Command{
	Use:   "process <message.json>",
	Short: "Process a single message file and print the orchestration map",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		app, err := buildApp(ctx)
		if err != nil {
			return err
		}
		defer app.close()

		return app.processFile(ctx, args[0])
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Watch a directory and process every dropped *.json message",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		app, err := buildApp(ctx)
		if err != nil {
			return err
		}
		defer app.close()

		w, err := inbox.New(args[0], func(path string) {
			if err := app.processFile(ctx, path); err != nil {
				logger.Error("message processing failed",
					zap.String("path", path), zap.Error(err))
			}
		}, logger)
		if err != nil {
			return err
		}

		if err := w.Run(ctx); err != nil && ctx.Err() == nil {
			return err
		}
		return nil
	},
}

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List the projects in the knowledge store",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		records, err := store.All()
		if err != nil {
			return err
		}
		for _, rec := range records {
			fmt.Printf("%-12s release %-14s progress %3d%%  capacity %3d%%  lead %s\n",
				rec.ID, rec.ReleaseDate, rec.Progress, rec.Capacity, rec.TechLead)
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the nion version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("nion %s\n", Version)
	},
}

// app bundles the wired pipeline for one CLI invocation.
type app struct {
	engine *engine.Engine
	store  knowledge.Store
	trail  *audit.Trail
}

func buildApp(ctx context.Context) (*app, error) {
	store, err := openStore()
	if err != nil {
		return nil, err
	}

	var trail *audit.Trail
	if cfg.DataDir != "" {
		trail, err = audit.Open(filepath.Join(cfg.DataDir, "audit.jsonl"))
		if err != nil {
			store.Close()
			return nil, err
		}
	}

	var classifier perception.Classifier = perception.NewRuleClassifier()
	var synth articulation.Synthesizer
	if cfg.LLM.APIKey != "" {
		gc, err := perception.NewGeminiClassifier(ctx, cfg.LLM.APIKey, cfg.LLM.Model, logger)
		if err != nil {
			store.Close()
			return nil, err
		}
		classifier = gc

		gs, err := articulation.NewGeminiSynthesizer(ctx, cfg.LLM.APIKey, cfg.LLM.Model, logger)
		if err != nil {
			store.Close()
			return nil, err
		}
		synth = gs
	}

	retrieval := capability.NewKnowledgeRetrieval(store,
		rand.New(rand.NewSource(time.Now().UnixNano())), logger)
	coords := coordinator.NewSet(registry.New(), capability.NewQnA(synth), logger)

	var opts []engine.Option
	if cfg.Parallel {
		opts = append(opts, engine.WithParallel())
	}

	return &app{
		engine: engine.New(planner.New(classifier, logger), coords, retrieval, logger, opts...),
		store:  store,
		trail:  trail,
	}, nil
}

func (a *app) close() {
	if a.trail != nil {
		_ = a.trail.Close()
	}
	if a.store != nil {
		_ = a.store.Close()
	}
}

func (a *app) processFile(ctx context.Context, path string) error {
	msg, err := readMessage(path)
	if err != nil {
		return err
	}
	if a.trail != nil {
		a.trail.MessageReceived(msg)
	}

	result, err := a.engine.ProcessMessage(ctx, msg)
	if err != nil {
		if a.trail != nil {
			a.trail.Failure(msg.ID, err)
		}
		return err
	}
	if a.trail != nil {
		a.trail.Result(result)
	}

	fmt.Println(report.Render(result))
	return nil
}

func readMessage(path string) (*types.Message, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read message: %w", err)
	}

	var msg types.Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("parse message %s: %w", path, err)
	}
	if msg.ID == "" {
		msg.ID = "MSG-" + uuid.NewString()[:8]
	}
	return &msg, nil
}

func openStore() (knowledge.Store, error) {
	if cfg.DataDir == "" {
		return knowledge.NewMemoryStore(), nil
	}
	return knowledge.Open(cfg.DataDir)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.nion/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY)")
	rootCmd.PersistentFlags().BoolVar(&parallel, "parallel", false, "execute independent tasks concurrently")

	rootCmd.AddCommand(processCmd, watchCmd, projectsCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
