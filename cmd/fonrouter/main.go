package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/fonlabs/fonrouter/pkg/aiprovider"
	"github.com/fonlabs/fonrouter/pkg/config"
	"github.com/fonlabs/fonrouter/pkg/executor"
	"github.com/fonlabs/fonrouter/pkg/fundctx"
	"github.com/fonlabs/fonrouter/pkg/fundstore"
	"github.com/fonlabs/fonrouter/pkg/handlers"
	"github.com/fonlabs/fonrouter/pkg/orchestrator"
	"github.com/fonlabs/fonrouter/pkg/registry"
	"github.com/fonlabs/fonrouter/pkg/router"
)

var (
	configFile string
	verbose    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "fonrouter",
		Short: "Natural-language question routing for TEFAS mutual funds",
		Long: `Fonrouter answers Turkish mutual-fund questions by classifying them
	against a registry of analyzers (performance, scenarios, metrics,
	portfolio planning) and dispatching to the matching handlers.`,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(askCmd())
	rootCmd.AddCommand(routesCmd())
	rootCmd.AddCommand(statusCmd())
	rootCmd.AddCommand(replCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).With().Timestamp().Logger()
}

func loadConfig() (*config.Config, error) {
	if configFile != "" {
		return config.LoadFile(configFile)
	}
	return config.Load()
}

// stack bundles the assembled components for the CLI commands.
type stack struct {
	cfg      *config.Config
	store    *fundstore.SQLiteStore
	provider *aiprovider.Provider
	reg      *registry.Registry
	router   *router.Router
	orch     *orchestrator.Orchestrator
	log      zerolog.Logger
}

func (s *stack) Close() {
	if s.store != nil {
		s.store.Close()
	}
}

func buildStack(ctx context.Context) (*stack, error) {
	log := newLogger()

	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	store, err := fundstore.OpenSQLite(cfg.FundDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open fund store: %w", err)
	}

	provider := createProvider(cfg, log)

	reg := registry.New()
	if err := handlers.RegisterAll(reg, handlers.Deps{
		Store:    store,
		Provider: provider,
		Log:      log,
	}); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to register handlers: %w", err)
	}
	reg.Seal()

	routerOpts := []router.RouterOption{
		router.WithRouterLogger(log),
		router.WithCacheCapacity(cfg.RouterCacheCapacity),
		router.WithSemanticThreshold(cfg.SemanticThreshold),
	}
	if provider != nil && cfg.EnableLLMRouting {
		routerOpts = append(routerOpts, router.WithProvider(provider))
	}
	if cfg.EnableSemanticRouting && cfg.GoogleAPIKey != "" {
		if idx, err := buildSemanticIndex(ctx, cfg, reg); err != nil {
			log.Warn().Err(err).Msg("semantic routing unavailable")
		} else {
			routerOpts = append(routerOpts, router.WithSemanticIndex(idx))
		}
	}

	r := router.NewRouter(reg, fundctx.NewExtractor(log), routerOpts...)
	exec := executor.New(reg, executor.WithTimeout(cfg.HandlerTimeout), executor.WithLogger(log))
	orch := orchestrator.New(r, exec, reg, orchestrator.WithLogger(log))

	return &stack{
		cfg:      cfg,
		store:    store,
		provider: provider,
		reg:      reg,
		router:   r,
		orch:     orch,
		log:      log,
	}, nil
}

func buildSemanticIndex(ctx context.Context, cfg *config.Config, reg *registry.Registry) (*router.SemanticIndex, error) {
	engine, err := router.NewGenaiEmbedder(ctx, cfg.GoogleAPIKey, cfg.EmbeddingModel)
	if err != nil {
		return nil, err
	}
	return router.BuildSemanticIndex(ctx, engine, reg)
}

// createProvider wires the configured backends. A missing key just
// removes that backend; with no keys at all the router runs without
// LLM fallback.
func createProvider(cfg *config.Config, log zerolog.Logger) *aiprovider.Provider {
	var backends []aiprovider.Backend
	if cfg.AnthropicAPIKey != "" {
		if b, err := aiprovider.NewAnthropicBackend(cfg.AnthropicAPIKey, cfg.AnthropicModel); err == nil {
			backends = append(backends, b)
		}
	}
	if cfg.OpenAIAPIKey != "" {
		if b, err := aiprovider.NewOpenAIBackend(cfg.OpenAIAPIKey, cfg.OpenAIModel); err == nil {
			backends = append(backends, b)
		}
	}
	if cfg.GoogleAPIKey != "" {
		if b, err := aiprovider.NewGoogleBackend(cfg.GoogleAPIKey, cfg.GoogleModel); err == nil {
			backends = append(backends, b)
		}
	}
	if len(backends) == 0 {
		log.Warn().Msg("no AI backend configured, LLM routing disabled")
		return nil
	}

	typ := aiprovider.ProviderPrimary
	switch cfg.AIProvider {
	case "secondary":
		typ = aiprovider.ProviderSecondary
	case "dual":
		typ = aiprovider.ProviderDual
	}
	if len(backends) < 2 && typ != aiprovider.ProviderPrimary {
		log.Warn().Str("mode", cfg.AIProvider).Msg("only one backend available, falling back to primary mode")
		typ = aiprovider.ProviderPrimary
	}

	var secondary aiprovider.Backend
	if len(backends) > 1 {
		secondary = backends[1]
	}
	p, err := aiprovider.NewProvider(typ, backends[0], secondary,
		aiprovider.WithFallback(cfg.AIFallback),
		aiprovider.WithTimeout(cfg.LLMTimeout),
		aiprovider.WithLogger(log))
	if err != nil {
		log.Warn().Err(err).Msg("failed to build AI provider")
		return nil
	}
	return p
}

func askCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask [soru]",
		Short: "Answer one fund question",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := buildStack(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			fmt.Println(s.orch.Answer(cmd.Context(), args[0]))
			return nil
		},
	}
}

func routesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routes [soru]",
		Short: "Show how a question would be classified, without executing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := buildStack(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			matches := s.orch.Routes(cmd.Context(), args[0])
			if len(matches) == 0 {
				fmt.Println("no routes matched")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "HANDLER\tMETHOD\tCONFIDENCE\tTYPE\tREASONING\tMULTI")
			for _, m := range matches {
				fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\t%s\t%v\n",
					m.Handler, m.Method, m.Confidence, m.MatchType, m.Reasoning, m.IsMultiHandler)
			}
			return w.Flush()
		},
	}
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show configured backends and registry state",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := buildStack(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			fmt.Printf("handlers registered: %d\n", len(s.reg.All()))
			fmt.Printf("route cache entries: %d\n", s.router.CacheLen())
			fmt.Printf("fund database: %s\n", s.cfg.FundDBPath)
			if s.provider == nil {
				fmt.Println("ai provider: not configured")
				return nil
			}
			st := s.provider.Status()
			fmt.Printf("ai provider: %s (primary=%s secondary=%s fallback=%v)\n",
				st.Type, st.Primary, valueOr(st.Secondary, "-"), st.Fallback)
			return nil
		},
	}
}

func replCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Interactive question loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := buildStack(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			fmt.Println("fonrouter repl — çıkmak için :q, önbelleği temizlemek için :cache")
			scanner := bufio.NewScanner(os.Stdin)
			for {
				fmt.Print("soru> ")
				if !scanner.Scan() {
					break
				}
				line := strings.TrimSpace(scanner.Text())
				switch line {
				case "":
					continue
				case ":q", ":quit", ":exit":
					return nil
				case ":cache":
					s.orch.ClearRouteCache()
					fmt.Println("route cache cleared")
					continue
				}
				fmt.Println(s.orch.Answer(cmd.Context(), line))
				fmt.Println()
			}
			return scanner.Err()
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load a small demo dataset into the fund store",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := buildStack(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			ctx := cmd.Context()
			demo := []fundstore.Fund{
				{Code: "TYH", Name: "Teknoloji Yoğun Hisse Fonu", Company: "İş Portföy", Type: "hisse", Beta: 1.3, Sharpe: 1.1, Volatility: 2.4},
				{Code: "AFT", Name: "Altın Fonu", Company: "Ak Portföy", Type: "kıymetli maden", Beta: 0.4, Sharpe: 1.6, Volatility: 1.1},
				{Code: "GPB", Name: "Garanti Para Piyasası", Company: "Garanti Portföy", Type: "para piyasası", Beta: 0.1, Sharpe: 2.2, Volatility: 0.2},
				{Code: "NNF", Name: "Dolar Eurobond Fonu", Company: "İş Portföy", Type: "döviz", Beta: 0.7, Sharpe: 1.4, Volatility: 1.3},
			}
			base := map[string]float64{"TYH": 4.2, "AFT": 18.5, "GPB": 1.05, "NNF": 9.7}
			drift := map[string]float64{"TYH": 0.015, "AFT": 0.008, "GPB": 0.002, "NNF": 0.006}

			for _, f := range demo {
				if err := s.store.UpsertFund(ctx, f); err != nil {
					return err
				}
				price := base[f.Code]
				for day := 60; day >= 0; day-- {
					date := time.Now().AddDate(0, 0, -day)
					if err := s.store.AddPrice(ctx, f.Code, date, price); err != nil {
						return err
					}
					price *= 1 + drift[f.Code]
				}
			}
			fmt.Printf("seeded %d funds with 61 days of prices into %s\n", len(demo), s.cfg.FundDBPath)
			return nil
		},
	}
}

func valueOr(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
