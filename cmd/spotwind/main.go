package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"spotwin/config"
	"spotwin/core/state"
	"spotwin/native/contest"
	"spotwin/native/staking"
	"spotwin/observability/logging"
	"spotwin/observability/metrics"
	"spotwin/storage"
)

func main() {
	configFile := flag.String("config", "./config.toml", "Path to the configuration file")
	flag.Parse()

	env := strings.TrimSpace(os.Getenv("SPOTWIN_ENV"))
	logger := logging.Setup("spotwind", env)

	cfg, err := config.Load(*configFile)
	if err != nil {
		logger.Error("Failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	db, err := storage.NewLevelDB(cfg.DataDir)
	if err != nil {
		logger.Error("Failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	manager := state.NewManager(db)
	if err := registerTokens(manager, cfg.Tokens); err != nil {
		logger.Error("Failed to register tokens", slog.Any("error", err))
		os.Exit(1)
	}

	contestEngine, stakingEngine, err := buildEngines(manager, cfg)
	if err != nil {
		logger.Error("Failed to build engines", slog.Any("error", err))
		os.Exit(1)
	}

	if err := stakingEngine.InitializePool(cfg.PoolMint); err != nil && !errors.Is(err, staking.ErrPoolExists) {
		logger.Error("Failed to initialize stake pool", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("Ledger core ready",
		slog.String("dataDir", cfg.DataDir),
		slog.String("poolMint", cfg.PoolMint),
		slog.Int("questionCount", int(cfg.QuestionCount)),
	)

	if err := serve(cfg.MetricsAddress, logger, contestEngine, stakingEngine); err != nil {
		logger.Error("Server failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func registerTokens(manager *state.Manager, tokens []config.TokenConfig) error {
	for _, token := range tokens {
		if _, err := manager.NormalizeToken(token.Symbol); err == nil {
			continue
		}
		meta := state.TokenMetadata{
			Symbol:   token.Symbol,
			Name:     token.Name,
			Decimals: token.Decimals,
		}
		if err := manager.RegisterToken(meta); err != nil {
			return fmt.Errorf("register token %s: %w", token.Symbol, err)
		}
	}
	return nil
}

func buildEngines(manager *state.Manager, cfg *config.Config) (*contest.Engine, *staking.Engine, error) {
	contestEngine := contest.NewEngine()
	contestEngine.SetState(manager)
	if err := contestEngine.SetParams(contest.Params{QuestionCount: cfg.QuestionCount}); err != nil {
		return nil, nil, err
	}
	contestEngine.SetPauses(cfg)
	contestEngine.SetMetrics(metrics.Contest())

	stakingEngine := staking.NewEngine()
	stakingEngine.SetState(manager)
	stakingEngine.SetParams(staking.Params{LockPeriodSlots: cfg.StakeLockPeriodSlots})
	stakingEngine.SetPauses(cfg)
	stakingEngine.SetMetrics(metrics.Staking())

	return contestEngine, stakingEngine, nil
}

type contestStatus struct {
	ID           uint64 `json:"id"`
	Status       string `json:"status"`
	TotalEntries uint32 `json:"totalEntries"`
	VaultBalance string `json:"vaultBalance"`
	PaidSoFar    string `json:"paidSoFar"`
}

type nodeStatus struct {
	StakePoolMint     string         `json:"stakePoolMint,omitempty"`
	StakeVaultBalance string         `json:"stakeVaultBalance,omitempty"`
	Contest           *contestStatus `json:"contest,omitempty"`
}

func statusHandler(contestEngine *contest.Engine, stakingEngine *staking.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := nodeStatus{}
		if pool, err := stakingEngine.Pool(); err == nil {
			status.StakePoolMint = pool.Mint
			if balance, balErr := stakingEngine.VaultBalance(); balErr == nil {
				status.StakeVaultBalance = balance.String()
			}
		}
		if raw := r.URL.Query().Get("contest"); raw != "" {
			id, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				http.Error(w, "invalid contest id", http.StatusBadRequest)
				return
			}
			c, err := contestEngine.Contest(id)
			if err != nil {
				http.Error(w, err.Error(), http.StatusNotFound)
				return
			}
			balance, err := contestEngine.VaultBalance(id)
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			status.Contest = &contestStatus{
				ID:           c.ID,
				Status:       c.Status.String(),
				TotalEntries: c.TotalEntries,
				VaultBalance: balance.String(),
				PaidSoFar:    c.PaidSoFar.String(),
			}
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(status); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

func serve(address string, logger *slog.Logger, contestEngine *contest.Engine, stakingEngine *staking.Engine) error {
	if strings.TrimSpace(address) == "" {
		address = ":9464"
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/status", statusHandler(contestEngine, stakingEngine))
	server := &http.Server{Addr: address, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Serving metrics", slog.String("address", address))
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case sig := <-stop:
		logger.Info("Shutting down", slog.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			return err
		}
	}
	return nil
}
