package main

import (
	"fmt"
	"net/http"

	"github.com/flux-framework/pmi-go/pkg/pmi/bootstrap"
	"github.com/flux-framework/pmi-go/pkg/pmimetrics"
	"github.com/spf13/cobra"
)

var serveMetricsCmd = &cobra.Command{
	Use:   "serve-metrics",
	Args:  cobra.NoArgs,
	Short: "Run the Factory once behind an HTTP /metrics endpoint",
	Long: `Bootstraps a backend, registers a pmimetrics.Observer on its Dispatcher,
and serves /metrics until interrupted. Every Init/GetParams/KVSPut/
KVSCommit/KVSGet/Barrier/Finalize call made through the returned
Dispatcher increments the pmi_operations_total counter.`,
	RunE: runServeMetrics,
}

func runServeMetrics(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := newLogger(cfg)
	observer := pmimetrics.NewObserver()

	d, err := bootstrap.New(bootstrap.WithLogger(logger), bootstrap.WithObserver(observer))
	if err != nil {
		return fmt.Errorf("bootstrap failed: %w", err)
	}
	defer d.Destroy()

	if status := d.Init(); !status.OK() {
		return fmt.Errorf("init failed: %s", status)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", observer.Handler())

	fmt.Printf("mode: %s\n", d.Mode())
	fmt.Printf("serving metrics on %s\n", cfg.Metrics.ListenAddr)
	return http.ListenAndServe(cfg.Metrics.ListenAddr, mux)
}
