package main

import (
	"fmt"

	"github.com/flux-framework/pmi-go/pkg/pmi/bootstrap"
	"github.com/spf13/cobra"
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Args:  cobra.NoArgs,
	Short: "Run the bootstrap Factory and report the selected backend",
	RunE:  runProbe,
}

func init() {
	probeCmd.Flags().Bool("modern-only", false, "use the modern-dedicated probe (no wire, no legacy dlopen)")
}

func runProbe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := newLogger(cfg)

	modernOnly, _ := cmd.Flags().GetBool("modern-only")

	factoryFn := bootstrap.New
	if modernOnly {
		factoryFn = bootstrap.NewModernOnly
	}

	d, err := factoryFn(bootstrap.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("bootstrap failed: %w", err)
	}
	defer d.Destroy()

	status := d.Init()
	fmt.Printf("mode: %s\n", d.Mode())
	fmt.Printf("init: %s\n", status)
	if !status.OK() {
		return fmt.Errorf("init failed: %s", status)
	}

	params, status := d.GetParams()
	fmt.Printf("get_params: %s\n", status)
	if status.OK() {
		fmt.Printf("rank: %d\n", params.Rank)
		fmt.Printf("size: %d\n", params.Size)
		fmt.Printf("kvsname: %s\n", params.KVSName)
	}

	return nil
}
