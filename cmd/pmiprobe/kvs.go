package main

import (
	"fmt"

	"github.com/flux-framework/pmi-go/pkg/pmi/bootstrap"
	"github.com/spf13/cobra"
)

var kvsCmd = &cobra.Command{
	Use:   "kvs",
	Args:  cobra.ExactArgs(0),
	Short: "Exercise KVS put/commit/barrier/get against the selected backend",
	RunE:  runKVS,
}

func init() {
	kvsCmd.Flags().String("put", "", "key=value pair to put before the barrier")
	kvsCmd.Flags().String("get", "", "key to fetch after the barrier")
}

func runKVS(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := newLogger(cfg)

	d, err := bootstrap.New(bootstrap.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("bootstrap failed: %w", err)
	}
	defer d.Destroy()

	if status := d.Init(); !status.OK() {
		return fmt.Errorf("init failed: %s", status)
	}
	params, status := d.GetParams()
	if !status.OK() {
		return fmt.Errorf("get_params failed: %s", status)
	}

	putArg, _ := cmd.Flags().GetString("put")
	if putArg != "" {
		key, value, ok := splitKV(putArg)
		if !ok {
			return fmt.Errorf("--put must be key=value, got %q", putArg)
		}
		if status := d.KVSPut(params.KVSName, key, value); !status.OK() {
			return fmt.Errorf("put failed: %s", status)
		}
		if status := d.KVSCommit(params.KVSName); !status.OK() {
			return fmt.Errorf("commit failed: %s", status)
		}
	}

	if status := d.Barrier(); !status.OK() {
		return fmt.Errorf("barrier failed: %s", status)
	}

	getKey, _ := cmd.Flags().GetString("get")
	if getKey != "" {
		buf := make([]byte, 4096)
		if status := d.KVSGet(params.KVSName, getKey, buf); !status.OK() {
			return fmt.Errorf("get failed: %s", status)
		}
		fmt.Printf("%s=%s\n", getKey, cString(buf))
	}

	if status := d.Finalize(); !status.OK() {
		return fmt.Errorf("finalize failed: %s", status)
	}
	return nil
}

func splitKV(s string) (string, string, bool) {
	for i := 0; i < len(s); i++ {
		if s[i] == '=' {
			return s[:i], s[i+1:], true
		}
	}
	return "", "", false
}

func cString(buf []byte) string {
	for i, c := range buf {
		if c == 0 {
			return string(buf[:i])
		}
	}
	return string(buf)
}
