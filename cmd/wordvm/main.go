// Package main provides the entry point for wordvm, a register VM whose
// addressable unit is a 64-bit word.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"wordvm/emu"
	"wordvm/loader"
	"wordvm/mem"
	"wordvm/timing"
	"wordvm/timing/cache"
	"wordvm/timing/latency"
)

var (
	memWords   uint64
	profile    bool
	configPath string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "wordvm [flags] FILE",
		Short: "Execute a word-machine bytecode image (\"-\" reads the image from stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0])
		},
		SilenceUsage: true,
	}

	rootCmd.Flags().Uint64VarP(&memWords, "bytes", "b", 64*1024*1024,
		"memory size in 64-bit words (the vm byte)")
	rootCmd.Flags().BoolVar(&profile, "profile", false,
		"estimate cycle counts and print a timing report")
	rootCmd.Flags().StringVar(&configPath, "timing-config", "",
		"path to timing configuration JSON file")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "wordvm: %v\n", err)
		os.Exit(1)
	}
}

func run(path string) error {
	image := os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		image = f
	}

	if memWords <= loader.LoadAddress {
		return fmt.Errorf("memory of %d words leaves no room above the load address", memWords)
	}

	arena, err := mem.NewArena(int(memWords))
	if err != nil {
		return err
	}
	words := arena.Words()

	imglen, err := loader.Load(image, words)
	if err != nil {
		return err
	}

	var opts []emu.MachineOption
	var est *timing.Estimator
	if profile {
		config := latency.DefaultTimingConfig()
		if configPath != "" {
			config, err = latency.LoadConfig(configPath)
			if err != nil {
				return err
			}
		}
		if err := config.Validate(); err != nil {
			return err
		}
		dcache := cache.New(cache.DefaultDataConfig(), &cache.TrafficCounter{})
		est = timing.NewEstimator(latency.NewTableWithConfig(config), dcache)
		opts = append(opts, emu.WithObserver(est))
	}

	m := emu.NewMachine(words, opts...)
	m.ImgLen = imglen
	emu.BindStdlib(m)
	m.URegs[emu.PC] = loader.LoadAddress

	ret := m.Execute()

	if est != nil {
		printReport(path, ret, est)
	}

	_ = arena.Release()
	os.Exit(int(uint8(ret)))
	return nil
}

func printReport(path string, ret uint64, est *timing.Estimator) {
	stats := est.CacheStats()
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "Program: %s\n", path)
	fmt.Fprintf(os.Stderr, "Stop value: %d\n", ret)
	fmt.Fprintf(os.Stderr, "Total Instructions: %d\n", est.Instructions())
	fmt.Fprintf(os.Stderr, "Total Cycles: %d\n", est.Cycles())
	fmt.Fprintf(os.Stderr, "CPI: %.2f\n", est.CPI())
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "Data cache:\n")
	fmt.Fprintf(os.Stderr, "  Hits:       %d\n", stats.Hits)
	fmt.Fprintf(os.Stderr, "  Misses:     %d\n", stats.Misses)
	fmt.Fprintf(os.Stderr, "  Evictions:  %d\n", stats.Evictions)
	fmt.Fprintf(os.Stderr, "  Writebacks: %d\n", stats.Writebacks)
}
