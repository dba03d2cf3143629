package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rv32emu/rv32emu/config"
	"github.com/rv32emu/rv32emu/emu"
	"github.com/rv32emu/rv32emu/loader"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "rv32emu: %v\n", err)
		return 1
	}

	var (
		dump     bool
		logLevel string
		memory   uint32
	)

	exitCode := 0

	rootCmd := &cobra.Command{
		Use:   "rv32emu FILE",
		Short: "Run a statically linked RV32I/RV32M ELF executable",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logrus.New()
			level, err := logrus.ParseLevel(logLevel)
			if err != nil {
				return fmt.Errorf("invalid --log-level %q: %w", logLevel, err)
			}
			log.SetLevel(level)

			prog, err := loader.Load(args[0])
			if err != nil {
				exitCode = 1
				return err
			}

			m := emu.NewMachine(emu.WithMemorySize(memory), emu.WithLogger(log))
			if err := m.Load(prog); err != nil {
				exitCode = 1
				return err
			}

			if dump {
				m.Dump(os.Stdout)
				return nil
			}

			exitCode = int(m.Run())
			return nil
		},
	}

	rootCmd.Flags().BoolVarP(&dump, "dump", "D", false, "print the register file after load and exit, without executing")
	rootCmd.Flags().StringVarP(&logLevel, "log-level", "l", cfg.Execution.DefaultLogLevel, "error|warn|info|debug|trace")
	rootCmd.Flags().Uint32VarP(&memory, "memory", "m", uint32(cfg.Execution.MemorySize), "guest memory size in bytes")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "rv32emu: %v\n", err)
		if exitCode == 0 {
			exitCode = 1
		}
	}

	return exitCode
}
