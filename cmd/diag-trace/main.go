package main

// diag-trace attaches to a running Neovim and prints the diagnostic set the
// adapter would forward to the renderer, grouped by originating tool and
// optionally narrowed to a cursor line. For debugging.

import (
	"fmt"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/neovim/go-client/nvim"
	"github.com/spf13/cobra"

	"diaglines/internal/diaglines"
)

const version = "0.1.0"

var severityColors = map[diaglines.Severity]*color.Color{
	diaglines.SeverityError:   color.New(color.FgRed),
	diaglines.SeverityWarning: color.New(color.FgYellow),
	diaglines.SeverityInfo:    color.New(color.FgBlue),
	diaglines.SeverityHint:    color.New(color.FgCyan),
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		serverAddr string
		buf        int
		line       int
		atCursor   bool
	)

	root := &cobra.Command{
		Use:   "diag-trace",
		Short: "Dump the diagnostics a running Neovim holds for a buffer",
		Long: "diag-trace connects to a running Neovim instance and prints its\n" +
			"diagnostics in the normalized shape the line annotation adapter\n" +
			"forwards to the renderer.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			addr := serverAddr
			if addr == "" {
				addr = os.Getenv("NVIM")
			}
			if addr == "" {
				addr = os.Getenv("NVIM_LISTEN_ADDRESS")
			}
			if addr == "" {
				return fmt.Errorf("no server address: pass --server or run inside :terminal")
			}
			return run(addr, buf, line, atCursor)
		},
	}

	root.Flags().StringVar(&serverAddr, "server", "", "Neovim RPC socket (defaults to $NVIM)")
	root.Flags().IntVar(&buf, "buf", 0, "buffer id (0 = current buffer)")
	root.Flags().IntVar(&line, "line", 0, "narrow to this one-based line")
	root.Flags().BoolVar(&atCursor, "cursor", false, "narrow to the focused cursor line")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the diag-trace version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("diag-trace", version)
		},
	})

	return root
}

func run(addr string, buf, line int, atCursor bool) error {
	v, err := nvim.Dial(addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer v.Close()

	host := diaglines.NewNvimHost(v, diaglines.DefaultConfig().RenderModule)

	if buf == 0 {
		buf, err = host.CurrentBuffer()
		if err != nil {
			return err
		}
	}

	grouped, err := host.Diagnostics(buf)
	if err != nil {
		return err
	}

	if atCursor && line == 0 {
		line, err = host.CursorLine()
		if err != nil {
			return err
		}
	}

	if line > 0 {
		set := diaglines.FilterLine(diaglines.Normalize(diaglines.Flatten(grouped)), line)
		fmt.Printf("buf %d, line %d: would render %d diagnostic(s)\n", buf, line, len(set))
		for _, d := range set {
			printDiagnostic(d)
		}
		return nil
	}

	total := 0
	sources := make([]string, 0, len(grouped))
	for src := range grouped {
		sources = append(sources, src)
		total += len(grouped[src])
	}
	sort.Strings(sources)

	fmt.Printf("buf %d: %d diagnostic(s) from %d source(s)\n", buf, total, len(sources))
	for _, src := range sources {
		fmt.Printf("\n%s (%d):\n", src, len(grouped[src]))
		for _, d := range diaglines.Normalize(grouped[src]) {
			printDiagnostic(d)
		}
	}
	return nil
}

func printDiagnostic(d diaglines.Diagnostic) {
	label := d.Severity.String()
	if c, ok := severityColors[d.Severity]; ok {
		label = c.Sprint(label)
	}
	fmt.Printf("  [%s] %d:%d–%d:%d %s\n",
		label,
		d.Range.Start.Line+1, d.Range.Start.Character,
		d.Range.End.Line+1, d.Range.End.Character,
		d.Message)
}
