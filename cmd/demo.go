package cmd

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/KaramelBytes/shirtstats/internal/algo"
	"github.com/spf13/cobra"
)

var (
	demoSearchList   []int
	demoSearchTarget int
	demoDigits       int
	demoFibN         int
	demoSeed         uint64
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the algorithm demos: recursive search, random binary, Fibonacci sum",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if demoFibN > 93 {
			return fmt.Errorf("--fib-n %d overflows uint64 (max 93)", demoFibN)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "--- Algorithmic Questions ---")

		fmt.Fprintln(out, "7. Recursive Search:")
		fmt.Fprintf(out, "   Searching for %d in %s\n", demoSearchTarget, formatInts(demoSearchList))
		if idx := algo.RecursiveSearch(demoSearchList, demoSearchTarget); idx != -1 {
			fmt.Fprintf(out, "   -> Found at index: %d\n", idx)
		} else {
			fmt.Fprintln(out, "   -> Not found.")
		}

		seed := demoSeed
		if !cmd.Flags().Changed("seed") {
			seed = uint64(time.Now().UnixNano())
		}
		r := rand.New(rand.NewPCG(seed, seed>>1|1))
		bin, dec := algo.RandomBinary(r, demoDigits)
		fmt.Fprintln(out, "\n8. Random Binary to Decimal Conversion:")
		fmt.Fprintf(out, "   Random %d-digit binary: %s\n", len(bin), bin)
		fmt.Fprintf(out, "   -> Converted to decimal (base 10): %d\n", dec)

		fmt.Fprintf(out, "\n9. Sum of the first %d Fibonacci numbers:\n", demoFibN)
		fmt.Fprintf(out, "   -> The sum is: %d\n", algo.SumFibonacci(demoFibN))
		return nil
	},
}

func formatInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = strconv.Itoa(x)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func init() {
	rootCmd.AddCommand(demoCmd)
	demoCmd.Flags().IntSliceVar(&demoSearchList, "search-list", []int{10, 25, 8, 42, 15, 30, 5}, "list searched by the recursive search demo")
	demoCmd.Flags().IntVar(&demoSearchTarget, "search-target", 42, "value to search for")
	demoCmd.Flags().IntVar(&demoDigits, "digits", 4, "number of random binary digits")
	demoCmd.Flags().IntVar(&demoFibN, "fib-n", 50, "how many Fibonacci numbers to sum")
	demoCmd.Flags().Uint64Var(&demoSeed, "seed", 0, "random seed for the binary demo (default: time-based)")
}
