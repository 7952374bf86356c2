package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"meta-swap/pkg/parser"
	"meta-swap/pkg/provider/oneclick"
	"meta-swap/pkg/providers"
)

var (
	filterChain  string
	filterSymbol string
)

var tokensCmd = &cobra.Command{
	Use:     "list-tokens",
	Aliases: []string{"tokens", "ls"},
	Short:   "List the tokens 1Click can route",
	Long: `List the tokens supported by the NEAR Intents 1Click API, the only
provider whose routes depend on a published token list.

You can filter tokens by blockchain or symbol.

Examples:
  meta-swap list-tokens
  meta-swap list-tokens --chain arbitrum
  meta-swap list-tokens --symbol USDC`,
	Run: runListTokens,
}

func init() {
	rootCmd.AddCommand(tokensCmd)

	tokensCmd.Flags().StringVar(&filterChain, "chain", "", "Filter by blockchain (1Click name, chain id or chain name)")
	tokensCmd.Flags().StringVar(&filterSymbol, "symbol", "", "Filter by token symbol")
}

func runListTokens(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	_, registry, closeFn := newAggregator()
	defer closeFn()

	client, ok := providers.OneClick(registry)
	if !ok {
		printError(fmt.Errorf("1Click provider is not available"))
		os.Exit(1)
	}

	s := startSpinner(" Fetching supported tokens...", jsonOutput)
	tokens, err := client.Tokens(cmd.Context())
	s.Stop()

	if err != nil {
		printError(err)
		os.Exit(1)
	}

	filtered := filterTokens(tokens, blockchainFilter(filterChain), filterSymbol)

	if jsonOutput {
		printJSON(filtered)
	} else {
		displayTokens(filtered)
	}
}

// blockchainFilter accepts 1Click names ("arb") as well as chain ids and names
func blockchainFilter(s string) string {
	if s == "" {
		return ""
	}
	if id, err := parser.ParseChain(s); err == nil {
		if name, ok := oneclick.Blockchain(id); ok {
			return name
		}
	}
	return s
}

func filterTokens(tokens []oneclick.Asset, blockchain, symbol string) []oneclick.Asset {
	filtered := make([]oneclick.Asset, 0, len(tokens))
	for _, token := range tokens {
		if blockchain != "" && !strings.EqualFold(token.Blockchain, blockchain) {
			continue
		}
		if symbol != "" && !strings.Contains(strings.ToUpper(token.Symbol), strings.ToUpper(symbol)) {
			continue
		}
		filtered = append(filtered, token)
	}
	return filtered
}

func displayTokens(tokens []oneclick.Asset) {
	if len(tokens) == 0 {
		fmt.Println("\nNo tokens found matching the criteria.")
		return
	}

	fmt.Println("\n" + strings.Repeat("=", 90))
	color.Green("                            SUPPORTED TOKENS")
	fmt.Println(strings.Repeat("=", 90))

	tokensByChain := make(map[string][]oneclick.Asset)
	for _, token := range tokens {
		tokensByChain[token.Blockchain] = append(tokensByChain[token.Blockchain], token)
	}

	chains := make([]string, 0, len(tokensByChain))
	for chain := range tokensByChain {
		chains = append(chains, chain)
	}
	sort.Strings(chains)

	for _, chain := range chains {
		color.Cyan("\n%s", strings.ToUpper(chain))
		fmt.Println(strings.Repeat("-", 90))

		for _, token := range tokensByChain[chain] {
			address := token.ContractAddress
			if address == "" {
				address = "native"
			}
			if len(address) > 44 {
				address = address[:41] + "..."
			}

			fmt.Printf("  %-10s  %2d decimals  %s\n",
				color.YellowString("%s", token.Symbol),
				token.Decimals,
				color.HiBlackString("%s", address))
		}
	}

	fmt.Println("\n" + strings.Repeat("=", 90))
	fmt.Printf("\nTotal: %d tokens across %d blockchains\n\n", len(tokens), len(chains))
}
