package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"meta-swap/config"
	"meta-swap/pkg/chain"
	"meta-swap/pkg/parser"
	"meta-swap/pkg/provider"
	"meta-swap/pkg/types"
)

var (
	quotePayer         string
	quoteReceiver      string
	quoteTestPayer     string
	quoteProviders     string
	quoteSlippage      int
	quoteReferrer      string
	quoteProject       string
	quoteDeadline      int64
	quoteDenyBridges   []string
	quoteDenyExchanges []string
	quoteGasOnDest     bool
	quoteDefaultChain  string
	quoteRaw           bool
	quoteAll           bool
)

var quoteCmd = &cobra.Command{
	Use:   "quote <amount> <token>[@chain] to <token>[@chain]",
	Short: "Find the best route for a conversion",
	Long: `Ask every configured provider for the conversion and print the best route.

Tokens are symbols known for the chain (USDC, DAI, WETH, the gas token) or
addresses. Chains are ids or names (1, optimism, arb, base, polygon).

Examples:
  meta-swap quote 1000 USDC@optimism to DAI@arbitrum --payer 0x...
  meta-swap quote 1 ETH to USDC --chain base --payer 0x... --all
  meta-swap quote 1000000 USDC@10 to DAI@10 --raw --providers kyberswap,paraswap --payer 0x...`,
	Args: cobra.MinimumNArgs(4),
	Run:  runQuote,
}

var calldataCmd = &cobra.Command{
	Use:   "calldata <amount> <token>[@chain] to <token>[@chain]",
	Short: "Print only the calldata of the best route",
	Args:  cobra.MinimumNArgs(4),
	Run:   runCallData,
}

func init() {
	rootCmd.AddCommand(quoteCmd)
	rootCmd.AddCommand(calldataCmd)

	for _, c := range []*cobra.Command{quoteCmd, calldataCmd} {
		c.Flags().StringVar(&quotePayer, "payer", "", "Address that signs and pays (required)")
		c.Flags().StringVar(&quoteReceiver, "receiver", "", "Address receiving the output (defaults to the payer)")
		c.Flags().StringVar(&quoteTestPayer, "test-payer", "", "Funded address used for quoting, rewritten to the payer")
		c.Flags().StringVar(&quoteProviders, "providers", "", "Comma-separated providers to ask (e.g. lifi,squid,1inch)")
		c.Flags().IntVar(&quoteSlippage, "slippage", 0, "Maximum slippage in basis points (default from config)")
		c.Flags().StringVar(&quoteReferrer, "referrer", "", "Referrer address forwarded to providers that support it")
		c.Flags().StringVar(&quoteProject, "project", "", "Integrator name (default from config)")
		c.Flags().Int64Var(&quoteDeadline, "deadline", 0, "Unix deadline of the transaction")
		c.Flags().StringSliceVar(&quoteDenyBridges, "deny-bridges", nil, "Bridges to exclude")
		c.Flags().StringSliceVar(&quoteDenyExchanges, "deny-exchanges", nil, "Exchanges to exclude")
		c.Flags().BoolVar(&quoteGasOnDest, "gas-on-destination", false, "Receive some gas token on the destination chain")
		c.Flags().StringVar(&quoteDefaultChain, "chain", "", "Chain used when the input token has no @chain")
		c.Flags().BoolVar(&quoteRaw, "raw", false, "Amount is given in raw token units")
		_ = c.MarkFlagRequired("payer")
	}
	quoteCmd.Flags().BoolVar(&quoteAll, "all", false, "Print every route, best first")
}

func runQuote(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	verbose, _ := cmd.Flags().GetBool("verbose")

	ctx := cmd.Context()
	command, req, err := buildSwapRequest(ctx, args)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	agg, registry, closeFn := newAggregator()
	defer closeFn()

	if !jsonOutput {
		warnUnsupported(registry, req, agg.Defaults().Providers)
	}

	s := startSpinner(fmt.Sprintf(" Fetching quotes for %s...", req), jsonOutput)
	routes, err := agg.AllTransactionRequests(ctx, req)
	s.Stop()

	if err != nil {
		printError(err)
		os.Exit(1)
	}
	if len(routes) == 0 {
		printError(fmt.Errorf("%w for %s %s to %s", provider.ErrNoRoute, command.Amount, command.Input.Label(), command.Output.Label()))
		os.Exit(1)
	}
	if !quoteAll {
		routes = routes[:1]
	}

	if jsonOutput {
		if quoteAll {
			printJSON(routes)
		} else {
			printJSON(routes[0])
		}
		return
	}
	displayRoutes(command, routes, verbose)
}

func runCallData(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()
	_, req, err := buildSwapRequest(ctx, args)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	agg, _, closeFn := newAggregator()
	defer closeFn()

	data, err := agg.CallData(ctx, req)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	fmt.Println(data)
}

// buildSwapRequest turns the command line into a swap request
func buildSwapRequest(ctx context.Context, args []string) (*parser.Command, *types.SwapRequest, error) {
	var defaultChain int64
	if quoteDefaultChain != "" {
		id, err := parser.ParseChain(quoteDefaultChain)
		if err != nil {
			return nil, nil, err
		}
		defaultChain = id
	}

	command, err := parser.ParseSwapCommand(strings.Join(args, " "), defaultChain)
	if err != nil {
		return nil, nil, err
	}

	amount := command.Amount
	if !quoteRaw {
		decimals := chain.NewRPCDecimals(cfg.RPC)
		defer decimals.Close()
		amount, err = command.AmountWei(ctx, decimals)
		if err != nil {
			return nil, nil, err
		}
	} else if strings.Contains(amount, ".") {
		return nil, nil, fmt.Errorf("raw amount %s must be an integer", amount)
	}

	req := &types.SwapRequest{
		Input:                   command.Input.Address,
		InputChainID:            command.Input.ChainID,
		Output:                  command.Output.Address,
		AmountWei:               amount,
		Payer:                   quotePayer,
		Receiver:                quoteReceiver,
		TestPayer:               quoteTestPayer,
		Referrer:                quoteReferrer,
		Project:                 quoteProject,
		MaxSlippage:             quoteSlippage,
		Deadline:                quoteDeadline,
		DenyBridges:             quoteDenyBridges,
		DenyExchanges:           quoteDenyExchanges,
		ReceiveGasOnDestination: quoteGasOnDest,
	}
	if command.Output.ChainID != command.Input.ChainID {
		req.OutputChainID = command.Output.ChainID
	}
	if quoteProviders != "" {
		ids, err := config.ParseProviders([]string{quoteProviders})
		if err != nil {
			return nil, nil, err
		}
		req.ProviderIDs = ids
	}
	return command, req, nil
}

// warnUnsupported points at requested providers that cannot serve the request
func warnUnsupported(registry *provider.Registry, req *types.SwapRequest, defaults []types.ProviderID) {
	ids := req.ProviderIDs
	if len(ids) == 0 {
		ids = defaults
	}
	for _, id := range ids {
		p, ok := registry.Get(id)
		if !ok {
			color.Yellow("! %s is not configured", id)
			continue
		}
		if !p.Capabilities().Supports(req) {
			color.Yellow("! %s does not handle this kind of swap, expect no route from it", id)
		}
	}
}

func displayRoutes(command *parser.Command, routes []*types.TransactionRequestWithEstimate, verbose bool) {
	fmt.Println("\n" + strings.Repeat("=", 70))
	color.Green("                              ROUTES")
	fmt.Println(strings.Repeat("=", 70))

	for i, r := range routes {
		best := ""
		if i == 0 {
			best = " (best)"
		}
		color.Cyan("\n#%d %s%s", i+1, r.ProviderID, best)
		fmt.Println(strings.Repeat("-", 70))
		fmt.Printf("You send:         %s %s (chain %d)\n", command.Amount, command.Input.Label(), command.Input.ChainID)
		fmt.Printf("You receive:      %s %s (chain %d)\n",
			color.GreenString("%.6f", r.EstimatedOutput), command.Output.Label(), command.Output.ChainID)
		fmt.Printf("Rate:             %.6f\n", r.EstimatedExchangeRate)
		fmt.Printf("Gas cost:         $%.4f\n", r.TotalGasCostUSD)
		if r.TotalFeeCostUSD > 0 {
			fmt.Printf("Fees:             $%.4f\n", r.TotalFeeCostUSD)
		}
		if r.ApprovalAddress != "" {
			fmt.Printf("Approve:          %s\n", r.ApprovalAddress)
		}
		if len(r.Steps) > 0 {
			tools := make([]string, 0, len(r.Steps))
			for _, step := range r.Steps {
				tools = append(tools, step.Tool)
			}
			fmt.Printf("Path:             %s\n", strings.Join(tools, " > "))
		}
		fmt.Printf("To:               %s\n", r.To)
		if r.Value != "" && r.Value != "0" {
			fmt.Printf("Value:            %s\n", r.Value)
		}
		if verbose {
			fmt.Printf("Data:             %s\n", r.Data)
		} else {
			fmt.Printf("Data:             %d bytes\n", (len(r.Data)-2)/2)
		}
	}
	fmt.Println()
}
