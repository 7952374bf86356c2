package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"meta-swap/config"
	"meta-swap/pkg/parser"
	"meta-swap/pkg/providers"
	"meta-swap/pkg/types"
)

var (
	statusTxHash        string
	statusTransactionID string
	statusBridge        string
	statusFromChain     string
	statusToChain       string
	statusDeposit       string
	statusProviders     string
	watchStatus         bool
	watchInterval       int
)

var statusCmd = &cobra.Command{
	Use:   "status [tx-hash | deposit-address]",
	Short: "Check the status of a cross-chain transfer",
	Long: `Ask the providers that track transfers where a swap stands. The first
provider that knows the transfer answers.

A 32-byte hash argument is read as the source transaction hash, a 20-byte
address as a 1Click deposit address.

Examples:
  meta-swap status 0xabc... --from-chain 10 --to-chain 42161
  meta-swap status --transaction-id 0x123... --providers socket
  meta-swap status 0x1234...abcd --watch --interval 10`,
	Args: cobra.MaximumNArgs(1),
	Run:  runStatus,
}

var submitDepositCmd = &cobra.Command{
	Use:   "submit-deposit <deposit-address> <tx-hash>",
	Short: "Tell 1Click about a deposit transaction",
	Long: `Notify NEAR Intents 1Click that the deposit was sent, which speeds up
processing of a route quoted by the ONECLICK provider.`,
	Args: cobra.ExactArgs(2),
	Run:  runSubmitDeposit,
}

func init() {
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(submitDepositCmd)

	statusCmd.Flags().StringVar(&statusTxHash, "tx-hash", "", "Source chain transaction hash")
	statusCmd.Flags().StringVar(&statusTransactionID, "transaction-id", "", "Provider transaction id")
	statusCmd.Flags().StringVar(&statusBridge, "bridge", "", "Bridge used by the route")
	statusCmd.Flags().StringVar(&statusFromChain, "from-chain", "", "Source chain")
	statusCmd.Flags().StringVar(&statusToChain, "to-chain", "", "Destination chain")
	statusCmd.Flags().StringVar(&statusDeposit, "deposit-address", "", "1Click deposit address")
	statusCmd.Flags().StringVar(&statusProviders, "providers", "", "Comma-separated providers to ask")
	statusCmd.Flags().BoolVarP(&watchStatus, "watch", "w", false, "Watch status updates until the transfer settles")
	statusCmd.Flags().IntVar(&watchInterval, "interval", 10, "Polling interval in seconds (when watching)")
}

func runStatus(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	q, err := buildStatusQuery(args)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	agg, _, closeFn := newAggregator()
	defer closeFn()

	if watchStatus {
		if jsonOutput {
			fmt.Println(`{"error": "watch mode not supported with JSON output"}`)
			os.Exit(1)
		}

		fmt.Printf("\nWatching transfer %s\n", color.CyanString("%s", statusLabel(q)))
		fmt.Printf("Checking every %d seconds. Press Ctrl+C to stop.\n\n", watchInterval)

		err := agg.Watch(cmd.Context(), q, time.Duration(watchInterval)*time.Second, func(res *types.StatusResponse) {
			displayStatus(q, res)
		})
		if err != nil && cmd.Context().Err() == nil {
			printError(err)
			os.Exit(1)
		}
		return
	}

	s := startSpinner(" Checking transfer status...", jsonOutput)
	res, err := agg.Status(cmd.Context(), q)
	s.Stop()

	if err != nil {
		printError(err)
		os.Exit(1)
	}
	if jsonOutput {
		printJSON(res)
		return
	}
	displayStatus(q, res)
}

func runSubmitDeposit(cmd *cobra.Command, args []string) {
	_, registry, closeFn := newAggregator()
	defer closeFn()

	client, ok := providers.OneClick(registry)
	if !ok {
		printError(fmt.Errorf("1Click provider is not available"))
		os.Exit(1)
	}
	if err := client.SubmitDeposit(cmd.Context(), args[0], args[1]); err != nil {
		printError(err)
		os.Exit(1)
	}
	color.Green("✓ Deposit %s submitted for %s", types.ShortenAddress(args[1]), args[0])
}

func buildStatusQuery(args []string) (types.StatusQuery, error) {
	q := types.StatusQuery{
		TxHash:         statusTxHash,
		TransactionID:  statusTransactionID,
		Bridge:         statusBridge,
		DepositAddress: statusDeposit,
	}
	if len(args) == 1 {
		switch arg := args[0]; len(arg) {
		case 66:
			q.TxHash = arg
		case 42:
			q.DepositAddress = arg
		default:
			return q, fmt.Errorf("%q is neither a transaction hash nor an address", arg)
		}
	}
	if q.TxHash == "" && q.TransactionID == "" && q.DepositAddress == "" {
		return q, fmt.Errorf("a transaction hash, transaction id or deposit address is required")
	}

	var err error
	if statusFromChain != "" {
		if q.FromChainID, err = parser.ParseChain(statusFromChain); err != nil {
			return q, err
		}
	}
	if statusToChain != "" {
		if q.ToChainID, err = parser.ParseChain(statusToChain); err != nil {
			return q, err
		}
	}
	if statusProviders != "" {
		if q.ProviderIDs, err = config.ParseProviders([]string{statusProviders}); err != nil {
			return q, err
		}
	}
	return q, nil
}

func statusLabel(q types.StatusQuery) string {
	if q.DepositAddress != "" {
		return q.DepositAddress
	}
	return q.ID()
}

func displayStatus(q types.StatusQuery, res *types.StatusResponse) {
	fmt.Println("\n" + strings.Repeat("=", 70))
	color.Green("                        TRANSFER STATUS")
	fmt.Println(strings.Repeat("=", 70))

	fmt.Printf("\n  Transfer:        %s\n", color.CyanString("%s", statusLabel(q)))
	if res == nil {
		fmt.Printf("  Status:          %s\n", color.HiBlackString("unknown to every provider"))
		fmt.Println("\n" + strings.Repeat("=", 70) + "\n")
		return
	}

	fmt.Printf("  Provider:        %s\n", res.ProviderID)
	fmt.Printf("  Status:          %s\n", getColoredStatus(res.Status))
	if res.Substatus != "" {
		fmt.Printf("  Substatus:       %s\n", res.Substatus)
	}
	if res.SubstatusMessage != "" {
		fmt.Printf("  Message:         %s\n", res.SubstatusMessage)
	}
	if res.SendingTx != "" {
		fmt.Printf("  Sending Tx:      %s\n", color.HiBlackString("%s", res.SendingTx))
	}
	if res.ReceivingTx != "" {
		fmt.Printf("  Receiving Tx:    %s\n", color.HiBlackString("%s", res.ReceivingTx))
	}
	fmt.Printf("  Checked At:      %s\n", time.Now().Format("2006-01-02 15:04:05"))

	fmt.Println("\n" + strings.Repeat("=", 70) + "\n")
}

func getColoredStatus(status types.Status) string {
	s := string(status)
	switch status {
	case types.StatusSuccess, types.StatusDone:
		return color.GreenString("%s", s)
	case types.StatusWaiting, types.StatusPending, types.StatusOngoing:
		return color.YellowString("%s", s)
	case types.StatusFailed:
		return color.RedString("%s", s)
	case types.StatusPartialSuccess, types.StatusNeedsGas:
		return color.MagentaString("%s", s)
	default:
		return s
	}
}
