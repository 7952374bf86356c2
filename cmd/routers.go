package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"meta-swap/pkg/parser"
	"meta-swap/pkg/provider"
	"meta-swap/pkg/types"
)

var routersChain string

var routersCmd = &cobra.Command{
	Use:   "routers [provider]",
	Short: "Show the router contracts that receive approvals",
	Long: `Show the router contract of each provider per chain. Token approvals
for a route go to these addresses.

Examples:
  meta-swap routers
  meta-swap routers lifi
  meta-swap routers --chain arbitrum`,
	Args: cobra.MaximumNArgs(1),
	Run:  runRouters,
}

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List the configured providers and what they support",
	Run:   runProviders,
}

func init() {
	rootCmd.AddCommand(routersCmd)
	rootCmd.AddCommand(providersCmd)

	routersCmd.Flags().StringVar(&routersChain, "chain", "", "Only show this chain")
}

type routerRow struct {
	Provider types.ProviderID `json:"aggregatorId"`
	ChainID  int64            `json:"chainId"`
	Router   string           `json:"router"`
}

func runRouters(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	var chainID int64
	if routersChain != "" {
		id, err := parser.ParseChain(routersChain)
		if err != nil {
			printError(err)
			os.Exit(1)
		}
		chainID = id
	}

	_, registry, closeFn := newAggregator()
	defer closeFn()

	ids := registry.IDs()
	if len(args) == 1 {
		id, err := types.ParseProviderID(args[0])
		if err != nil {
			printError(err)
			os.Exit(1)
		}
		ids = []types.ProviderID{id}
	}

	rows, err := routerRows(registry, ids, chainID)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if jsonOutput {
		printJSON(rows)
		return
	}
	if len(rows) == 0 {
		fmt.Println("\nNo routers found matching the criteria.")
		return
	}

	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PROVIDER\tCHAIN\tROUTER")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%d\t%s\n", r.Provider, r.ChainID, r.Router)
	}
	w.Flush()
	fmt.Println()
}

func routerRows(registry *provider.Registry, ids []types.ProviderID, chainID int64) ([]routerRow, error) {
	var rows []routerRow
	for _, id := range ids {
		table, ok := registry.Routers(id)
		if !ok {
			return nil, fmt.Errorf("provider %s is not configured", id)
		}
		for _, c := range table.ChainIDs() {
			if chainID != 0 && c != chainID {
				continue
			}
			router, _ := table.Router(c)
			rows = append(rows, routerRow{Provider: id, ChainID: c, Router: router})
		}
	}
	return rows, nil
}

func runProviders(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	_, registry, closeFn := newAggregator()
	defer closeFn()

	infos := registry.Describe()
	if jsonOutput {
		printJSON(infos)
		return
	}

	fmt.Println("\n" + strings.Repeat("=", 70))
	color.Green("                           PROVIDERS")
	fmt.Println(strings.Repeat("=", 70) + "\n")

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PROVIDER\tCROSS-CHAIN\tCONTRACT CALLS\tSTATUS\tCHAINS")
	for _, info := range infos {
		chains := make([]string, len(info.Chains))
		for i, c := range info.Chains {
			chains[i] = strconv.FormatInt(c, 10)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			info.ID, yesNo(info.CrossChain), yesNo(info.ContractCalls), yesNo(info.Status), strings.Join(chains, ","))
	}
	w.Flush()
	fmt.Println()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
