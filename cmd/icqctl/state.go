package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CosmWasm/wasmicq/types"
)

type stateDump struct {
	LastSequence *uint64                             `json:"last_sequence"`
	Channels     types.Array[types.ChannelInfo]      `json:"channels"`
	Balances     types.Array[types.SequencedBalance] `json:"balances"`
	Prices       types.Array[types.SequencedPrice]   `json:"prices"`
	Errors       types.Array[types.SequencedError]   `json:"errors"`
}

func newStateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "state",
		Short: "Print the stored channels and query results as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			contract, closeDB, err := a.openContract(nil)
			if err != nil {
				return err
			}
			defer closeDB()

			var (
				dump     stateDump
				last     types.LastSequenceResponse
				channels types.ListChannelsResponse
				balances types.AllBalancesResponse
				prices   types.AllPriceFeedsResponse
				errs     types.AllErrorsResponse
			)
			queries := []struct {
				msg types.QueryMsg
				out any
			}{
				{types.QueryMsg{LastSequence: &struct{}{}}, &last},
				{types.QueryMsg{ListChannels: &struct{}{}}, &channels},
				{types.QueryMsg{AllBalances: &struct{}{}}, &balances},
				{types.QueryMsg{AllPriceFeeds: &struct{}{}}, &prices},
				{types.QueryMsg{AllErrors: &struct{}{}}, &errs},
			}
			for _, q := range queries {
				bz, err := contract.QueryMsg(q.msg)
				if err != nil {
					return err
				}
				if err := json.Unmarshal(bz, q.out); err != nil {
					return err
				}
			}
			dump.LastSequence = last.Sequence
			dump.Channels = channels.Channels
			dump.Balances = balances.Balances
			dump.Prices = prices.Prices
			dump.Errors = errs.Errors

			out, err := json.MarshalIndent(dump, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}
