package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	icq "github.com/CosmWasm/wasmicq"
	"github.com/CosmWasm/wasmicq/internal/ibctesting"
	"github.com/CosmWasm/wasmicq/internal/protocol"
	"github.com/CosmWasm/wasmicq/internal/store"
	"github.com/CosmWasm/wasmicq/types"
)

type demoOptions struct {
	memDB      bool
	address    string
	denom      string
	amount     string
	poolID     uint64
	baseAsset  string
	quoteAsset string
	price      string
	// also send a query that is only relayed after its timeout
	withTimeout bool
}

func newDemoCmd(a *app) *cobra.Command {
	opts := demoOptions{}
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Open a channel to an in-process query host, send queries and relay them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.memDB {
				a.cfg.DB.Backend = store.BackendMemDB
			}
			contract, closeDB, err := a.openContract(nil)
			if err != nil {
				return err
			}
			defer closeDB()
			return runDemo(cmd, contract, opts)
		},
	}
	f := cmd.Flags()
	f.BoolVar(&opts.memDB, "memdb", false, "keep state in memory instead of the configured database")
	f.StringVar(&opts.address, "address", "osmo1demo", "account whose balance is queried")
	f.StringVar(&opts.denom, "denom", "uosmo", "denom of the balance query")
	f.StringVar(&opts.amount, "amount", "1000000", "balance the host reports")
	f.Uint64Var(&opts.poolID, "pool", 1, "pool of the TWAP query")
	f.StringVar(&opts.baseAsset, "base", "uosmo", "base asset of the TWAP query")
	f.StringVar(&opts.quoteAsset, "quote", "uatom", "quote asset of the TWAP query")
	f.StringVar(&opts.price, "price", "0.125000000000000000", "TWAP the host reports, none when empty")
	f.BoolVar(&opts.withTimeout, "with-timeout", false, "also send a balance query that times out")
	return cmd
}

func runDemo(cmd *cobra.Command, contract *icq.Contract, opts demoOptions) error {
	host := ibctesting.NewHost()
	host.SetBalance(opts.address, opts.denom, opts.amount)
	if opts.price != "" {
		host.SetTwap(opts.poolID, opts.baseAsset, opts.quoteAsset, opts.price)
	}
	coord := ibctesting.NewCoordinator(contract, host, time.Now())

	if _, err := contract.QueryMsg(types.QueryMsg{ContractVersion: &struct{}{}}); errors.Is(err, protocol.ErrNotInstantiated) {
		if _, err := contract.Instantiate(coord.Env(), types.MessageInfo{Sender: "icqctl"}, []byte(`{}`)); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	channel, err := coord.OpenChannel(types.Unordered, icq.ChannelVersion)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "opened %s\n", channel)

	msgs := []types.ExecuteMsg{
		{SendQueryBalance: &types.QueryBalanceMsg{Channel: channel, Address: opts.address, Denom: opts.denom}},
		{SendQueryTwap: &types.QueryTwapMsg{Channel: channel, PoolID: opts.poolID, BaseAsset: opts.baseAsset, QuoteAsset: opts.quoteAsset}},
	}
	var sequences []uint64
	send := func(msg types.ExecuteMsg) error {
		res, err := coord.Execute("icqctl", msg)
		if err != nil {
			return err
		}
		var sent types.SendQueryResponse
		if err := json.Unmarshal(res.Data, &sent); err != nil {
			return err
		}
		sequences = append(sequences, sent.Sequence)
		method, _ := res.Attribute("method")
		fmt.Fprintf(out, "sent %s as sequence %d\n", method, sent.Sequence)
		return nil
	}
	for _, msg := range msgs {
		if err := send(msg); err != nil {
			return err
		}
	}
	if _, err := coord.RelayAll(); err != nil {
		return err
	}

	if opts.withTimeout {
		if err := send(msgs[0]); err != nil {
			return err
		}
		coord.AdvanceTime(contract.Config().Timeout() + time.Second)
		if _, err := coord.RelayAll(); err != nil {
			return err
		}
	}

	for _, seq := range sequences {
		if err := printOutcome(cmd, contract, seq); err != nil {
			return err
		}
	}
	return nil
}

func printOutcome(cmd *cobra.Command, contract *icq.Contract, seq uint64) error {
	bz, err := contract.QueryMsg(types.QueryMsg{Pending: &types.PendingQuery{Sequence: seq}})
	if err != nil {
		return err
	}
	var pending types.PendingResponse
	if err := json.Unmarshal(bz, &pending); err != nil {
		return err
	}
	bz, err = contract.QueryMsg(types.QueryMsg{Result: &types.ResultQuery{Sequence: seq}})
	if err != nil {
		return err
	}
	var result types.ResultResponse
	if err := json.Unmarshal(bz, &result); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	status := "unknown"
	if pending.Request != nil {
		status = string(pending.Request.Status)
	}
	switch {
	case result.Balance != nil:
		fmt.Fprintf(out, "sequence %d %s: balance %s%s\n", seq, status, result.Balance.Amount, result.Balance.Denom)
	case result.Price != nil:
		fmt.Fprintf(out, "sequence %d %s: price %s\n", seq, status, *result.Price)
	case result.Error != nil:
		fmt.Fprintf(out, "sequence %d %s: error %s\n", seq, status, *result.Error)
	default:
		fmt.Fprintf(out, "sequence %d %s: no result\n", seq, status)
	}
	return nil
}
