package icq

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	dbm "github.com/cometbft/cometbft-db"
	"github.com/rs/zerolog"

	"github.com/CosmWasm/wasmicq/internal/config"
	"github.com/CosmWasm/wasmicq/internal/metrics"
	"github.com/CosmWasm/wasmicq/internal/protocol"
	"github.com/CosmWasm/wasmicq/internal/store"
	"github.com/CosmWasm/wasmicq/types"
)

// Contract is the main entry point to this library. It is the querying side
// of an interchain query channel, bound to one IBC port.
//
// The host calls exactly one entry point per external event. Every entry
// point runs in its own store transaction: all writes are committed when it
// returns without error and none of them are when it fails.
type Contract struct {
	db      dbm.DB
	cfg     config.Config
	logger  zerolog.Logger
	metrics *metrics.Metrics
	version types.ContractVersion

	// serializes entry points; read-only queries may run in parallel
	mu sync.RWMutex
}

// Option configures a Contract.
type Option func(*Contract)

// WithMetrics records the packet lifecycle on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Contract) { c.metrics = m }
}

// WithVersion overrides the name and version recorded on instantiate.
func WithVersion(v types.ContractVersion) Option {
	return func(c *Contract) { c.version = v }
}

// NewContract creates a contract whose state lives in db.
//
// `cfg` supplies the packet timeout, memo and TWAP window.
// `logger` receives one event per handshake step, packet and acknowledgement.
func NewContract(db dbm.DB, cfg config.Config, logger zerolog.Logger, opts ...Option) *Contract {
	c := &Contract{
		db:     db,
		cfg:    cfg,
		logger: logger,
		version: types.ContractVersion{
			Contract: ContractName,
			Version:  Version,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Metrics returns the collectors passed with WithMetrics, or nil.
func (c *Contract) Metrics() *metrics.Metrics {
	return c.metrics
}

// Config returns the configuration the contract was created with.
func (c *Contract) Config() config.Config {
	return c.cfg
}

// call runs fn on a fresh transaction and commits it if fn succeeds.
func (c *Contract) call(name string, fn func(h *protocol.Handler) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	tx := store.NewTx(c.db)
	if err := fn(protocol.NewHandler(tx, c.cfg, c.logger)); err != nil {
		tx.Discard()
		return err
	}
	writes := tx.Len()
	if err := tx.Commit(); err != nil {
		tx.Discard()
		return fmt.Errorf("commit %s: %w", name, err)
	}
	c.logger.Debug().Str("call", name).Int("writes", writes).Msg("store committed")
	return nil
}

// read runs fn on a transaction that is always discarded.
func (c *Contract) read(fn func(h *protocol.Handler) error) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	tx := store.NewTx(c.db)
	defer tx.Discard()
	return fn(protocol.NewHandler(tx, c.cfg, c.logger))
}

// Instantiate records the contract name and version. The init message
// carries no parameters but must be valid JSON.
func (c *Contract) Instantiate(env types.Env, info types.MessageInfo, msg []byte) (*types.Response, error) {
	var init types.InstantiateMsg
	if err := json.Unmarshal(msg, &init); err != nil {
		return nil, types.InvalidRequest{Err: err.Error(), Request: msg}
	}
	var res *types.Response
	err := c.call("instantiate", func(h *protocol.Handler) error {
		var err error
		res, err = h.Instantiate(c.version)
		return err
	})
	if err != nil {
		return nil, err
	}
	c.logger.Debug().Str("sender", info.Sender).Uint64("height", env.Block.Height).Msg("instantiate")
	return res, nil
}

// Execute sends a balance or TWAP query. Response.Data holds the JSON
// encoded SendQueryResponse with the sequence of the sent packet.
func (c *Contract) Execute(env types.Env, info types.MessageInfo, msg []byte) (*types.Response, error) {
	var exec types.ExecuteMsg
	if err := json.Unmarshal(msg, &exec); err != nil {
		return nil, types.InvalidRequest{Err: err.Error(), Request: msg}
	}

	var res *types.Response
	err := c.call("execute", func(h *protocol.Handler) error {
		var err error
		switch {
		case exec.SendQueryBalance != nil && exec.SendQueryTwap == nil:
			q := exec.SendQueryBalance
			res, err = h.SendQuery(env, q.Channel, protocol.BalanceQuery{Address: q.Address, Denom: q.Denom})
		case exec.SendQueryTwap != nil && exec.SendQueryBalance == nil:
			q := exec.SendQueryTwap
			res, err = h.SendQuery(env, q.Channel, protocol.TwapQuery{
				PoolID:     q.PoolID,
				BaseAsset:  q.BaseAsset,
				QuoteAsset: q.QuoteAsset,
				StartTime:  h.TwapStartTime(env.Block),
			})
		default:
			err = types.InvalidRequest{Err: "expected exactly one execute variant", Request: msg}
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	if path, ok := res.Attribute("path"); ok {
		c.metrics.PacketSent(path)
	}
	return res, nil
}

// Query answers a JSON encoded QueryMsg with a JSON response.
func (c *Contract) Query(env types.Env, msg []byte) ([]byte, error) {
	var q types.QueryMsg
	if err := json.Unmarshal(msg, &q); err != nil {
		return nil, types.InvalidRequest{Err: err.Error(), Request: msg}
	}
	return c.QueryMsg(q)
}

// QueryMsg is Query for an already decoded message.
func (c *Contract) QueryMsg(msg types.QueryMsg) ([]byte, error) {
	var res []byte
	err := c.read(func(h *protocol.Handler) error {
		var err error
		res, err = h.Query(msg)
		return err
	})
	return res, err
}

// IBCChannelOpen is called during the OpenInit and OpenTry handshake steps.
// Only unordered channels on the icq-1 version are accepted.
func (c *Contract) IBCChannelOpen(env types.Env, msg types.IBCChannelOpenMsg) (*types.IBC3ChannelOpenResponse, error) {
	if msg.OpenInit == nil && msg.OpenTry == nil {
		return nil, types.InvalidRequest{Err: "channel open message without open_init or open_try"}
	}
	var res *types.IBC3ChannelOpenResponse
	err := c.call("ibc_channel_open", func(h *protocol.Handler) error {
		var err error
		res, err = h.ChannelOpen(msg)
		return err
	})
	if err != nil {
		c.recordHandshakeError(err)
		return nil, err
	}
	c.metrics.ChannelEvent("open")
	return res, nil
}

// IBCChannelConnect is called during the OpenAck and OpenConfirm handshake
// steps and registers the channel for outgoing queries.
func (c *Contract) IBCChannelConnect(env types.Env, msg types.IBCChannelConnectMsg) (*types.IBCBasicResponse, error) {
	if msg.OpenAck == nil && msg.OpenConfirm == nil {
		return nil, types.InvalidRequest{Err: "channel connect message without open_ack or open_confirm"}
	}
	var res *types.IBCBasicResponse
	err := c.call("ibc_channel_connect", func(h *protocol.Handler) error {
		var err error
		res, err = h.ChannelConnect(msg)
		return err
	})
	if err != nil {
		c.recordHandshakeError(err)
		return nil, err
	}
	c.metrics.ChannelEvent("connect")
	return res, nil
}

// IBCChannelClose is called at the end of the channel lifetime. Queries on
// the channel fail afterwards.
func (c *Contract) IBCChannelClose(env types.Env, msg types.IBCChannelCloseMsg) (*types.IBCBasicResponse, error) {
	if msg.CloseInit == nil && msg.CloseConfirm == nil {
		return nil, types.InvalidRequest{Err: "channel close message without close_init or close_confirm"}
	}
	var res *types.IBCBasicResponse
	err := c.call("ibc_channel_close", func(h *protocol.Handler) error {
		var err error
		res, err = h.ChannelClose(msg)
		return err
	})
	if err != nil {
		return nil, err
	}
	c.metrics.ChannelEvent("close")
	return res, nil
}

// IBCPacketReceive is called when a packet arrives on a channel of this
// contract. It is always acknowledged with a success result.
func (c *Contract) IBCPacketReceive(env types.Env, msg types.IBCPacketReceiveMsg) (*types.IBCReceiveResponse, error) {
	var res *types.IBCReceiveResponse
	err := c.call("ibc_packet_receive", func(h *protocol.Handler) error {
		var err error
		res, err = h.OnReceive(msg.Packet)
		return err
	})
	return res, err
}

// IBCPacketAck is called with the acknowledgement of a query packet sent by
// this contract. Remote query failures are recorded and do not fail the
// call; a malformed acknowledgement does.
func (c *Contract) IBCPacketAck(env types.Env, msg types.IBCPacketAckMsg) (*types.IBCBasicResponse, error) {
	var res *types.IBCBasicResponse
	err := c.call("ibc_packet_ack", func(h *protocol.Handler) error {
		var err error
		res, err = h.OnAck(msg.Acknowledgement.Data, msg.OriginalPacket.Sequence)
		return err
	})
	if err != nil {
		return nil, err
	}
	if outcome, ok := res.Attribute("outcome"); ok {
		c.metrics.AckProcessed(outcome)
	}
	return res, nil
}

// IBCPacketTimeout is called when a query packet sent by this contract will
// provably never be executed. The query is abandoned, not resent.
func (c *Contract) IBCPacketTimeout(env types.Env, msg types.IBCPacketTimeoutMsg) (*types.IBCBasicResponse, error) {
	var res *types.IBCBasicResponse
	err := c.call("ibc_packet_timeout", func(h *protocol.Handler) error {
		res = h.OnTimeout(msg.Packet.Sequence)
		return nil
	})
	if err != nil {
		return nil, err
	}
	c.metrics.PacketTimedOut()
	return res, nil
}

func (c *Contract) recordHandshakeError(err error) {
	var (
		ordering types.UnsupportedOrdering
		version  types.VersionMismatch
	)
	if errors.As(err, &ordering) || errors.As(err, &version) {
		c.metrics.HandshakeRejected()
	}
}
