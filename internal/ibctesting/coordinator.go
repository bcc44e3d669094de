package ibctesting

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/CosmWasm/wasmicq/internal/protocol"
	"github.com/CosmWasm/wasmicq/types"
)

// Contract is the querying side the coordinator relays to.
type Contract interface {
	Execute(env types.Env, info types.MessageInfo, msg []byte) (*types.Response, error)
	IBCChannelOpen(env types.Env, msg types.IBCChannelOpenMsg) (*types.IBC3ChannelOpenResponse, error)
	IBCChannelConnect(env types.Env, msg types.IBCChannelConnectMsg) (*types.IBCBasicResponse, error)
	IBCChannelClose(env types.Env, msg types.IBCChannelCloseMsg) (*types.IBCBasicResponse, error)
	IBCPacketAck(env types.Env, msg types.IBCPacketAckMsg) (*types.IBCBasicResponse, error)
	IBCPacketTimeout(env types.Env, msg types.IBCPacketTimeoutMsg) (*types.IBCBasicResponse, error)
}

// Channel is one end-to-end channel between the contract and the host.
type Channel struct {
	Contract types.IBCEndpoint
	Host     types.IBCEndpoint
	Order    types.IBCOrder
	Version  string
}

func (c Channel) contractView(connectionID string) types.IBCChannel {
	return types.IBCChannel{
		Endpoint:             c.Contract,
		CounterpartyEndpoint: c.Host,
		Order:                c.Order,
		Version:              c.Version,
		ConnectionID:         connectionID,
	}
}

// Coordinator drives a single chain clock shared by both sides.
type Coordinator struct {
	contract Contract
	host     *Host

	env          types.Env
	connectionID string
	nextChannel  int
	channels     map[string]Channel
	// packets sent by the contract and not yet relayed, in send order
	queue []types.IBCPacket
}

// NewCoordinator starts the clock at start with block height 1.
func NewCoordinator(contract Contract, host *Host, start time.Time) *Coordinator {
	return &Coordinator{
		contract: contract,
		host:     host,
		env: types.Env{
			Block: types.BlockInfo{
				Height:  1,
				Time:    types.Uint64(start.UnixNano()),
				ChainID: "testing-1",
			},
			Contract: types.ContractInfo{
				Address: "cosmos1icqcontract",
				PortID:  "wasm.cosmos1icqcontract",
			},
		},
		connectionID: "connection-0",
		channels:     make(map[string]Channel),
	}
}

func (c *Coordinator) Env() types.Env { return c.env }

func (c *Coordinator) Host() *Host { return c.host }

// AdvanceTime moves the clock forward by d and produces one block.
func (c *Coordinator) AdvanceTime(d time.Duration) {
	c.env.Block.Height++
	c.env.Block.Time += types.Uint64(d)
}

// OpenChannel runs the full handshake with the contract as initiator:
// OpenInit and OpenAck on the contract, OpenTry and OpenConfirm on the host.
// The host only speaks unordered icq-1 channels.
func (c *Coordinator) OpenChannel(order types.IBCOrder, version string) (string, error) {
	ch := Channel{
		Contract: types.IBCEndpoint{PortID: c.env.Contract.PortID, ChannelID: fmt.Sprintf("channel-%d", c.nextChannel)},
		Host:     types.IBCEndpoint{PortID: HostPortID, ChannelID: fmt.Sprintf("channel-%d", c.nextChannel)},
		Order:    order,
		Version:  version,
	}
	c.nextChannel++
	view := ch.contractView(c.connectionID)

	if _, err := c.contract.IBCChannelOpen(c.env, types.IBCChannelOpenMsg{
		OpenInit: &types.IBCOpenInit{Channel: view},
	}); err != nil {
		return "", fmt.Errorf("open init: %w", err)
	}
	// OpenTry on the host
	if order != types.Unordered || version != protocol.Version {
		return "", fmt.Errorf("open try: host rejects %s channel with version %q", order, version)
	}
	if _, err := c.contract.IBCChannelConnect(c.env, types.IBCChannelConnectMsg{
		OpenAck: &types.IBCOpenAck{Channel: view, CounterpartyVersion: protocol.Version},
	}); err != nil {
		return "", fmt.Errorf("open ack: %w", err)
	}
	c.channels[ch.Contract.ChannelID] = ch
	return ch.Contract.ChannelID, nil
}

// CloseChannel closes a channel from the host side.
func (c *Coordinator) CloseChannel(id string) error {
	ch, ok := c.channels[id]
	if !ok {
		return fmt.Errorf("unknown channel %s", id)
	}
	if _, err := c.contract.IBCChannelClose(c.env, types.IBCChannelCloseMsg{
		CloseConfirm: &types.IBCCloseConfirm{Channel: ch.contractView(c.connectionID)},
	}); err != nil {
		return err
	}
	delete(c.channels, id)
	return nil
}

// Execute sends msg to the contract as sender and queues the packets it emits.
func (c *Coordinator) Execute(sender string, msg any) (*types.Response, error) {
	bz, err := json.Marshal(msg)
	if err != nil {
		return nil, err
	}
	res, err := c.contract.Execute(c.env, types.MessageInfo{Sender: sender}, bz)
	if err != nil {
		return nil, err
	}
	for _, m := range res.Messages {
		if m.IBC == nil || m.IBC.SendPacket == nil {
			continue
		}
		if err := c.queuePacket(*m.IBC.SendPacket); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (c *Coordinator) queuePacket(msg types.SendPacketMsg) error {
	ch, ok := c.channels[msg.ChannelID]
	if !ok {
		return fmt.Errorf("send packet on unknown channel %s", msg.ChannelID)
	}
	c.queue = append(c.queue, types.IBCPacket{
		Data:     msg.Data,
		Src:      ch.Contract,
		Dest:     ch.Host,
		Sequence: msg.Sequence,
		Timeout:  msg.Timeout,
	})
	return nil
}

// PendingPackets returns the number of packets waiting to be relayed.
func (c *Coordinator) PendingPackets() int {
	return len(c.queue)
}

// RelayResult is what happened to one relayed packet.
type RelayResult struct {
	Packet   types.IBCPacket
	TimedOut bool
	// Ack is the acknowledgement the host wrote, unset on timeout.
	Ack      []byte
	Response *types.IBCBasicResponse
}

// RelayAll delivers every queued packet in send order. Packets whose
// timeout has passed are timed out on the contract instead of being
// executed on the host. Relaying stops at the first contract error; the
// failed packet stays queued.
func (c *Coordinator) RelayAll() ([]RelayResult, error) {
	var results []RelayResult
	for len(c.queue) > 0 {
		res, err := c.relay(c.queue[0])
		if err != nil {
			return results, err
		}
		c.queue = c.queue[1:]
		results = append(results, res)
	}
	return results, nil
}

func (c *Coordinator) relay(packet types.IBCPacket) (RelayResult, error) {
	relayer := "cosmos1relayer"
	if packet.Timeout.Expired(c.env.Block) {
		res, err := c.contract.IBCPacketTimeout(c.env, types.IBCPacketTimeoutMsg{Packet: packet, Relayer: relayer})
		if err != nil {
			return RelayResult{}, fmt.Errorf("timeout packet %d: %w", packet.Sequence, err)
		}
		return RelayResult{Packet: packet, TimedOut: true, Response: res}, nil
	}

	ack, err := c.host.OnRecvPacket(packet.Data)
	if err != nil {
		return RelayResult{}, fmt.Errorf("host receive packet %d: %w", packet.Sequence, err)
	}
	res, err := c.contract.IBCPacketAck(c.env, types.IBCPacketAckMsg{
		Acknowledgement: types.IBCAcknowledgement{Data: ack},
		OriginalPacket:  packet,
		Relayer:         relayer,
	})
	if err != nil {
		return RelayResult{}, fmt.Errorf("acknowledge packet %d: %w", packet.Sequence, err)
	}
	return RelayResult{Packet: packet, Ack: ack, Response: res}, nil
}
