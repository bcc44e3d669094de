package ibctesting

import (
	"github.com/CosmWasm/wasmicq/types"
)

const (
	MockContractAddr = "contract"
	MockContractPort = "wasm.contract"
	MockConnectionID = "connection-123"
	MockBlockTime types.Uint64 = 1578939743_987654321
)

func MockEnv() types.Env {
	return types.Env{
		Block: types.BlockInfo{
			Height:  123,
			Time:    MockBlockTime,
			ChainID: "foobar",
		},
		Contract: types.ContractInfo{
			Address: MockContractAddr,
			PortID:  MockContractPort,
		},
	}
}

func MockInfo(sender types.HumanAddress, funds []types.Coin) types.MessageInfo {
	return types.MessageInfo{
		Sender: sender,
		Funds:  funds,
	}
}

func MockIBCChannel(channelID string, ordering types.IBCOrder, ibcVersion string) types.IBCChannel {
	return types.IBCChannel{
		Endpoint: types.IBCEndpoint{
			PortID:    MockContractPort,
			ChannelID: channelID,
		},
		CounterpartyEndpoint: types.IBCEndpoint{
			PortID:    HostPortID,
			ChannelID: "channel-7",
		},
		Order:        ordering,
		Version:      ibcVersion,
		ConnectionID: MockConnectionID,
	}
}

func MockIBCChannelOpenInit(channelID string, ordering types.IBCOrder, ibcVersion string) types.IBCChannelOpenMsg {
	return types.IBCChannelOpenMsg{
		OpenInit: &types.IBCOpenInit{
			Channel: MockIBCChannel(channelID, ordering, ibcVersion),
		},
	}
}

func MockIBCChannelOpenTry(channelID string, ordering types.IBCOrder, ibcVersion string) types.IBCChannelOpenMsg {
	return types.IBCChannelOpenMsg{
		OpenTry: &types.IBCOpenTry{
			Channel:             MockIBCChannel(channelID, ordering, ibcVersion),
			CounterpartyVersion: ibcVersion,
		},
	}
}

func MockIBCChannelConnectAck(channelID string, ordering types.IBCOrder, ibcVersion string) types.IBCChannelConnectMsg {
	return types.IBCChannelConnectMsg{
		OpenAck: &types.IBCOpenAck{
			Channel:             MockIBCChannel(channelID, ordering, ibcVersion),
			CounterpartyVersion: ibcVersion,
		},
	}
}

func MockIBCChannelConnectConfirm(channelID string, ordering types.IBCOrder, ibcVersion string) types.IBCChannelConnectMsg {
	return types.IBCChannelConnectMsg{
		OpenConfirm: &types.IBCOpenConfirm{
			Channel: MockIBCChannel(channelID, ordering, ibcVersion),
		},
	}
}

func MockIBCChannelCloseInit(channelID string, ordering types.IBCOrder, ibcVersion string) types.IBCChannelCloseMsg {
	return types.IBCChannelCloseMsg{
		CloseInit: &types.IBCCloseInit{
			Channel: MockIBCChannel(channelID, ordering, ibcVersion),
		},
	}
}

func MockIBCChannelCloseConfirm(channelID string, ordering types.IBCOrder, ibcVersion string) types.IBCChannelCloseMsg {
	return types.IBCChannelCloseMsg{
		CloseConfirm: &types.IBCCloseConfirm{
			Channel: MockIBCChannel(channelID, ordering, ibcVersion),
		},
	}
}

func MockIBCPacket(myChannel string, sequence uint64, data []byte) types.IBCPacket {
	timeout := MockBlockTime + 120_000_000_000
	return types.IBCPacket{
		Data: data,
		Src: types.IBCEndpoint{
			PortID:    MockContractPort,
			ChannelID: myChannel,
		},
		Dest: types.IBCEndpoint{
			PortID:    HostPortID,
			ChannelID: "channel-7",
		},
		Sequence: sequence,
		Timeout:  types.IBCTimeout{Timestamp: &timeout},
	}
}

func MockIBCPacketAck(myChannel string, sequence uint64, ack []byte) types.IBCPacketAckMsg {
	return types.IBCPacketAckMsg{
		Acknowledgement: types.IBCAcknowledgement{Data: ack},
		OriginalPacket:  MockIBCPacket(myChannel, sequence, nil),
		Relayer:         "relayer",
	}
}

func MockIBCPacketTimeout(myChannel string, sequence uint64) types.IBCPacketTimeoutMsg {
	return types.IBCPacketTimeoutMsg{
		Packet:  MockIBCPacket(myChannel, sequence, nil),
		Relayer: "relayer",
	}
}
