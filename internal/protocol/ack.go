package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/gogo/protobuf/proto"

	"github.com/CosmWasm/wasmicq/types"
)

// Outcomes of a processed acknowledgement, reported in the "outcome" attribute.
const (
	OutcomeResult = "result"
	OutcomeError  = "error"
	OutcomeEmpty  = "empty"
)

// A successful acknowledgement is unwrapped one layer at a time:
//
//	{"result": <packet ack>}                   DecodeAcknowledgement
//	{"data": <CosmosResponse>}                 DecodePacketAck
//	CosmosResponse{responses: [ResponseQuery]} DecodeCosmosResponse
//	ResponseQuery.value                        DecodeBalanceResponse / DecodeTwapResponse
//
// Each decoder reports its own layer so a failure can be located.

// DecodeAcknowledgement decodes the outer result/error envelope.
func DecodeAcknowledgement(bz []byte) (types.Acknowledgement, error) {
	var ack types.Acknowledgement
	if err := json.Unmarshal(bz, &ack); err != nil {
		return types.Acknowledgement{}, types.MalformedAck{Err: err}
	}
	return ack, nil
}

// DecodePacketAck decodes the JSON structure carried in the result variant.
func DecodePacketAck(result []byte) (*types.InterchainQueryPacketAck, error) {
	var raw struct {
		Data *[]byte `json:"data"`
	}
	if err := json.Unmarshal(result, &raw); err != nil {
		return nil, types.MalformedResponse{Layer: types.LayerPacketAck, Err: err}
	}
	if raw.Data == nil {
		return nil, types.MalformedResponse{Layer: types.LayerPacketAck, Err: errors.New("missing data field")}
	}
	return &types.InterchainQueryPacketAck{Data: *raw.Data}, nil
}

// DecodeCosmosResponse decodes the protobuf response batch.
func DecodeCosmosResponse(bz []byte) (*types.CosmosResponse, error) {
	var res types.CosmosResponse
	if err := proto.Unmarshal(bz, &res); err != nil {
		return nil, types.MalformedResponse{Layer: types.LayerCosmosResponse, Err: err}
	}
	return &res, nil
}

// DecodeBalanceResponse decodes the value of a bank balance response.
func DecodeBalanceResponse(value []byte) (types.Coin, error) {
	var res types.QueryBalanceResponse
	if err := proto.Unmarshal(value, &res); err != nil {
		return types.Coin{}, types.MalformedResponse{Layer: types.LayerQueryResponse, Err: err}
	}
	if res.Balance == nil {
		return types.Coin{}, types.MalformedResponse{Layer: types.LayerQueryResponse, Err: errors.New("missing balance")}
	}
	return res.Balance.ToCoin(), nil
}

// DecodeTwapResponse decodes the value of a TWAP response into the decimal price string.
func DecodeTwapResponse(value []byte) (string, error) {
	var res types.ArithmeticTwapToNowResponse
	if err := proto.Unmarshal(value, &res); err != nil {
		return "", types.MalformedResponse{Layer: types.LayerQueryResponse, Err: err}
	}
	if res.ArithmeticTwap == "" {
		return "", types.MalformedResponse{Layer: types.LayerQueryResponse, Err: errors.New("missing arithmetic_twap")}
	}
	return res.ArithmeticTwap, nil
}

// EncodeResultAck builds the acknowledgement a query host returns for a
// successfully executed batch.
func EncodeResultAck(responses ...*types.ResponseQuery) ([]byte, error) {
	batch, err := proto.Marshal(&types.CosmosResponse{Responses: responses})
	if err != nil {
		return nil, fmt.Errorf("encode response batch: %w", err)
	}
	// an empty batch must still be sent as "" rather than null
	if batch == nil {
		batch = []byte{}
	}
	inner, err := json.Marshal(types.InterchainQueryPacketAck{Data: batch})
	if err != nil {
		return nil, err
	}
	return json.Marshal(types.NewResultAcknowledgement(inner))
}

// EncodeErrorAck builds the acknowledgement a query host returns when it
// could not execute the batch.
func EncodeErrorAck(msg string) ([]byte, error) {
	return json.Marshal(types.NewErrorAcknowledgement(msg))
}

// responseError renders a failed remote query the way the sdk reports it.
func responseError(res *types.ResponseQuery) string {
	return fmt.Sprintf("%s/%d: %s", res.Codespace, res.Code, res.Log)
}

// OnAck processes the acknowledgement of the packet sent with sequence.
//
// The sequence is always recorded as the last acknowledged one. An error
// acknowledgement or a failed remote query is stored as an error record and
// does not fail the call; a malformed acknowledgement does.
func (h *Handler) OnAck(ack []byte, sequence uint64) (*types.IBCBasicResponse, error) {
	if err := h.state.SetLastAcknowledged(sequence); err != nil {
		return nil, fmt.Errorf("save last acknowledged sequence: %w", err)
	}

	pending, err := h.state.PendingRequest(sequence)
	if err != nil {
		return nil, fmt.Errorf("load pending request %d: %w", sequence, err)
	}
	if err := h.checkNotTerminal(sequence, pending); err != nil {
		return nil, err
	}

	res := types.NewIBCBasicResponse("ibc_packet_ack").
		AddAttribute("sequence", strconv.FormatUint(sequence, 10))

	decoded, err := DecodeAcknowledgement(ack)
	if err != nil {
		h.logger.Error().Err(err).Uint64("sequence", sequence).Msg("acknowledgement rejected")
		return nil, err
	}
	if !decoded.Success() {
		msg := decoded.ErrorMessage()
		if err := h.fail(sequence, pending, msg); err != nil {
			return nil, err
		}
		return res.AddAttribute("outcome", OutcomeError).AddAttribute("error", msg), nil
	}

	outcome, msg, err := h.onSuccess(decoded.Result, sequence, pending)
	if err != nil {
		h.logger.Error().Err(err).Uint64("sequence", sequence).Msg("acknowledgement rejected")
		return nil, err
	}
	res.AddAttribute("outcome", outcome)
	if outcome == OutcomeError {
		res.AddAttribute("error", msg)
	}
	return res, nil
}

// checkNotTerminal rejects a second acknowledgement for the same sequence.
func (h *Handler) checkNotTerminal(sequence uint64, pending *types.PendingRequest) error {
	if pending != nil && (pending.Status == types.StatusAcknowledged || pending.Status == types.StatusFailed) {
		return types.AlreadyAcknowledged{Sequence: sequence}
	}
	done, err := h.state.HasOutcome(sequence)
	if err != nil {
		return fmt.Errorf("load outcome %d: %w", sequence, err)
	}
	if done {
		return types.AlreadyAcknowledged{Sequence: sequence}
	}
	return nil
}

// onSuccess unwraps a result acknowledgement. It returns the outcome and,
// for OutcomeError, the error message that was recorded.
func (h *Handler) onSuccess(result []byte, sequence uint64, pending *types.PendingRequest) (string, string, error) {
	packetAck, err := DecodePacketAck(result)
	if err != nil {
		return "", "", err
	}
	batch, err := DecodeCosmosResponse(packetAck.Data)
	if err != nil {
		return "", "", err
	}
	// only one request is sent per packet, so only the first slot matters
	if len(batch.Responses) == 0 {
		h.logger.Info().Uint64("sequence", sequence).Msg("acknowledgement without responses")
		if err := h.setStatus(pending, types.StatusAcknowledged); err != nil {
			return "", "", err
		}
		return OutcomeEmpty, "", nil
	}
	first := batch.Responses[0]
	if first == nil {
		first = &types.ResponseQuery{}
	}

	if !first.IsOK() {
		msg := responseError(first)
		if err := h.fail(sequence, pending, msg); err != nil {
			return "", "", err
		}
		return OutcomeError, msg, nil
	}
	if pending == nil {
		return "", "", types.UnknownRequest{Sequence: sequence}
	}

	switch pending.Path {
	case types.BalanceQueryPath:
		coin, err := DecodeBalanceResponse(first.Value)
		if err != nil {
			return "", "", err
		}
		if err := h.state.SaveBalance(sequence, coin); err != nil {
			return "", "", fmt.Errorf("save balance %d: %w", sequence, err)
		}
		h.logger.Info().
			Uint64("sequence", sequence).
			Str("denom", coin.Denom).
			Str("amount", coin.Amount).
			Msg("balance received")
	case types.TwapQueryPath:
		price, err := DecodeTwapResponse(first.Value)
		if err != nil {
			return "", "", err
		}
		if err := h.state.SavePrice(sequence, price); err != nil {
			return "", "", fmt.Errorf("save price %d: %w", sequence, err)
		}
		h.logger.Info().
			Uint64("sequence", sequence).
			Str("price", price).
			Msg("price received")
	default:
		return "", "", types.MalformedResponse{
			Layer: types.LayerQueryResponse,
			Err:   fmt.Errorf("no decoder for path %q", pending.Path),
		}
	}

	if err := h.setStatus(pending, types.StatusAcknowledged); err != nil {
		return "", "", err
	}
	return OutcomeResult, "", nil
}

// fail stores msg as the error record of sequence.
func (h *Handler) fail(sequence uint64, pending *types.PendingRequest, msg string) error {
	if err := h.state.SaveQueryError(sequence, msg); err != nil {
		return fmt.Errorf("save error %d: %w", sequence, err)
	}
	h.logger.Info().Uint64("sequence", sequence).Str("error", msg).Msg("query failed on host")
	return h.setStatus(pending, types.StatusFailed)
}

func (h *Handler) setStatus(pending *types.PendingRequest, status types.RequestStatus) error {
	if pending == nil {
		return nil
	}
	pending.Status = status
	if err := h.state.SavePendingRequest(*pending); err != nil {
		return fmt.Errorf("save pending request %d: %w", pending.Sequence, err)
	}
	return nil
}
