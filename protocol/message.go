package protocol

import "errors"

var ErrUnknownMessage = errors.New("unknown message id")

// Message ids
const (
	MsgIdentify    = 0 // version=%s mode=%u
	MsgRandomBlock = 1 // mode=%u seq=%u data=%*s
)

// Identify is sent once after reset.
type Identify struct {
	Version string
	Mode    uint8
}

// RandomBlock carries generated bytes. Seq counts blocks since reset and
// lets the host spot gaps.
type RandomBlock struct {
	Mode uint8
	Seq  uint32
	Data []byte
}

// AppendIdentify appends an identify payload.
func AppendIdentify(dst []byte, m Identify) []byte {
	dst = AppendVLQUint(dst, MsgIdentify)
	dst = AppendVLQString(dst, m.Version)
	return AppendVLQUint(dst, uint32(m.Mode))
}

// AppendRandomBlock appends a random block payload. Data beyond BlockMax is
// not sent.
func AppendRandomBlock(dst []byte, m RandomBlock) []byte {
	data := m.Data
	if len(data) > BlockMax {
		data = data[:BlockMax]
	}
	dst = AppendVLQUint(dst, MsgRandomBlock)
	dst = AppendVLQUint(dst, uint32(m.Mode))
	dst = AppendVLQUint(dst, m.Seq)
	return AppendVLQBytes(dst, data)
}

// DecodeMessage parses a frame payload into *Identify or *RandomBlock.
func DecodeMessage(payload []byte) (interface{}, error) {
	data := payload
	id, err := DecodeVLQUint(&data)
	if err != nil {
		return nil, err
	}

	switch id {
	case MsgIdentify:
		version, err := DecodeVLQString(&data)
		if err != nil {
			return nil, err
		}
		mode, err := DecodeVLQUint(&data)
		if err != nil {
			return nil, err
		}
		return &Identify{Version: version, Mode: uint8(mode)}, nil

	case MsgRandomBlock:
		mode, err := DecodeVLQUint(&data)
		if err != nil {
			return nil, err
		}
		seq, err := DecodeVLQUint(&data)
		if err != nil {
			return nil, err
		}
		block, err := DecodeVLQBytes(&data)
		if err != nil {
			return nil, err
		}
		out := make([]byte, len(block))
		copy(out, block)
		return &RandomBlock{Mode: uint8(mode), Seq: seq, Data: out}, nil
	}

	return nil, ErrUnknownMessage
}
