// Package protocol frames random byte blocks sent from the board to the host.
//
// A frame is: len | seq | payload | crc16 hi | crc16 lo | 0x7E
// len counts the whole frame. The payload is a VLQ message id followed by
// VLQ-encoded arguments.
package protocol

// Version is the firmware protocol version reported in MsgIdentify
const Version = "0.1.0"

// Frame layout constants
const (
	FrameHeaderSize  = 2 // len, seq
	FrameTrailerSize = 3 // crc hi, crc lo, sync
	FrameMin         = FrameHeaderSize + FrameTrailerSize
	FrameMax         = 64
	PayloadMax       = FrameMax - FrameMin

	FramePosLen = 0
	FramePosSeq = 1

	SyncByte = 0x7E

	// Sequence byte: high nibble fixed, low nibble counts frames
	SeqDest = 0x10
	SeqMask = 0x0F
)

// BlockMax is the largest data block carried by one MsgRandomBlock.
// Leaves room for the message id, mode, block counter and length prefix.
const BlockMax = 32
