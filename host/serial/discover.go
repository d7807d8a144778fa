package serial

import (
	"errors"
	"fmt"
	"strings"

	"go.bug.st/serial/enumerator"
)

// ErrBoardNotFound is returned by FindBoard when no known board is attached.
var ErrBoardNotFound = errors.New("no ATmega2560 board found")

// USBID is a USB vendor/product pair as reported by the enumerator.
type USBID struct {
	VID, PID string
}

// KnownBoards lists the USB bridges an Arduino Mega 2560 shows up behind.
var KnownBoards = []USBID{
	{"2341", "0010"}, // Mega 2560, 8U2 bridge
	{"2341", "0042"}, // Mega 2560 R3, 16U2 bridge
	{"2A03", "0042"}, // arduino.org Mega 2560 R3
	{"1A86", "7523"}, // CH340 clones
}

// PortInfo describes one serial port on the host.
type PortInfo struct {
	Name    string
	USB     bool
	VID     string
	PID     string
	Serial  string
	Product string
}

// IsBoard reports whether the port sits behind one of KnownBoards.
func (p PortInfo) IsBoard() bool {
	if !p.USB {
		return false
	}
	for _, id := range KnownBoards {
		if strings.EqualFold(p.VID, id.VID) && strings.EqualFold(p.PID, id.PID) {
			return true
		}
	}
	return false
}

// ListPorts enumerates the serial ports on the host.
func ListPorts() ([]PortInfo, error) {
	details, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, fmt.Errorf("enumerating ports: %w", err)
	}
	return fromDetails(details), nil
}

// FindBoard returns the device path of the first attached board.
func FindBoard() (string, error) {
	ports, err := ListPorts()
	if err != nil {
		return "", err
	}
	return pickBoard(ports)
}

func pickBoard(ports []PortInfo) (string, error) {
	for _, p := range ports {
		if p.IsBoard() && p.Name != "" {
			return p.Name, nil
		}
	}
	return "", ErrBoardNotFound
}

func fromDetails(details []*enumerator.PortDetails) []PortInfo {
	out := make([]PortInfo, 0, len(details))
	for _, d := range details {
		if d == nil {
			continue
		}
		out = append(out, PortInfo{
			Name:    d.Name,
			USB:     d.IsUSB,
			VID:     d.VID,
			PID:     d.PID,
			Serial:  d.SerialNumber,
			Product: d.Product,
		})
	}
	return out
}
