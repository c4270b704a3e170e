package lib

import (
	"fmt"
	"io"
	"time"

	"blobslide/internal/log"
	"go.bug.st/serial"
)

// Open Interface drive radius special cases
const (
	StraightRadius int16 = 32767
	SpinCounterCW  int16 = 1
	SpinCW         int16 = -1
)

// Open Interface opcodes used by the mirror
const (
	cmdStart byte = 128
	cmdSafe  byte = 131
	cmdDrive byte = 137
)

// Roomba speaks the iRobot Open Interface over a serial link
type Roomba struct {
	port     io.WriteCloser
	portName string
	baudRate int
	cmdDelay time.Duration // pause after single byte commands
}

func NewRoomba(portName string, baudRate int) *Roomba {
	return &Roomba{
		portName: portName,
		baudRate: baudRate,
		cmdDelay: 100 * time.Millisecond,
	}
}

// Connect opens the serial port and wakes the robot by toggling RTS
func (r *Roomba) Connect() error {
	mode := &serial.Mode{
		BaudRate: r.baudRate,
		Parity:   serial.NoParity,
		DataBits: 8,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(r.portName, mode)
	if err != nil {
		return fmt.Errorf("open serial port %s: %w", r.portName, err)
	}

	// Not every adapter wires RTS; a failure here is not fatal.
	if err := pulseRTS(port, time.Sleep); err != nil {
		log.Warn("roomba wake skipped", "port", r.portName, "error", err)
	}

	r.port = port
	return nil
}

type rtsSetter interface {
	SetRTS(rts bool) error
}

// pulseRTS drops then raises RTS, which resets the robot, and waits for it to boot
func pulseRTS(port rtsSetter, sleep func(time.Duration)) error {
	if err := port.SetRTS(false); err != nil {
		return fmt.Errorf("clear RTS: %w", err)
	}
	sleep(100 * time.Millisecond)
	if err := port.SetRTS(true); err != nil {
		return fmt.Errorf("set RTS: %w", err)
	}
	sleep(2 * time.Second)
	return nil
}

func (r *Roomba) Close() error {
	if r.port != nil {
		return r.port.Close()
	}
	return nil
}

func (r *Roomba) write(b []byte) error {
	if r.port == nil {
		return fmt.Errorf("roomba %s: not connected", r.portName)
	}
	if _, err := r.port.Write(b); err != nil {
		return fmt.Errorf("roomba %s: write: %w", r.portName, err)
	}
	return nil
}

func (r *Roomba) sendCommand(cmd byte) error {
	err := r.write([]byte{cmd})
	time.Sleep(r.cmdDelay)
	return err
}

func (r *Roomba) Start() error {
	return r.sendCommand(cmdStart)
}

func (r *Roomba) SafeMode() error {
	return r.sendCommand(cmdSafe)
}

// Drive controls the wheels.
// velocity: -500 to 500 mm/s
// radius: -2000 to 2000 mm, StraightRadius, SpinCounterCW or SpinCW
func (r *Roomba) Drive(velocity int16, radius int16) error {
	return r.write([]byte{
		cmdDrive,
		byte(velocity >> 8),
		byte(velocity & 0xFF),
		byte(radius >> 8),
		byte(radius & 0xFF),
	})
}

func (r *Roomba) Stop() error {
	return r.Drive(0, 0)
}
