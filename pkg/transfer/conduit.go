/*
   D64Kit - 1541 disk image encoder
   Copyright (c) 2021, Alexander Vollschwitz

   This file is part of D64Kit.

   D64Kit is free software: you can redistribute it and/or modify
   it under the terms of the GNU General Public License as published by
   the Free Software Foundation, either version 3 of the License, or
   (at your option) any later version.

   D64Kit is distributed in the hope that it will be useful,
   but WITHOUT ANY WARRANTY; without even the implied warranty of
   MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
   GNU General Public License for more details.

   You should have received a copy of the GNU General Public License
   along with D64Kit. If not, see <http://www.gnu.org/licenses/>.
*/

package transfer

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/jacobsa/go-serial/serial"
	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/d64kit/pkg/d64/geometry"
	"github.com/xelalexv/d64kit/pkg/d64/raw"
)

//
const commandLength = 4

// frame: command, track, sector, sector data, checksum
const frameLength = commandLength + 2 + geometry.SectorSize + 1

// field layout of a sector frame; the checksum covers the payload field
var frameIndex = map[string][2]int{
	"command":  {0, commandLength},
	"track":    {commandLength, 1},
	"sector":   {commandLength + 1, 1},
	"data":     {commandLength + 2, geometry.SectorSize},
	"payload":  {commandLength, geometry.SectorSize + 2},
	"checksum": {frameLength - 1, 1},
}

//
var (
	helloAdapter = []byte("hlo6")
	helloDaemon  = []byte("hlod")
	cmdSector    = []byte("sctr")
	cmdDone      = []byte("done")
	cmdAck       = []byte("ack ")
	cmdNak       = []byte("nak ")
)

//
var (
	ErrNoAck  = errors.New("frame not acknowledged")
	ErrNoSync = errors.New("no hello from adapter")
)

// openPort is replaced in tests
var openPort = func(p string) (io.ReadWriteCloser, error) {
	return serial.Open(serial.OpenOptions{
		PortName:        p,
		BaudRate:        1000000,
		DataBits:        8,
		StopBits:        1,
		MinimumReadSize: 1,
	})
}

//
type conduit struct {
	port    io.ReadWriteCloser
	sendBuf []byte
}

//
func newConduit(port string) (*conduit, error) {
	ret := &conduit{
		sendBuf: make([]byte, frameLength),
	}
	var err error
	ret.port, err = openPort(port)
	return ret, err
}

//
func (c *conduit) close() error {
	return c.port.Close()
}

// syncOnHello scans incoming bytes for the adapter hello, discarding anything
// before it, and answers with the daemon hello. At most limit bytes are
// scanned.
func (c *conduit) syncOnHello(limit int) error {

	log.Info("syncing with adapter")
	hello := make([]byte, commandLength)

	for ix := 0; !bytes.Equal(hello, helloAdapter); ix++ {
		if ix >= limit {
			return fmt.Errorf("%w after %d bytes", ErrNoSync, limit)
		}
		shiftLeft(hello)
		if err := c.receive(hello[len(hello)-1:]); err != nil {
			return err
		}
	}

	if err := c.send(helloDaemon); err != nil {
		return fmt.Errorf("error sending daemon hello: %v", err)
	}

	log.Info("synced with adapter")
	return nil
}

//
func (c *conduit) receive(data []byte) error {
	_, err := io.ReadFull(c.port, data)
	return err
}

//
func (c *conduit) send(data []byte) error {
	_, err := c.port.Write(data)
	return err
}

//
func (c *conduit) receiveCommand() ([]byte, error) {
	data := make([]byte, commandLength)
	if err := c.receive(data); err != nil {
		return nil, err
	}
	return data, nil
}

//
func (c *conduit) fillFrame(ts geometry.TS, data []byte) []byte {
	b := raw.NewBlock(frameIndex, c.sendBuf)
	b.SetSlice("command", cmdSector, 0)
	b.SetByte("track", byte(ts.Track()))
	b.SetByte("sector", byte(ts.Sector()))
	b.SetSlice("data", data, 0)
	b.SetByte("checksum", checksum(c.sendBuf))
	return c.sendBuf
}

// sendConfirmed sends a frame and waits for the adapter's answer. A frame that
// was not acknowledged is sent again, up to retries times.
func (c *conduit) sendConfirmed(frame []byte, retries int) error {

	for attempt := 0; ; attempt++ {

		if err := c.send(frame); err != nil {
			return fmt.Errorf("error sending frame: %v", err)
		}

		reply, err := c.receiveCommand()
		if err != nil {
			return fmt.Errorf("error receiving reply: %v", err)
		}

		switch {
		case bytes.Equal(reply, cmdAck):
			return nil

		case bytes.Equal(reply, cmdNak):
			if attempt >= retries {
				return fmt.Errorf("%w after %d attempts", ErrNoAck, attempt+1)
			}
			log.Debugf("frame rejected, resending (attempt %d)", attempt+2)

		default:
			return fmt.Errorf("%w: unexpected reply '%s'", ErrNoAck, reply)
		}
	}
}

// checksum returns the byte sum of a frame's payload field
func checksum(frame []byte) byte {
	return byte(raw.NewBlock(frameIndex, frame).Sum("payload"))
}

//
func shiftLeft(buf []byte) {
	if len(buf) > 1 {
		for ix := 0; ix < len(buf)-1; ix++ {
			buf[ix] = buf[ix+1]
		}
	}
}
