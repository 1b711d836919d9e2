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
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/d64kit/pkg/d64"
	"github.com/xelalexv/d64kit/pkg/d64/geometry"
)

//
const (
	DefaultRetries = 3
	syncLimit      = 4096
)

// Pusher streams disk images to a drive adapter over a serial line.
type Pusher struct {
	device  string
	retries int
}

//
func NewPusher(device string) *Pusher {
	return &Pusher{device: device, retries: DefaultRetries}
}

// Push sends all sectors of img, in track/sector order, followed by a done
// command. Push returns once the adapter acknowledged the done command.
func (p *Pusher) Push(img *d64.Image) error {

	start := time.Now()

	c, err := newConduit(p.device)
	if err != nil {
		return err
	}
	defer c.close()

	if err := c.syncOnHello(syncLimit); err != nil {
		return err
	}

	count := 0
	for ts := geometry.First(); ts.IsValid(); ts = ts.Next() {
		if err := c.sendConfirmed(
			c.fillFrame(ts, img.Sector(ts)), p.retries); err != nil {
			return err
		}
		count++
		log.WithField("sector", ts).Trace("sector sent")
	}

	if err := c.sendConfirmed(cmdDone, p.retries); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"device":   p.device,
		"sectors":  count,
		"duration": time.Since(start),
	}).Info("image pushed")

	return nil
}
