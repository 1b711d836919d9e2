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
	"io"
	"testing"

	"github.com/xelalexv/d64kit/pkg/d64"
	"github.com/xelalexv/d64kit/pkg/d64/geometry"
)

// fakeAdapter answers frames written to it synchronously; the first rejects
// frames are answered with nak
type fakeAdapter struct {
	out     bytes.Buffer
	image   []byte
	synced  bool
	done    bool
	closed  bool
	rejects int
	frames  int
}

func newFakeAdapter(preamble string, rejects int) *fakeAdapter {
	f := &fakeAdapter{
		image:   make([]byte, geometry.ImageSize()),
		rejects: rejects,
	}
	f.out.WriteString(preamble)
	return f
}

func (f *fakeAdapter) Read(p []byte) (int, error) {
	if f.out.Len() == 0 {
		return 0, io.EOF
	}
	return f.out.Read(p)
}

func (f *fakeAdapter) Write(p []byte) (int, error) {

	switch {
	case bytes.Equal(p, helloDaemon):
		f.synced = true

	case bytes.Equal(p, cmdDone):
		f.done = true
		f.out.Write(cmdAck)

	case len(p) == frameLength && bytes.Equal(p[:commandLength], cmdSector):
		f.frames++
		if f.rejects > 0 {
			f.rejects--
			f.out.Write(cmdNak)
			break
		}
		if checksum(p) != p[frameLength-1] {
			f.out.Write(cmdNak)
			break
		}
		ts, err := geometry.NewTS(int(p[commandLength]), int(p[commandLength+1]))
		if err != nil {
			f.out.Write(cmdNak)
			break
		}
		copy(ts.Slice(f.image), p[commandLength+2:frameLength-1])
		f.out.Write(cmdAck)

	default:
		f.out.WriteString("????")
	}

	return len(p), nil
}

func (f *fakeAdapter) Close() error {
	f.closed = true
	return nil
}

func withAdapter(t *testing.T, f *fakeAdapter) {
	orig := openPort
	openPort = func(string) (io.ReadWriteCloser, error) {
		return f, nil
	}
	t.Cleanup(func() { openPort = orig })
}

func testImage(t *testing.T) *d64.Image {
	img, err := d64.NewAssembler().Encode(
		d64.File{Name: "DEMO", Data: bytes.Repeat([]byte{0xea}, 1000)})
	if err != nil {
		t.Fatal(err)
	}
	return img
}

func TestPush(t *testing.T) {

	f := newFakeAdapter("\x00\x17noisehlo6", 0)
	withAdapter(t, f)

	img := testImage(t)
	if err := NewPusher("/dev/fake").Push(img); err != nil {
		t.Fatal(err)
	}

	if !f.synced || !f.done || !f.closed {
		t.Errorf("synced=%v, done=%v, closed=%v", f.synced, f.done, f.closed)
	}
	if f.frames != geometry.TotalSectors() {
		t.Errorf("frames: got %d, want %d", f.frames, geometry.TotalSectors())
	}
	if !bytes.Equal(f.image, img.Bytes()) {
		t.Error("received image differs")
	}
}

func TestPushRetries(t *testing.T) {

	var tests = []struct {
		name    string
		rejects int
		want    error
	}{
		{"recovers", DefaultRetries, nil},
		{"gives up", DefaultRetries + 1, ErrNoAck},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakeAdapter("hlo6", tt.rejects)
			withAdapter(t, f)
			err := NewPusher("/dev/fake").Push(testImage(t))
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestPushNoHello(t *testing.T) {

	f := newFakeAdapter("hlo1hlo2", 0)
	withAdapter(t, f)

	if err := NewPusher("/dev/fake").Push(testImage(t)); err == nil {
		t.Fatal("no error without adapter hello")
	}
	if f.synced {
		t.Error("daemon hello sent without adapter hello")
	}
}

func TestFillFrame(t *testing.T) {

	c := &conduit{sendBuf: make([]byte, frameLength)}
	data := make([]byte, geometry.SectorSize)
	data[0] = 0xff
	data[255] = 0x10

	frame := c.fillFrame(geometry.MustTS(2, 1), data)

	if !bytes.Equal(frame[:commandLength], cmdSector) {
		t.Errorf("command: got %q", frame[:commandLength])
	}
	if frame[commandLength] != 2 || frame[commandLength+1] != 1 {
		t.Errorf("address: got %d/%d", frame[commandLength], frame[commandLength+1])
	}
	// 2 + 1 + 0xff + 0x10 = 0x112
	if got := frame[frameLength-1]; got != 0x12 {
		t.Errorf("checksum: got %02x, want 12", got)
	}
}
