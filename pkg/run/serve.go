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

package run

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/d64kit/pkg/control"
)

//
func NewServe(version string) *Serve {

	s := &Serve{version: version}
	s.Runner = *NewRunner(
		`serve [-a|--address {address}] [-p|--port {port}] [-r|--repo {repo base folder}]`,
		"API server command",
		`Use the serve command for running the API server. The server creates disk images
from uploaded program files or repository references, and lists or extracts the
contents of uploaded disk images.`,
		"", `- Logging can be configured with these environment variables:

  LOG_FORMAT		set to 'json' for JSON logging
  LOG_FORCE_COLORS	set to non-empty for forcing colorized log entries
  LOG_METHODS		set to non-empty for including methods in log
  LOG_LEVEL		panic, fatal, error, warn, info, debug, trace

`+runnerHelpEpilogue, s.Run)

	s.AddBaseSettings()
	s.AddSetting(&s.Address, "address", "a", "", nil,
		"listen address, all interfaces when omitted", false)
	s.AddSetting(&s.Repository, "repo", "r", "D64_REPO", nil,
		`program repo base folder; when omitted, creating images
from files on the server's file system is prohibited`, false)

	return s
}

//
type Serve struct {
	//
	Runner
	//
	Address    string
	Repository string
	//
	version string
}

//
func (s *Serve) Run() error {

	if err := s.ParseSettings(); err != nil {
		return err
	}

	wg := &sync.WaitGroup{}
	wg.Add(1)
	failed := make(chan error, 1)

	api := control.NewAPIServer(
		fmt.Sprintf("%s:%d", s.Address, s.Port), s.Repository, s.version)
	go func() {
		defer wg.Done()
		if err := api.Serve(); err != nil {
			log.Errorf("API server closed with error: %v", err)
			failed <- err
		} else {
			log.Info("API server stopped")
		}
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	sigCount := 0
	done := make(chan bool)

	for {

		select {

		case sig := <-sigs: // interrupt signal
			log.WithField("signal", sig).Info("signal received")
			sigCount++

			switch sigCount {

			case 1:
				go func() {
					log.Info("shutting down, hit Ctrl-C twice to force exit...")
					api.Stop()
					wg.Wait()
					log.Info("D64Kit stopped")
					done <- true
				}()

			case 2:
				log.Warn("shutdown in progress, hit Ctrl-C again to force exit")

			default:
				log.Warn("forcing server to stop immediately")
				os.Exit(1)
			}

		case <-done: // shutdown sequence complete
			return nil

		case err := <-failed:
			return err
		}
	}
}
