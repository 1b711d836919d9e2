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

package control

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/d64kit/pkg/d64"
	"github.com/xelalexv/d64kit/pkg/repo"
)

// maximum size of request bodies
const maxBodySize = 1048576

//
type APIServer interface {
	Serve() error
	Stop() error
}

//
func NewAPIServer(addr, repository, version string) APIServer {
	return &api{address: addr, repository: repository, version: version}
}

//
type api struct {
	address    string
	repository string
	version    string
	server     *http.Server
}

//
func (a *api) Serve() error {

	addr := a.address
	if len(strings.Split(addr, ":")) < 2 {
		addr = fmt.Sprintf("%s:8064", a.address)
	}

	log.Infof("D64Kit API starts listening on %s", addr)
	a.server = &http.Server{Addr: addr, Handler: a.router()}

	err := a.server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

//
func (a *api) Stop() error {
	if a.server != nil {
		log.Info("API server stopping...")
		err := a.server.Shutdown(context.Background())
		a.server = nil
		return err
	}
	return nil
}

//
func (a *api) router() *mux.Router {

	router := mux.NewRouter().StrictSlash(true)

	addRoute(router, "status", "GET", "/status", a.status)
	addRoute(router, "image", "PUT", "/image", a.image)
	addRoute(router, "ls", "PUT", "/list", a.list)
	addRoute(router, "dump", "PUT", "/dump", a.dump)
	addRoute(router, "extract", "PUT", "/extract", a.extract)

	return router
}

//
func addRoute(r *mux.Router, name, method, pattern string,
	handler http.HandlerFunc) {
	r.Methods(method).
		Path(pattern).
		Name(name).
		Handler(requestLogger(handler, name))
}

//
func requestLogger(inner http.Handler, name string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		log.WithFields(log.Fields{
			"remote": r.RemoteAddr,
			"method": r.Method,
			"path":   r.RequestURI,
		}).Debugf("API BEGIN | %s", name)

		start := time.Now()
		inner.ServeHTTP(w, r)

		log.WithFields(log.Fields{
			"remote":   r.RemoteAddr,
			"method":   r.Method,
			"path":     r.RequestURI,
			"duration": time.Since(start),
		}).Debugf("API END   | %s", name)
	})
}

// readImage reads a D64 image from the request body.
func readImage(w http.ResponseWriter, req *http.Request) *d64.Image {

	data, err := io.ReadAll(io.LimitReader(req.Body, maxBodySize))
	if handleError(err, http.StatusInternalServerError, w) {
		return nil
	}

	img, err := d64.Open(data)
	if handleError(err, statusFor(err), w) {
		return nil
	}

	return img
}

// statusFor maps errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case d64.IsInternalError(err):
		return http.StatusInternalServerError
	case errors.Is(err, d64.ErrFileNotFound):
		return http.StatusNotFound
	case d64.IsUserError(err), errors.Is(err, d64.ErrInvalidImage),
		errors.Is(err, d64.ErrBrokenChain):
		return http.StatusUnprocessableEntity
	case errors.Is(err, repo.ErrRepoDisabled), errors.Is(err, repo.ErrOutsideRepo),
		errors.Is(err, repo.ErrNotReference):
		return http.StatusNotAcceptable
	default:
		return http.StatusInternalServerError
	}
}

//
func getArg(req *http.Request, arg string) (string, error) {
	ret := req.URL.Query().Get(arg)
	if ret != "" {
		return url.QueryUnescape(ret)
	}
	return ret, nil
}

//
func getIntArg(req *http.Request, arg string) (int, error) {
	if val, err := getArg(req, arg); err != nil {
		return -1, err
	} else {
		if ret, err := strconv.Atoi(val); err != nil {
			return -1, err
		} else {
			return ret, nil
		}
	}
}

//
func setHeaders(h http.Header, json bool) {
	if json {
		h.Set("Content-Type", "application/json; charset=UTF-8")
	} else {
		h.Set("Content-Type", "text/plain; charset=UTF-8")
	}
}

//
func handleError(e error, statusCode int, w http.ResponseWriter) bool {

	if e == nil {
		return false
	}

	if statusCode >= http.StatusInternalServerError {
		log.Errorf("%v", e)
	} else {
		log.Warnf("%v", e)
	}

	setHeaders(w.Header(), false)
	w.WriteHeader(statusCode)
	if _, err := w.Write([]byte(fmt.Sprintf("%v\n", e))); err != nil {
		log.Errorf("problem writing error: %v", err)
	}

	return true
}

//
func sendReply(body []byte, statusCode int, w http.ResponseWriter) {
	setHeaders(w.Header(), false)
	w.WriteHeader(statusCode)
	if _, err := fmt.Fprintf(w, "%s\n", body); err != nil {
		log.Errorf("problem sending reply: %v", err)
	}
}

//
func sendStreamReply(r io.Reader, statusCode int, w http.ResponseWriter) {
	setHeaders(w.Header(), false)
	w.WriteHeader(statusCode)
	if _, err := io.Copy(w, r); err != nil {
		log.Errorf("problem sending reply: %v", err)
	}
}

//
func sendBinaryReply(body []byte, name string, w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/octet-stream")
	if name != "" {
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=\"%s\"", name))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Errorf("problem sending reply: %v", err)
	}
}

//
func sendJSONReply(obj interface{}, statusCode int, w http.ResponseWriter) {
	setHeaders(w.Header(), true)
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(obj); err != nil {
		log.Errorf("problem writing error: %v", err)
	}
}

//
func wantsJSON(req *http.Request) bool {
	return strings.Contains(req.Header.Get("Accept"), "application/json") ||
		req.Header.Get("Content-Type") == "application/json"
}
