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

package main

import (
	"fmt"
	"os"

	"github.com/xelalexv/d64kit/pkg/run"
)

//
var D64KitVersion string

//
func synopsis() {
	fmt.Print(`
synopsis: d64ctl {make|ls|dump|extract|push|serve|status|version} ...

run 'd64ctl {action} -h|--help' to see detailed info

`)
}

//
func version() {
	fmt.Printf("\nD64Kit %s\n\n", D64KitVersion)
}

// dieOnError exits with status 1 if e is not nil, after printing it.
func dieOnError(e error) {
	if e != nil {
		fmt.Fprintf(os.Stderr, "%v\n", e)
		os.Exit(1)
	}
}

//
func main() {

	var action string
	var args []string

	if len(os.Args) > 1 {
		action = os.Args[1]
	}

	if len(os.Args) > 2 {
		args = os.Args[2:]
	}

	switch action {

	case "make":
		dieOnError(run.NewMake().Execute(args))

	case "ls":
		dieOnError(run.NewList().Execute(args))

	case "dump":
		dieOnError(run.NewDump().Execute(args))

	case "extract":
		dieOnError(run.NewExtract().Execute(args))

	case "push":
		dieOnError(run.NewPush().Execute(args))

	case "serve":
		version()
		dieOnError(run.NewServe(D64KitVersion).Execute(args))

	case "status":
		dieOnError(run.NewStatus().Execute(args))

	case "version":
		version()

	case "":
		fallthrough
	case "-h":
		fallthrough
	case "--help":
		synopsis()

	default:
		dieOnError(fmt.Errorf("unknown action: %s", action))
	}
}
