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
	"errors"
	"os"
	"strings"
	"testing"

	log "github.com/sirupsen/logrus"
)

type testSettings struct {
	Name    string
	Count   int
	Verbose bool
	Input   string
}

func newTestCommand(s *testSettings) *Command {
	var c *Command
	c = NewCommand("test", "test", "", "", "", func() error {
		return c.ParseSettings()
	})
	c.AddSetting(&s.Name, "name", "n", "D64_TEST_NAME", "default", "name", false)
	c.AddSetting(&s.Count, "count", "c", "D64_TEST_COUNT", 3, "count", false)
	c.AddSetting(&s.Verbose, "verbose", "v", "", nil, "verbose", false)
	c.AddSetting(&s.Input, "input", "i", "D64_TEST_INPUT", nil, "input", true)
	return c
}

func setEnv(t *testing.T, env map[string]string) {
	for k, v := range env {
		if err := os.Setenv(k, v); err != nil {
			t.Fatal(err)
		}
		key := k
		t.Cleanup(func() { os.Unsetenv(key) })
	}
}

func TestSettingPrecedence(t *testing.T) {

	var tests = []struct {
		name string
		env  map[string]string
		args []string
		want testSettings
	}{
		{"defaults", nil, []string{"-i", "x"},
			testSettings{Name: "default", Count: 3, Input: "x"}},
		{"env", map[string]string{"D64_TEST_NAME": "env",
			"D64_TEST_COUNT": "7", "D64_TEST_INPUT": "in"}, []string{"-v"},
			testSettings{Name: "env", Count: 7, Verbose: true, Input: "in"}},
		{"flag wins", map[string]string{"D64_TEST_NAME": "env"},
			[]string{"-n", "flag", "--count", "9", "-i", "x"},
			testSettings{Name: "flag", Count: 9, Input: "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setEnv(t, tt.env)
			var s testSettings
			if err := newTestCommand(&s).Execute(tt.args); err != nil {
				t.Fatal(err)
			}
			if s != tt.want {
				t.Errorf("got %+v, want %+v", s, tt.want)
			}
		})
	}
}

func TestSettingRequired(t *testing.T) {

	var s testSettings
	err := newTestCommand(&s).Execute([]string{"-n", "x"})
	if err == nil {
		t.Fatal("no error for missing required setting")
	}
	if !strings.Contains(err.Error(), "--input") ||
		!strings.Contains(err.Error(), "D64_TEST_INPUT") {
		t.Errorf("unhelpful message: %v", err)
	}
}

func TestSettingSetupErrors(t *testing.T) {

	var str string
	var f float64

	var tests = []struct {
		name  string
		setup func(c *Command)
	}{
		{"env prefix", func(c *Command) {
			c.AddSetting(&str, "a", "", "OTHER_A", nil, "", false)
		}},
		{"required default", func(c *Command) {
			c.AddSetting(&str, "a", "", "", "x", "", true)
		}},
		{"default type", func(c *Command) {
			c.AddSetting(&str, "a", "", "", 5, "", false)
		}},
		{"target type", func(c *Command) {
			c.AddSetting(&f, "a", "", "", nil, "", false)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ran := false
			c := NewCommand("test", "test", "", "", "", func() error {
				ran = true
				return nil
			})
			tt.setup(c)
			if err := c.Execute(nil); !errors.Is(err, ErrBadSetting) {
				t.Errorf("got %v, want ErrBadSetting", err)
			}
			if ran {
				t.Error("command ran despite bad setting")
			}
		})
	}
}

func TestConfigureLogging(t *testing.T) {

	level := log.GetLevel()
	defer log.SetLevel(level)
	defer log.SetReportCaller(false)

	env := map[string]string{"LOG_LEVEL": "trace", "LOG_METHODS": "y"}
	if err := configureLogging(func(k string) string {
		return env[k]
	}); err != nil {
		t.Fatal(err)
	}
	if log.GetLevel() != log.TraceLevel {
		t.Errorf("level: got %v", log.GetLevel())
	}

	env["LOG_LEVEL"] = "loud"
	if err := configureLogging(func(k string) string {
		return env[k]
	}); err == nil {
		t.Error("no error for invalid level")
	}
}

func TestConfirmOverwrite(t *testing.T) {

	file := t.TempDir() + "/exists.d64"
	writeFile(t, file, []byte{0})

	orig := confirmInput
	defer func() { confirmInput = orig }()

	for _, tt := range []struct {
		answer string
		force  bool
		want   bool
	}{
		{"y\n", false, true},
		{"n\n", false, false},
		{"\n", false, false},
		{"", true, true},
	} {
		confirmInput = strings.NewReader(tt.answer)
		if got := confirmOverwrite(file, tt.force); got != tt.want {
			t.Errorf("answer %q, force %v: got %v", tt.answer, tt.force, got)
		}
	}

	if !confirmOverwrite(file+".new", false) {
		t.Error("confirmation needed for new file")
	}
}
