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
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

//
const (
	prologueHeader = ""
	epilogueHeader = `
Notes:

`
	// environment variables for settings need to carry this prefix
	envPrefix = "D64_"
)

//
var ErrBadSetting = errors.New("bad setting")

/*
	NewCommand creates a base command instance, wrapping a new Cobra command.
	The exec function is invoked when the command's Execute method is called,
	and its error is handed back to the caller of Execute.
*/
func NewCommand(use, short, long, helpPrologue, helpEpilogue string,
	exec func() error) *Command {

	ret := Command{
		cmd: &cobra.Command{
			Use:   use,
			Short: short,
			Long:  long,
			RunE: func(*cobra.Command, []string) error {
				return exec()
			},
			SilenceErrors:         true,
			SilenceUsage:          true,
			DisableFlagsInUseLine: true,
		},
		config:       viper.New(),
		helpPrologue: helpPrologue,
		helpEpilogue: helpEpilogue,
	}
	ret.helpFunc = ret.cmd.HelpFunc()
	ret.cmd.SetHelpFunc(ret.help)
	return &ret
}

/*
	Command binds each setting to a command line flag, and optionally to an
	environment variable. A flag given on the command line wins over the
	environment variable, which wins over the default. Every command has its
	own Viper instance, so commands created side by side do not share values.

	Mistakes in setting up a command do not end the process. They are
	collected and returned by Execute, before the exec function runs.
*/
type Command struct {
	//
	cmd    *cobra.Command
	config *viper.Viper
	//
	settings []*setting
	setupErr []string
	//
	helpPrologue string
	helpEpilogue string
	helpFunc     func(*cobra.Command, []string)
}

//
func (c *Command) help(cmd *cobra.Command, args []string) {
	if c.helpPrologue != "" {
		fmt.Fprintln(cmd.OutOrStdout(), prologueHeader+c.helpPrologue)
	}
	if c.helpFunc != nil {
		c.helpFunc(cmd, args)
	}
	if c.helpEpilogue != "" {
		fmt.Fprintln(cmd.OutOrStdout(), epilogueHeader+c.helpEpilogue)
	} else {
		fmt.Fprintln(cmd.OutOrStdout())
	}
}

// Execute parses args and runs the command. Empty args fall back to os.Args.
func (c *Command) Execute(args []string) error {
	if len(c.setupErr) > 0 {
		return fmt.Errorf("%w: %s", ErrBadSetting, strings.Join(c.setupErr, "; "))
	}
	if len(args) > 0 {
		c.cmd.SetArgs(args)
	}
	return c.cmd.Execute()
}

/*
	AddSetting adds a setting to this command. target points to the variable
	receiving the value, and needs to be a *string, *int, or *bool. flag and
	short are the long and short command line flags, env is the optional
	environment variable. def is the default value, nil meaning the zero value.
	Required settings cannot have a default.
*/
func (c *Command) AddSetting(target interface{}, flag, short, env string,
	def interface{}, help string, required bool) {

	if env != "" && !strings.HasPrefix(env, envPrefix) {
		c.fail("environment variable %s for '%s' lacks prefix %s",
			env, flag, envPrefix)
		return
	}

	if required && def != nil {
		c.fail("required setting '%s' does not take a default value", flag)
		return
	}

	if env != "" {
		help = fmt.Sprintf("%s (%s)", help, env)
	}

	flags := c.cmd.Flags()
	ok := true

	switch t := target.(type) {

	case *string:
		var d string
		if def != nil {
			d, ok = def.(string)
		}
		flags.StringVarP(t, flag, short, d, help)

	case *int:
		var d int
		if def != nil {
			d, ok = def.(int)
		}
		flags.IntVarP(t, flag, short, d, help)

	case *bool:
		var d bool
		if def != nil {
			d, ok = def.(bool)
		}
		flags.BoolVarP(t, flag, short, d, help)

	default:
		c.fail("setting '%s' has unsupported type %T", flag, target)
		return
	}

	if !ok {
		c.fail("default value for setting '%s' has incorrect type %T", flag, def)
		return
	}

	if err := bind(c.config, flags, flag, env); err != nil {
		c.fail("cannot bind setting '%s': %v", flag, err)
		return
	}

	c.settings = append(c.settings,
		&setting{flag: flag, env: env, required: required, target: target})
}

//
func bind(v *viper.Viper, flags *pflag.FlagSet, flag, env string) error {
	if err := v.BindPFlag(flag, flags.Lookup(flag)); err != nil {
		return err
	}
	if env != "" {
		return v.BindEnv(flag, env)
	}
	return nil
}

//
func (c *Command) fail(msg string, params ...interface{}) {
	c.setupErr = append(c.setupErr, fmt.Sprintf(msg, params...))
}

/*
	ParseSettings places the resolved value of each setting in its target.
	Call this first in the exec function. Missing required settings are
	reported in one error.
*/
func (c *Command) ParseSettings() error {

	var missing []string

	for _, s := range c.settings {
		if !s.resolve(c.config) && s.required {
			missing = append(missing, s.describe())
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("you need to specify %s", strings.Join(missing, ", "))
	}
	return nil
}

//
type setting struct {
	flag     string
	env      string
	required bool
	target   interface{}
}

// resolve copies the value from flag or environment into the target, and
// tells whether the value is not the zero value.
func (s *setting) resolve(v *viper.Viper) bool {
	switch t := s.target.(type) {
	case *string:
		*t = v.GetString(s.flag)
		return *t != ""
	case *int:
		*t = v.GetInt(s.flag)
		return *t != 0
	case *bool:
		*t = v.GetBool(s.flag)
		return *t
	}
	return false
}

//
func (s *setting) describe() string {
	if s.env == "" {
		return fmt.Sprintf("the --%s flag", s.flag)
	}
	return fmt.Sprintf("the --%s flag or the %s environment variable",
		s.flag, s.env)
}
