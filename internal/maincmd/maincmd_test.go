package maincmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateRequiresCommand(t *testing.T) {
	c := &Cmd{}
	c.SetArgs(nil)
	c.SetFlags(nil)
	assert.Error(t, c.Validate())
}

func TestValidateRejectsUnknownCommand(t *testing.T) {
	c := &Cmd{}
	c.SetArgs([]string{"frobnicate", "a.bs"})
	c.SetFlags(nil)
	assert.Error(t, c.Validate())
}

func TestValidateTokenizeRequiresFile(t *testing.T) {
	c := &Cmd{}
	c.SetArgs([]string{"tokenize"})
	c.SetFlags(nil)
	assert.Error(t, c.Validate())
}

func TestValidateTokenizeAcceptsFile(t *testing.T) {
	c := &Cmd{}
	c.SetArgs([]string{"tokenize", "a.bs"})
	c.SetFlags(nil)
	assert.NoError(t, c.Validate())
}

func TestValidateRunRequiresFuncFlag(t *testing.T) {
	c := &Cmd{}
	c.SetArgs([]string{"run", "a.bs"})
	c.SetFlags(nil)
	assert.Error(t, c.Validate())
}

func TestValidateRunAcceptsFuncFlag(t *testing.T) {
	c := &Cmd{Func: "and:2:1"}
	c.SetArgs([]string{"run", "a.bs", "1", "0"})
	c.SetFlags(map[string]bool{"func": true})
	assert.NoError(t, c.Validate())
}

func TestValidateRejectsFuncFlagOnOtherCommands(t *testing.T) {
	c := &Cmd{Func: "and:2:1"}
	c.SetArgs([]string{"tokenize", "a.bs"})
	c.SetFlags(map[string]bool{"func": true})
	assert.Error(t, c.Validate())
}

func TestValidateHelpBypassesCommand(t *testing.T) {
	c := &Cmd{Help: true}
	c.SetArgs(nil)
	c.SetFlags(nil)
	assert.NoError(t, c.Validate())
}
