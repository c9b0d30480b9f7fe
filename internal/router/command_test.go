// internal/router/command_test.go
package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		text string
		kind Kind
		args []string
		ok   bool
	}{
		{"bingo", KindBingoOpen, nil, true},
		{"  BINGO  ", KindBingoOpen, nil, true},
		{"bingo join", KindBingoJoin, nil, true},
		{"Bingo   Start", KindBingoStart, nil, true},
		{"bingo draw", KindBingoDraw, nil, true},
		{"bingo cheat", KindBingoCheat, nil, true},
		{"stop games", KindForceStop, nil, true},

		{"lottery", KindLotteryCreate, nil, true},
		{"lottery my", KindLotteryMy, nil, true},
		{"lottery rp on", KindLotteryRPOn, nil, true},
		{"lottery rp off", KindLotteryRPOff, nil, true},
		{"lottery tickets 12345 3", KindLotteryTickets, []string{"12345", "3"}, true},
		{"lottery tickets 5", KindLotteryTickets, []string{"5"}, true},
		{"lottery price 150", KindLotteryPrice, []string{"150"}, true},
		{"lottery winners 5", KindLotteryWinners, []string{"5"}, true},

		{"claim creator", KindClaimCreator, nil, true},
		{"transfer power", KindTransfer, nil, true},
		{"my rights", KindMyRights, nil, true},

		{"hello everyone", KindUnknown, nil, false},
		{"bingo!", KindUnknown, nil, false},
		{"lottery tickets", KindUnknown, nil, false},
		{"", KindUnknown, nil, false},
		{"   ", KindUnknown, nil, false},
	}

	for _, tt := range tests {
		cmd, ok := Parse(tt.text)
		assert.Equal(t, tt.ok, ok, "text %q", tt.text)
		if !tt.ok {
			continue
		}
		assert.Equal(t, tt.kind, cmd.Kind, "text %q", tt.text)
		assert.Equal(t, tt.args, cmd.Args, "text %q", tt.text)
	}
}
