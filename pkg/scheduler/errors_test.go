package scheduler

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type flaggedErr struct{ transient bool }

func (e flaggedErr) Error() string   { return "flagged" }
func (e flaggedErr) Transient() bool { return e.transient }

func TestIsTransient(t *testing.T) {
	tbl := []struct {
		err  error
		want bool
	}{
		{errors.New("reddit /api/submit: 504 Gateway Timeout"), true},
		{errors.New("request timed out: i/o timeout"), true},
		{errors.New("ConnectionPool is full"), true},
		{errors.New("read tcp: Connection reset by peer"), true},
		{errors.New("reddit /api/submit: 500 Internal Server Error"), true},
		{errors.New("RATELIMIT: you are doing that too much. try again in 5 minutes."), true},
		{errors.New("413 Request Entity Too Big"), true},
		{errors.New("Connection aborted"), true},
		{errors.New("connection aborted"), true},
		{fmt.Errorf("publish: %w", errors.New("Connection reset by peer")), true},
		{&TransientError{Err: errors.New("anything")}, true},
		{fmt.Errorf("wrapped: %w", &TransientError{Err: errors.New("anything")}), true},
		{fmt.Errorf("wrapped: %w", flaggedErr{transient: true}), true},
		{flaggedErr{transient: false}, false},
		{errors.New("KeyError: 'title'"), false},
		{errors.New("reddit /api/submit: 403 Forbidden"), false},
		{errors.New("connection reset by peer"), false}, // lower case is not in the known list
		{nil, false},
	}

	for _, tt := range tbl {
		name := "nil"
		if tt.err != nil {
			name = tt.err.Error()
		}
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}
