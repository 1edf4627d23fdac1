package utils

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCode_Unwraps(t *testing.T) {
	err := fmt.Errorf("create booking: %w", ConflictErr("booking %s is already paid", "bk-1"))
	assert.Equal(t, CodeConflict, ErrorCode(err))
}

func TestErrorCode_PlainError(t *testing.T) {
	assert.Equal(t, "", ErrorCode(fmt.Errorf("disk on fire")))
}

func TestInvalidTransitionErr_NamesBothStates(t *testing.T) {
	err := InvalidTransitionErr("completed", "confirmed")
	assert.Equal(t, CodeInvalidTransition, err.Code)
	assert.Contains(t, err.Message, "completed")
	assert.Contains(t, err.Message, "confirmed")
}

func TestStatusForCode(t *testing.T) {
	cases := map[string]int{
		CodeNotFound:          404,
		CodeForbidden:         403,
		CodeConflict:          409,
		CodeInvalidState:      422,
		CodeInvalidTransition: 422,
		CodeDeadlineExceeded:  422,
		CodeValidation:        400,
		CodeGateway:           502,
		"something_else":      500,
	}
	for code, want := range cases {
		assert.Equal(t, want, statusForCode(code), "code %s", code)
	}
}
