package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/suPer8Hu/melvis/internal/assessment"
	"github.com/suPer8Hu/melvis/internal/chat"
)

func TestFrom(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   int
	}{
		{chat.ErrEmptyMessage, http.StatusBadRequest, 10010},
		{fmt.Errorf("wrapped: %w", chat.ErrMessageTooLong), http.StatusBadRequest, 10010},
		{chat.ErrInvalidSessionID, http.StatusBadRequest, 10012},
		{assessment.ValidateAnswers(map[string]int{"question_1": 9}), http.StatusBadRequest, 10011},
		{chat.ErrSessionOwnedByOtherUser, http.StatusForbidden, 40301},
		{gorm.ErrRecordNotFound, http.StatusNotFound, 40400},
		{&chat.PersistenceError{Err: errors.New("disk full")}, http.StatusInternalServerError, 50001},
		{New(http.StatusTeapot, 1, "tea", nil), http.StatusTeapot, 1},
	}
	for _, tc := range cases {
		got := From(tc.err)
		assert.Equal(t, tc.status, got.Status, tc.err.Error())
		assert.Equal(t, tc.code, got.Code, tc.err.Error())
	}
	assert.Equal(t, "internal error", From(errors.New("dsn leaked")).Msg)
}
