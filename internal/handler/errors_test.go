package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"soko/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err  error
		want int
	}{
		{gorm.ErrRecordNotFound, http.StatusNotFound},
		{domain.ErrInvalidAmount, http.StatusBadRequest},
		{domain.ErrSameWallet, http.StatusBadRequest},
		{domain.ErrSelfConversation, http.StatusBadRequest},
		{domain.ErrInsufficientFunds, http.StatusUnprocessableEntity},
		{domain.ErrNotRecipient, http.StatusForbidden},
		{domain.ErrNotBusiness, http.StatusForbidden},
		{domain.ErrNotParticipant, http.StatusForbidden},
		{domain.ErrNotPending, http.StatusConflict},
		{domain.ErrAlreadyAccepted, http.StatusConflict},
		{domain.ErrDuplicateConversation, http.StatusConflict},
		{domain.ErrInquiryClosed, http.StatusConflict},
		{errors.New("database on fire"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		respondError(c, tc.err)
		require.Equal(t, tc.want, w.Code, "error %v", tc.err)
	}

	// Internal errors must not leak their message to the client.
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	respondError(c, errors.New("dsn=root:hunter2@tcp"))
	require.NotContains(t, w.Body.String(), "hunter2")
}
