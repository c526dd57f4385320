package handler

import (
	"errors"
	"net/http"

	"soko/internal/domain"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// respondError maps domain errors to HTTP statuses. Anything unrecognized is
// a 500 with a generic message; the real error stays in the server logs.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrSameWallet),
		errors.Is(err, domain.ErrSelfConversation),
		errors.Is(err, domain.ErrWrongRecipient):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInsufficientFunds):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotRecipient),
		errors.Is(err, domain.ErrNotBusiness),
		errors.Is(err, domain.ErrNotServiceOwner),
		errors.Is(err, domain.ErrNotModerator),
		errors.Is(err, domain.ErrNotParticipant):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotPending),
		errors.Is(err, domain.ErrAlreadyAccepted),
		errors.Is(err, domain.ErrAlreadyAssigned),
		errors.Is(err, domain.ErrAlreadyRequested),
		errors.Is(err, domain.ErrDuplicateConversation),
		errors.Is(err, domain.ErrInquiryClosed),
		errors.Is(err, domain.ErrConversationNotAccepted):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
