package service

import (
	"testing"

	"soko/internal/domain"
	"soko/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type convFixture struct {
	svc     *ConversationService
	convs   *mockConvStore
	wallets *mockWalletStore
	log     *mockTxLog
}

// User 1 is the sender, user 2 the recipient. The fee is the fixed 5.00.
func newConvFixture(t *testing.T, senderBalance, recipientBalance string) *convFixture {
	t.Helper()
	wallets := newMockWalletStore(
		&models.Wallet{ID: 1, UserID: 1, Balance: money(senderBalance)},
		&models.Wallet{ID: 2, UserID: 2, Balance: money(recipientBalance)},
	)
	log := &mockTxLog{}
	convs := newMockConvStore()
	db := newMockDB(wallets, log, convs)
	walletSvc := NewWalletService(db, wallets, log, nil)
	return &convFixture{
		svc:     NewConversationService(db, convs, walletSvc, money("5.00")),
		convs:   convs,
		wallets: wallets,
		log:     log,
	}
}

func TestCreateConversation(t *testing.T) {
	f := newConvFixture(t, "10.00", "0.00")

	conv, err := f.svc.Create(1, 2, "hi, interested in your catering")
	require.NoError(t, err)
	require.False(t, conv.IsAccepted)
	require.Equal(t, uint(1), conv.SenderID)
	require.Equal(t, uint(2), conv.RecipientID)
	require.Equal(t, 1, f.convs.messageCount(conv.ID), "initial message stored with the conversation")

	// Creating costs nothing; the fee is charged on accept.
	require.True(t, f.wallets.balance(1).Equal(money("10.00")))
}

func TestCreateConversation_Self(t *testing.T) {
	f := newConvFixture(t, "10.00", "0.00")
	_, err := f.svc.Create(1, 1, "hello me")
	require.ErrorIs(t, err, domain.ErrSelfConversation)
}

func TestCreateConversation_DuplicateEitherDirection(t *testing.T) {
	f := newConvFixture(t, "10.00", "0.00")
	_, err := f.svc.Create(1, 2, "first")
	require.NoError(t, err)

	_, err = f.svc.Create(1, 2, "again")
	require.ErrorIs(t, err, domain.ErrDuplicateConversation)
	_, err = f.svc.Create(2, 1, "reverse")
	require.ErrorIs(t, err, domain.ErrDuplicateConversation)
}

func TestAcceptConversation_ChargesFee(t *testing.T) {
	f := newConvFixture(t, "10.00", "0.00")
	conv, err := f.svc.Create(1, 2, "hi")
	require.NoError(t, err)

	accepted, tx, err := f.svc.Accept(conv.ConversationID, 2)
	require.NoError(t, err)
	require.True(t, accepted.IsAccepted)

	// Sender pays the recipient the fixed fee.
	require.True(t, f.wallets.balance(1).Equal(money("5.00")))
	require.True(t, f.wallets.balance(2).Equal(money("5.00")))
	require.Equal(t, domain.TransactionTransfer, tx.Type)
	require.Len(t, f.log.all(), 1)
}

func TestAcceptConversation_InsufficientFundsStaysPending(t *testing.T) {
	f := newConvFixture(t, "4.99", "0.00")
	conv, err := f.svc.Create(1, 2, "hi")
	require.NoError(t, err)

	_, _, err = f.svc.Accept(conv.ConversationID, 2)
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)

	stored, err := f.convs.GetByConversationID(conv.ConversationID)
	require.NoError(t, err)
	require.False(t, stored.IsAccepted)
	require.True(t, f.wallets.balance(1).Equal(money("4.99")))
	require.Empty(t, f.log.all())
}

func TestAcceptConversation_OnlyRecipient(t *testing.T) {
	f := newConvFixture(t, "10.00", "0.00")
	conv, err := f.svc.Create(1, 2, "hi")
	require.NoError(t, err)

	_, _, err = f.svc.Accept(conv.ConversationID, 1)
	require.ErrorIs(t, err, domain.ErrNotRecipient)

	_, _, err = f.svc.Accept(conv.ConversationID, 2)
	require.NoError(t, err)
	_, _, err = f.svc.Accept(conv.ConversationID, 2)
	require.ErrorIs(t, err, domain.ErrAlreadyAccepted)
	require.Len(t, f.log.all(), 1, "fee charged once")
}

func TestDenyConversation_DeletesEverything(t *testing.T) {
	f := newConvFixture(t, "10.00", "0.00")
	conv, err := f.svc.Create(1, 2, "hi")
	require.NoError(t, err)

	denied, err := f.svc.Deny(conv.ConversationID, 2)
	require.NoError(t, err)
	require.Equal(t, uint(1), denied.SenderID)
	require.Equal(t, uint(2), denied.RecipientID)

	_, err = f.convs.GetByConversationID(conv.ConversationID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	require.Equal(t, 0, f.convs.messageCount(conv.ID))

	// No money moved, and the pair can try again.
	require.True(t, f.wallets.balance(1).Equal(money("10.00")))
	require.Empty(t, f.log.all())
	_, err = f.svc.Create(1, 2, "second chance")
	require.NoError(t, err)
}

func TestDenyConversation_AfterAccept(t *testing.T) {
	f := newConvFixture(t, "10.00", "0.00")
	conv, err := f.svc.Create(1, 2, "hi")
	require.NoError(t, err)
	_, _, err = f.svc.Accept(conv.ConversationID, 2)
	require.NoError(t, err)

	_, err = f.svc.Deny(conv.ConversationID, 2)
	require.ErrorIs(t, err, domain.ErrAlreadyAccepted)
}

func TestConversationMessage_GatedOnAccept(t *testing.T) {
	f := newConvFixture(t, "10.00", "0.00")
	conv, err := f.svc.Create(1, 2, "hi")
	require.NoError(t, err)

	_, _, err = f.svc.CreateMessage(conv.ConversationID, 1, "are you there?")
	require.ErrorIs(t, err, domain.ErrConversationNotAccepted)

	_, _, err = f.svc.Accept(conv.ConversationID, 2)
	require.NoError(t, err)

	m, _, err := f.svc.CreateMessage(conv.ConversationID, 2, "yes, accepted")
	require.NoError(t, err)
	require.Equal(t, uint(2), m.SenderID)

	// Outsiders never write.
	_, _, err = f.svc.CreateMessage(conv.ConversationID, 99, "let me in")
	require.ErrorIs(t, err, domain.ErrNotParticipant)
}

func TestListMessages_MarksRead(t *testing.T) {
	f := newConvFixture(t, "10.00", "0.00")
	conv, err := f.svc.Create(1, 2, "hi")
	require.NoError(t, err)
	_, _, err = f.svc.Accept(conv.ConversationID, 2)
	require.NoError(t, err)
	_, _, err = f.svc.CreateMessage(conv.ConversationID, 1, "ping")
	require.NoError(t, err)

	unread, err := f.svc.UnreadCount(2)
	require.NoError(t, err)
	require.Equal(t, int64(2), unread, "initial message plus ping")

	list, err := f.svc.ListMessages(conv.ConversationID, 2)
	require.NoError(t, err)
	require.Len(t, list, 2)

	unread, err = f.svc.UnreadCount(2)
	require.NoError(t, err)
	require.Zero(t, unread)

	// The sender's own messages were never counted against them.
	unread, err = f.svc.UnreadCount(1)
	require.NoError(t, err)
	require.Zero(t, unread)

	_, err = f.svc.ListMessages(conv.ConversationID, 99)
	require.ErrorIs(t, err, domain.ErrNotParticipant)
}
