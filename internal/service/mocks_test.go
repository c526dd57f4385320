package service

import (
	"database/sql"
	"sort"
	"sync"

	"soko/internal/domain"
	"soko/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ---------------------------------------------------------------------------
// In-memory mocks. The mock runner serializes "transactions" with a mutex
// (standing in for row locks) and rolls stores back to a checkpoint when the
// callback fails, so atomicity is observable without a database.
// ---------------------------------------------------------------------------

type checkpointer interface {
	checkpoint() func()
}

type mockDB struct {
	mu     sync.Mutex
	stores []checkpointer
}

func newMockDB(stores ...checkpointer) *mockDB {
	return &mockDB{stores: stores}
}

func (d *mockDB) Transaction(fc func(tx *gorm.DB) error, _ ...*sql.TxOptions) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	restores := make([]func(), 0, len(d.stores))
	for _, s := range d.stores {
		restores = append(restores, s.checkpoint())
	}
	if err := fc(nil); err != nil {
		for _, r := range restores {
			r()
		}
		return err
	}
	return nil
}

// --- wallets ---

type mockWalletStore struct {
	mu      sync.Mutex
	wallets map[uint]*models.Wallet
}

func newMockWalletStore(wallets ...*models.Wallet) *mockWalletStore {
	m := &mockWalletStore{wallets: make(map[uint]*models.Wallet)}
	for _, w := range wallets {
		cp := *w
		m.wallets[w.ID] = &cp
	}
	return m
}

func (m *mockWalletStore) GetByUserID(userID uint) (*models.Wallet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, w := range m.wallets {
		if w.UserID == userID {
			cp := *w
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockWalletStore) GetByIDForUpdate(_ *gorm.DB, id uint) (*models.Wallet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.wallets[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *w
	return &cp, nil
}

func (m *mockWalletStore) UpdateBalance(_ *gorm.DB, id uint, balance decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.wallets[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	w.Balance = balance
	return nil
}

func (m *mockWalletStore) balance(id uint) decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.wallets[id].Balance
}

func (m *mockWalletStore) total() decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	sum := decimal.Zero
	for _, w := range m.wallets {
		sum = sum.Add(w.Balance)
	}
	return sum
}

func (m *mockWalletStore) checkpoint() func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap := make(map[uint]models.Wallet, len(m.wallets))
	for id, w := range m.wallets {
		snap[id] = *w
	}
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for id := range m.wallets {
			cp := snap[id]
			m.wallets[id] = &cp
		}
	}
}

// --- transaction log ---

type mockTxLog struct {
	mu       sync.Mutex
	entries  []models.Transaction
	failNext bool
}

func (m *mockTxLog) Create(_ *gorm.DB, t *models.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failNext {
		m.failNext = false
		return gorm.ErrInvalidData
	}
	t.ID = uint(len(m.entries) + 1)
	m.entries = append(m.entries, *t)
	return nil
}

func (m *mockTxLog) all() []models.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Transaction, len(m.entries))
	copy(out, m.entries)
	return out
}

func (m *mockTxLog) checkpoint() func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.entries)
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.entries = m.entries[:n]
	}
}

// --- users ---

type mockUserStore struct {
	mu    sync.Mutex
	users map[uint]*models.User
}

func newMockUserStore(users ...*models.User) *mockUserStore {
	m := &mockUserStore{users: make(map[uint]*models.User)}
	for _, u := range users {
		cp := *u
		m.users[u.ID] = &cp
	}
	return m
}

func (m *mockUserStore) GetByID(id uint) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *mockUserStore) ListModerators(_ *gorm.DB) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.User
	for _, u := range m.users {
		if u.Role == domain.RoleModerator {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// --- inquiries ---

type mockInquiryStore struct {
	mu        sync.Mutex
	inquiries map[uint]*models.Inquiry
}

func newMockInquiryStore(inquiries ...*models.Inquiry) *mockInquiryStore {
	m := &mockInquiryStore{inquiries: make(map[uint]*models.Inquiry)}
	for _, i := range inquiries {
		cp := *i
		m.inquiries[i.ID] = &cp
	}
	return m
}

func (m *mockInquiryStore) GetByID(id uint) (*models.Inquiry, error) {
	return m.GetByIDForUpdate(nil, id)
}

func (m *mockInquiryStore) GetByIDForUpdate(_ *gorm.DB, id uint) (*models.Inquiry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i, ok := m.inquiries[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *i
	return &cp, nil
}

func (m *mockInquiryStore) SetModeratorRequest(_ *gorm.DB, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inquiries[id].HasModeratorRequest = true
	return nil
}

func (m *mockInquiryStore) AssignModerator(_ *gorm.DB, id, moderatorID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inquiries[id].ModeratorID = &moderatorID
	return nil
}

func (m *mockInquiryStore) CountOpenByModerator(_ *gorm.DB, moderatorID uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, i := range m.inquiries {
		if i.ModeratorID != nil && *i.ModeratorID == moderatorID && i.Status == domain.InquiryOpen {
			n++
		}
	}
	return n, nil
}

func (m *mockInquiryStore) checkpoint() func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap := make(map[uint]models.Inquiry, len(m.inquiries))
	for id, i := range m.inquiries {
		snap[id] = *i
	}
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for id := range m.inquiries {
			cp := snap[id]
			m.inquiries[id] = &cp
		}
	}
}

// --- catalog ---

type mockCatalog struct {
	services map[uint]*models.Service
}

func newMockCatalog(services ...*models.Service) *mockCatalog {
	m := &mockCatalog{services: make(map[uint]*models.Service)}
	for _, s := range services {
		cp := *s
		m.services[s.ID] = &cp
	}
	return m
}

func (m *mockCatalog) GetServiceByID(id uint) (*models.Service, error) {
	s, ok := m.services[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

// --- payment requests ---

type mockRequestStore struct {
	mu       sync.Mutex
	nextID   uint
	requests map[uuid.UUID]*models.PaymentRequest
}

func newMockRequestStore() *mockRequestStore {
	return &mockRequestStore{requests: make(map[uuid.UUID]*models.PaymentRequest)}
}

func (m *mockRequestStore) Create(_ *gorm.DB, p *models.PaymentRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	p.ID = m.nextID
	cp := *p
	m.requests[p.RequestID] = &cp
	return nil
}

func (m *mockRequestStore) GetByRequestIDForUpdate(_ *gorm.DB, id uuid.UUID) (*models.PaymentRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockRequestStore) Resolve(_ *gorm.DB, id uint, status string, txID *uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.requests {
		if p.ID == id {
			p.Status = status
			if txID != nil {
				p.TransactionID = txID
			}
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockRequestStore) get(id uuid.UUID) *models.PaymentRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *m.requests[id]
	return &cp
}

func (m *mockRequestStore) checkpoint() func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap := make(map[uuid.UUID]models.PaymentRequest, len(m.requests))
	for id, p := range m.requests {
		snap[id] = *p
	}
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.requests = make(map[uuid.UUID]*models.PaymentRequest, len(snap))
		for id := range snap {
			cp := snap[id]
			m.requests[id] = &cp
		}
	}
}

// --- conversations ---

type mockConvStore struct {
	mu            sync.Mutex
	nextID        uint
	conversations map[uint]*models.Conversation
	messages      []models.ConversationMessage
}

func newMockConvStore() *mockConvStore {
	return &mockConvStore{conversations: make(map[uint]*models.Conversation)}
}

func (m *mockConvStore) Create(_ *gorm.DB, c *models.Conversation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	c.ID = m.nextID
	cp := *c
	m.conversations[c.ID] = &cp
	return nil
}

func (m *mockConvStore) GetByConversationID(id uuid.UUID) (*models.Conversation, error) {
	return m.GetByConversationIDForUpdate(nil, id)
}

func (m *mockConvStore) GetByConversationIDForUpdate(_ *gorm.DB, id uuid.UUID) (*models.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.conversations {
		if c.ConversationID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockConvStore) ExistsBetween(_ *gorm.DB, userA, userB uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.conversations {
		if (c.SenderID == userA && c.RecipientID == userB) || (c.SenderID == userB && c.RecipientID == userA) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockConvStore) MarkAccepted(_ *gorm.DB, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.conversations[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.IsAccepted = true
	return nil
}

func (m *mockConvStore) Delete(_ *gorm.DB, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.conversations, id)
	kept := m.messages[:0]
	for _, msg := range m.messages {
		if msg.ConversationID != id {
			kept = append(kept, msg)
		}
	}
	m.messages = kept
	return nil
}

func (m *mockConvStore) CreateMessage(_ *gorm.DB, msg *models.ConversationMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg.ID = uint(len(m.messages) + 1)
	m.messages = append(m.messages, *msg)
	return nil
}

func (m *mockConvStore) ListMessages(conversationID uint) ([]models.ConversationMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.ConversationMessage
	for _, msg := range m.messages {
		if msg.ConversationID == conversationID {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (m *mockConvStore) MarkMessagesRead(conversationID, viewerID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.messages {
		if m.messages[i].ConversationID == conversationID && m.messages[i].SenderID != viewerID {
			m.messages[i].IsRead = true
		}
	}
	return nil
}

func (m *mockConvStore) UnreadCount(userID uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, msg := range m.messages {
		c, ok := m.conversations[msg.ConversationID]
		if !ok || !c.HasParticipant(userID) {
			continue
		}
		if msg.SenderID != userID && !msg.IsRead {
			n++
		}
	}
	return n, nil
}

func (m *mockConvStore) messageCount(conversationID uint) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, msg := range m.messages {
		if msg.ConversationID == conversationID {
			n++
		}
	}
	return n
}

func (m *mockConvStore) checkpoint() func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	snapConvs := make(map[uint]models.Conversation, len(m.conversations))
	for id, c := range m.conversations {
		snapConvs[id] = *c
	}
	snapMsgs := make([]models.ConversationMessage, len(m.messages))
	copy(snapMsgs, m.messages)
	nextID := m.nextID
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.conversations = make(map[uint]*models.Conversation, len(snapConvs))
		for id := range snapConvs {
			cp := snapConvs[id]
			m.conversations[id] = &cp
		}
		m.messages = snapMsgs
		m.nextID = nextID
	}
}

// money is a test shorthand for decimal amounts.
func money(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}
