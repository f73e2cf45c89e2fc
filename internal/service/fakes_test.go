package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"bookingdesk/internal/events"
	"bookingdesk/internal/model"
	"bookingdesk/internal/repository"
	"bookingdesk/pkg/config"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var errStoreDown = errors.New("connection refused")

// fakeTx rolls every fake in the fixture back when fn fails
type fakeTx struct {
	f *fixture
}

func (tx fakeTx) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	snap := tx.f.snapshot()
	if err := fn(ctx); err != nil {
		tx.f.restore(snap)
		return err
	}
	return nil
}

type fixtureState struct {
	bookings   map[uuid.UUID]*model.Booking
	profiles   map[uuid.UUID]*model.UserProfile
	receipts   []model.Receipt
	identities map[string]*model.AuthIdentity
	sessions   map[uuid.UUID]*model.AuthSession
	audit      []model.AuditLog
}

func copyMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// Rows are replaced rather than mutated by the fakes, so shallow map copies suffice
func (f *fixture) snapshot() fixtureState {
	return fixtureState{
		bookings:   copyMap(f.bookings.rows),
		profiles:   copyMap(f.profiles.rows),
		receipts:   append([]model.Receipt(nil), f.receipts.rows...),
		identities: copyMap(f.identities.identities),
		sessions:   copyMap(f.identities.sessions),
		audit:      append([]model.AuditLog(nil), f.audit.entries...),
	}
}

func (f *fixture) restore(s fixtureState) {
	f.bookings.rows = s.bookings
	f.profiles.rows = s.profiles
	f.receipts.rows = s.receipts
	f.identities.identities = s.identities
	f.identities.sessions = s.sessions
	f.audit.entries = s.audit
}

// fakeClock hands out strictly increasing timestamps
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

type fakeBookings struct {
	clock   *fakeClock
	rows    map[uuid.UUID]*model.Booking
	failErr error
}

func newFakeBookings(clock *fakeClock) *fakeBookings {
	return &fakeBookings{clock: clock, rows: map[uuid.UUID]*model.Booking{}}
}

func (r *fakeBookings) Create(_ context.Context, b *model.Booking) error {
	if r.failErr != nil {
		return r.failErr
	}
	now := r.clock.Now()
	b.CreatedAt, b.UpdatedAt = now, now
	cp := *b
	r.rows[b.ID] = &cp
	return nil
}

func (r *fakeBookings) FindByID(_ context.Context, id uuid.UUID) (*model.Booking, error) {
	b, ok := r.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBookings) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeBookings) List(_ context.Context, f repository.BookingFilter) ([]model.Booking, int64, error) {
	if r.failErr != nil {
		return nil, 0, r.failErr
	}
	var out []model.Booking
	for _, b := range r.rows {
		if f.Status != "" && b.Status != f.Status {
			continue
		}
		if f.AssignedAdminID != nil && !b.IsAssignedTo(*f.AssignedAdminID) {
			continue
		}
		if f.Unassigned && b.AssignedAdminID != nil {
			continue
		}
		if f.FromDate != "" && b.EventDate < f.FromDate {
			continue
		}
		if f.ToDate != "" && b.EventDate > f.ToDate {
			continue
		}
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	total := int64(len(out))
	if f.Limit > 0 {
		if f.Offset >= len(out) {
			return []model.Booking{}, total, nil
		}
		end := f.Offset + f.Limit
		if end > len(out) {
			end = len(out)
		}
		out = out[f.Offset:end]
	}
	return out, total, nil
}

func (r *fakeBookings) Update(_ context.Context, b *model.Booking) error {
	if r.failErr != nil {
		return r.failErr
	}
	b.UpdatedAt = r.clock.Now()
	cp := *b
	r.rows[b.ID] = &cp
	return nil
}

func (r *fakeBookings) CountByStatus(context.Context) (map[string]int64, error) {
	out := map[string]int64{}
	for _, b := range r.rows {
		out[b.Status]++
	}
	return out, nil
}

func (r *fakeBookings) CountByEventType(context.Context) ([]repository.EventTypeCount, error) {
	counts := map[string]int64{}
	for _, b := range r.rows {
		counts[b.EventType]++
	}
	var out []repository.EventTypeCount
	for k, v := range counts {
		out = append(out, repository.EventTypeCount{EventType: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].EventType < out[j].EventType
	})
	return out, nil
}

type fakeProfiles struct {
	clock   *fakeClock
	rows    map[uuid.UUID]*model.UserProfile
	failErr error
}

func newFakeProfiles(clock *fakeClock) *fakeProfiles {
	return &fakeProfiles{clock: clock, rows: map[uuid.UUID]*model.UserProfile{}}
}

func (r *fakeProfiles) Create(_ context.Context, p *model.UserProfile) error {
	if r.failErr != nil {
		return r.failErr
	}
	now := r.clock.Now()
	p.CreatedAt, p.UpdatedAt = now, now
	cp := *p
	r.rows[p.ID] = &cp
	return nil
}

func (r *fakeProfiles) FindByID(_ context.Context, id uuid.UUID) (*model.UserProfile, error) {
	p, ok := r.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProfiles) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.UserProfile, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeProfiles) sorted(keep func(*model.UserProfile) bool) []model.UserProfile {
	var out []model.UserProfile
	for _, p := range r.rows {
		if keep(p) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *fakeProfiles) List(_ context.Context, status string) ([]model.UserProfile, error) {
	return r.sorted(func(p *model.UserProfile) bool { return status == "" || p.Status == status }), nil
}

func (r *fakeProfiles) ListAssignable(context.Context) ([]model.UserProfile, error) {
	return r.sorted(func(p *model.UserProfile) bool { return p.IsAssignable() }), nil
}

func (r *fakeProfiles) Update(_ context.Context, p *model.UserProfile) error {
	if r.failErr != nil {
		return r.failErr
	}
	p.UpdatedAt = r.clock.Now()
	cp := *p
	r.rows[p.ID] = &cp
	return nil
}

func (r *fakeProfiles) CountByStatus(_ context.Context, role string) (map[string]int64, error) {
	out := map[string]int64{}
	for _, p := range r.rows {
		if p.Role == role {
			out[p.Status]++
		}
	}
	return out, nil
}

type fakeReceipts struct {
	clock *fakeClock
	rows  []model.Receipt
}

func (r *fakeReceipts) Create(_ context.Context, rc *model.Receipt) error {
	rc.CreatedAt = r.clock.Now()
	r.rows = append(r.rows, *rc)
	return nil
}

func (r *fakeReceipts) ListByBooking(_ context.Context, bookingID uuid.UUID) ([]model.Receipt, error) {
	var out []model.Receipt
	for i := len(r.rows) - 1; i >= 0; i-- {
		if r.rows[i].BookingID == bookingID {
			out = append(out, r.rows[i])
		}
	}
	return out, nil
}

func (r *fakeReceipts) SumAmounts(context.Context) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, rc := range r.rows {
		total = total.Add(rc.Amount)
	}
	return total, nil
}

type fakeIdentities struct {
	identities map[string]*model.AuthIdentity
	sessions   map[uuid.UUID]*model.AuthSession
}

func newFakeIdentities() *fakeIdentities {
	return &fakeIdentities{
		identities: map[string]*model.AuthIdentity{},
		sessions:   map[uuid.UUID]*model.AuthSession{},
	}
}

func (r *fakeIdentities) Create(_ context.Context, id *model.AuthIdentity) error {
	if _, ok := r.identities[id.Email]; ok {
		return repository.ErrDuplicate
	}
	cp := *id
	r.identities[id.Email] = &cp
	return nil
}

func (r *fakeIdentities) FindByEmail(_ context.Context, email string) (*model.AuthIdentity, error) {
	id, ok := r.identities[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *id
	return &cp, nil
}

func (r *fakeIdentities) CreateSession(_ context.Context, s *model.AuthSession) error {
	cp := *s
	r.sessions[s.ID] = &cp
	return nil
}

func (r *fakeIdentities) FindSession(_ context.Context, id uuid.UUID) (*model.AuthSession, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeIdentities) DeleteSession(_ context.Context, id uuid.UUID) error {
	delete(r.sessions, id)
	return nil
}

func (r *fakeIdentities) DeleteExpiredSessions(_ context.Context, identityID uuid.UUID, now time.Time) error {
	for id, s := range r.sessions {
		if s.IdentityID == identityID && s.ExpiresAt.Before(now) {
			delete(r.sessions, id)
		}
	}
	return nil
}

type fakeAudit struct {
	entries []model.AuditLog
}

func (r *fakeAudit) Log(_ context.Context, e *model.AuditLog) error {
	r.entries = append(r.entries, *e)
	return nil
}

func (r *fakeAudit) List(_ context.Context, f repository.AuditFilter) ([]model.AuditLog, int64, error) {
	var out []model.AuditLog
	for i := len(r.entries) - 1; i >= 0; i-- {
		e := r.entries[i]
		if (f.Action != "" && e.Action != f.Action) || (f.EntityID != "" && e.EntityID != f.EntityID) {
			continue
		}
		out = append(out, e)
	}
	total := int64(len(out))
	if f.Offset >= len(out) {
		return []model.AuditLog{}, total, nil
	}
	end := f.Offset + f.Limit
	if end > len(out) {
		end = len(out)
	}
	return out[f.Offset:end], total, nil
}

func (r *fakeAudit) actions() []string {
	out := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.Action)
	}
	return out
}

type recordingNotifier struct {
	events []events.Event
}

func (n *recordingNotifier) Notify(_ context.Context, ev events.Event) {
	n.events = append(n.events, ev)
}

func (n *recordingNotifier) types() []string {
	out := make([]string, 0, len(n.events))
	for _, ev := range n.events {
		out = append(out, ev.Type)
	}
	return out
}

// fixture wires every service against the same in-memory store
type fixture struct {
	clock      *fakeClock
	bookings   *fakeBookings
	profiles   *fakeProfiles
	receipts   *fakeReceipts
	identities *fakeIdentities
	audit      *fakeAudit
	notifier   *recordingNotifier

	auth       *authService
	bookingSvc *bookingService
	profileSvc *profileService
	receiptSvc *receiptService
	stats      StatisticsService
	auditSvc   AuditService
}

const testSuperAdminEmail = "owinovictor91@gmail.com"

func newFixture() *fixture {
	clock := newClock()
	f := &fixture{
		clock:      clock,
		bookings:   newFakeBookings(clock),
		profiles:   newFakeProfiles(clock),
		receipts:   &fakeReceipts{clock: clock},
		identities: newFakeIdentities(),
		audit:      &fakeAudit{},
		notifier:   &recordingNotifier{},
	}

	f.auth = NewAuthService(AuthOptions{
		DomainAllowed:   config.Config{AllowedDomains: []string{"gmail.com", "org.com"}}.IsAllowedDomain,
		SuperAdminEmail: testSuperAdminEmail,
		Secret:          []byte("test-secret"),
		SessionTTL:      time.Hour,
	}, fakeTx{f}, f.identities, f.profiles, f.audit, f.notifier).(*authService)
	f.auth.now = clock.Now

	f.bookingSvc = NewBookingService(fakeTx{f}, f.bookings, f.profiles, f.audit, f.notifier).(*bookingService)
	f.bookingSvc.now = clock.Now
	f.profileSvc = NewProfileService(fakeTx{f}, f.profiles, f.audit, f.notifier).(*profileService)
	f.profileSvc.now = clock.Now
	f.receiptSvc = NewReceiptService(fakeTx{f}, f.bookings, f.receipts, f.audit, f.notifier).(*receiptService)
	f.receiptSvc.now = clock.Now
	f.stats = NewStatisticsService(f.bookings, f.profiles, f.receipts)
	f.auditSvc = NewAuditService(f.audit)
	return f
}

// addProfile inserts a profile directly and returns the matching actor
func (f *fixture) addProfile(email, role, status string) Actor {
	p := &model.UserProfile{ID: uuid.New(), Email: email, Role: role, Status: status}
	_ = f.profiles.Create(context.Background(), p)
	return Actor{ID: p.ID, Email: email, Role: role, Status: status, SessionID: uuid.New()}
}

func (f *fixture) superAdmin() Actor {
	return f.addProfile(testSuperAdminEmail, model.RoleSuperAdmin, model.ProfileStatusActive)
}

func (f *fixture) activeAdmin(email string) Actor {
	return f.addProfile(email, model.RoleAdmin, model.ProfileStatusActive)
}

func validSubmission() SubmitBookingRequest {
	return SubmitBookingRequest{
		ClientName:  "Jo Lee",
		ClientEmail: "jo@x.com",
		EventType:   "Wedding",
		EventDate:   "2025-06-01",
		Message:     "Need a 100-guest venue setup",
	}
}
