package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/ddfinv/backoffice/internal/core/domain"
	"github.com/ddfinv/backoffice/internal/core/ports"
)

var testLog = zerolog.Nop()

func testCatalog() domain.Catalog {
	perms := make([]domain.Permission, 0, len(domain.AllPermissionKinds()))
	for _, k := range domain.AllPermissionKinds() {
		perms = append(perms, domain.Permission{Kind: k, Description: k.Description()})
	}
	return domain.NewCatalog(perms)
}

// ---------------------------------------------------------------------------
// Stub transaction runner
//
// Mirrors real transaction semantics against the in-memory stores: every
// registered store is snapshotted before fn runs and restored when fn fails,
// so a failing step leaves no partial writes behind.
// ---------------------------------------------------------------------------

type snapshotter interface {
	snapshot() func()
}

type stubTx struct {
	stores []snapshotter
}

func newStubTx(stores ...snapshotter) *stubTx {
	return &stubTx{stores: stores}
}

func (t *stubTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	restores := make([]func(), 0, len(t.stores))
	for _, s := range t.stores {
		restores = append(restores, s.snapshot())
	}
	if err := fn(ctx); err != nil {
		for i := len(restores) - 1; i >= 0; i-- {
			restores[i]()
		}
		return err
	}
	return nil
}

// ---------------------------------------------------------------------------
// Stub account repository
// ---------------------------------------------------------------------------

type stubAccountRepo struct {
	byID      map[string]*domain.Account
	seq       int
	createErr error
	updateErr error
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{byID: make(map[string]*domain.Account)}
}

func cloneAccount(a *domain.Account) *domain.Account {
	clone := *a
	clone.Permissions = domain.NewPermissionSet(a.Permissions.Kinds()...)
	return &clone
}

func (r *stubAccountRepo) snapshot() func() {
	saved := make(map[string]*domain.Account, len(r.byID))
	for id, a := range r.byID {
		saved[id] = cloneAccount(a)
	}
	seq := r.seq
	return func() {
		r.byID = saved
		r.seq = seq
	}
}

func (r *stubAccountRepo) Create(_ context.Context, account *domain.Account) (*domain.Account, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	for _, existing := range r.byID {
		if existing.Email == account.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	r.seq++
	clone := cloneAccount(account)
	clone.ID = fmt.Sprintf("acc-%d", r.seq)
	clone.CreatedAt = time.Now().UTC()
	clone.UpdatedAt = clone.CreatedAt
	r.byID[clone.ID] = clone
	return cloneAccount(clone), nil
}

func (r *stubAccountRepo) FindByID(_ context.Context, id string) (*domain.Account, error) {
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneAccount(a), nil
}

func (r *stubAccountRepo) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	for _, a := range r.byID {
		if a.Email == email {
			return cloneAccount(a), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *stubAccountRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, a := range r.byID {
		if a.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubAccountRepo) Update(_ context.Context, account *domain.Account) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.byID[account.ID]; !ok {
		return domain.ErrNotFound
	}
	r.byID[account.ID] = cloneAccount(account)
	return nil
}

func (r *stubAccountRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *stubAccountRepo) List(_ context.Context, role *domain.Role) ([]*domain.Account, error) {
	var out []*domain.Account
	for _, a := range r.byID {
		if role != nil && a.Role != *role {
			continue
		}
		out = append(out, cloneAccount(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubAccountRepo) CountByRole(_ context.Context, role domain.Role) (int64, error) {
	var n int64
	for _, a := range r.byID {
		if a.Role == role {
			n++
		}
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// Stub employee repository
// ---------------------------------------------------------------------------

type stubEmployeeRepo struct {
	byBusinessID map[string]*domain.Employee
	seq          int64
	createErr    error
}

func newStubEmployeeRepo() *stubEmployeeRepo {
	return &stubEmployeeRepo{byBusinessID: make(map[string]*domain.Employee)}
}

func (r *stubEmployeeRepo) snapshot() func() {
	saved := make(map[string]*domain.Employee, len(r.byBusinessID))
	for id, e := range r.byBusinessID {
		clone := *e
		saved[id] = &clone
	}
	seq := r.seq
	return func() {
		r.byBusinessID = saved
		r.seq = seq
	}
}

func (r *stubEmployeeRepo) NextID(_ context.Context) (int64, error) {
	r.seq++
	return r.seq, nil
}

func (r *stubEmployeeRepo) Create(_ context.Context, employee *domain.Employee) (*domain.Employee, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	clone := *employee
	clone.CreatedAt = time.Now().UTC()
	r.byBusinessID[clone.BusinessID] = &clone
	out := clone
	return &out, nil
}

func (r *stubEmployeeRepo) FindByBusinessID(_ context.Context, businessID string) (*domain.Employee, error) {
	e, ok := r.byBusinessID[businessID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *e
	return &clone, nil
}

func (r *stubEmployeeRepo) FindByAccountID(_ context.Context, accountID string) (*domain.Employee, error) {
	for _, e := range r.byBusinessID {
		if e.AccountID == accountID {
			clone := *e
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *stubEmployeeRepo) FindFallback(_ context.Context) (*domain.Employee, error) {
	var lowest *domain.Employee
	for _, e := range r.byBusinessID {
		if lowest == nil || e.NumericID < lowest.NumericID {
			lowest = e
		}
	}
	if lowest == nil {
		return nil, domain.ErrNotFound
	}
	clone := *lowest
	return &clone, nil
}

func (r *stubEmployeeRepo) List(_ context.Context) ([]*domain.Employee, error) {
	var out []*domain.Employee
	for _, e := range r.byBusinessID {
		clone := *e
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NumericID < out[j].NumericID })
	return out, nil
}

func (r *stubEmployeeRepo) Update(_ context.Context, employee *domain.Employee) error {
	if _, ok := r.byBusinessID[employee.BusinessID]; !ok {
		return domain.ErrNotFound
	}
	clone := *employee
	r.byBusinessID[employee.BusinessID] = &clone
	return nil
}

func (r *stubEmployeeRepo) DeleteByAccountID(_ context.Context, accountID string) error {
	for id, e := range r.byBusinessID {
		if e.AccountID == accountID {
			delete(r.byBusinessID, id)
			return nil
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Stub client repository
// ---------------------------------------------------------------------------

type stubClientRepo struct {
	byBusinessID map[string]*domain.Client
	seq          int64
	createErr    error
}

func newStubClientRepo() *stubClientRepo {
	return &stubClientRepo{byBusinessID: make(map[string]*domain.Client)}
}

func (r *stubClientRepo) snapshot() func() {
	saved := make(map[string]*domain.Client, len(r.byBusinessID))
	for id, c := range r.byBusinessID {
		clone := *c
		saved[id] = &clone
	}
	seq := r.seq
	return func() {
		r.byBusinessID = saved
		r.seq = seq
	}
}

func (r *stubClientRepo) NextID(_ context.Context) (int64, error) {
	r.seq++
	return r.seq, nil
}

func (r *stubClientRepo) Create(_ context.Context, client *domain.Client) (*domain.Client, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	clone := *client
	clone.CreatedAt = time.Now().UTC()
	r.byBusinessID[clone.BusinessID] = &clone
	out := clone
	return &out, nil
}

func (r *stubClientRepo) FindByBusinessID(_ context.Context, businessID string) (*domain.Client, error) {
	c, ok := r.byBusinessID[businessID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *stubClientRepo) FindByAccountID(_ context.Context, accountID string) (*domain.Client, error) {
	for _, c := range r.byBusinessID {
		if c.AccountID == accountID {
			clone := *c
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *stubClientRepo) List(_ context.Context) ([]*domain.Client, error) {
	var out []*domain.Client
	for _, c := range r.byBusinessID {
		clone := *c
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NumericID < out[j].NumericID })
	return out, nil
}

func (r *stubClientRepo) ListByEmployee(_ context.Context, employeeBusinessID string) ([]*domain.Client, error) {
	var out []*domain.Client
	for _, c := range r.byBusinessID {
		if c.AssignedEmployeeID == employeeBusinessID {
			clone := *c
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NumericID < out[j].NumericID })
	return out, nil
}

func (r *stubClientRepo) Update(_ context.Context, client *domain.Client) error {
	if _, ok := r.byBusinessID[client.BusinessID]; !ok {
		return domain.ErrNotFound
	}
	clone := *client
	r.byBusinessID[client.BusinessID] = &clone
	return nil
}

func (r *stubClientRepo) DeleteByAccountID(_ context.Context, accountID string) error {
	for id, c := range r.byBusinessID {
		if c.AccountID == accountID {
			delete(r.byBusinessID, id)
			return nil
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Stub upgrade request repository
// ---------------------------------------------------------------------------

type stubUpgradeRepo struct {
	byID      map[string]*domain.UpgradeRequest
	seq       int
	updateErr error
}

func newStubUpgradeRepo() *stubUpgradeRepo {
	return &stubUpgradeRepo{byID: make(map[string]*domain.UpgradeRequest)}
}

func (r *stubUpgradeRepo) snapshot() func() {
	saved := make(map[string]*domain.UpgradeRequest, len(r.byID))
	for id, req := range r.byID {
		clone := *req
		saved[id] = &clone
	}
	seq := r.seq
	return func() {
		r.byID = saved
		r.seq = seq
	}
}

func (r *stubUpgradeRepo) Create(_ context.Context, request *domain.UpgradeRequest) (*domain.UpgradeRequest, error) {
	r.seq++
	clone := *request
	clone.ID = fmt.Sprintf("req-%d", r.seq)
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubUpgradeRepo) FindByID(_ context.Context, id string) (*domain.UpgradeRequest, error) {
	req, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *req
	return &clone, nil
}

func (r *stubUpgradeRepo) ExistsPendingForAccount(_ context.Context, accountID string) (bool, error) {
	for _, req := range r.byID {
		if req.AccountID == accountID && req.Status == domain.UpgradePending {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUpgradeRepo) ListByStatus(_ context.Context, status domain.UpgradeStatus) ([]*domain.UpgradeRequest, error) {
	var out []*domain.UpgradeRequest
	for _, req := range r.byID {
		if req.Status == status {
			clone := *req
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubUpgradeRepo) ListByAccount(_ context.Context, accountID string) ([]*domain.UpgradeRequest, error) {
	var out []*domain.UpgradeRequest
	for _, req := range r.byID {
		if req.AccountID == accountID {
			clone := *req
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubUpgradeRepo) Update(_ context.Context, request *domain.UpgradeRequest) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.byID[request.ID]; !ok {
		return domain.ErrNotFound
	}
	clone := *request
	r.byID[request.ID] = &clone
	return nil
}

// ---------------------------------------------------------------------------
// Stub collaborators
// ---------------------------------------------------------------------------

type stubHasher struct{}

func (stubHasher) Hash(plaintext string) (string, error) {
	return "hashed:" + plaintext, nil
}

func (stubHasher) Verify(plaintext, hash string) bool {
	return hash == "hashed:"+plaintext
}

type stubTokenStore struct {
	revoked      map[string]time.Duration
	revokeErr    error
	isRevokedErr error
}

func newStubTokenStore() *stubTokenStore {
	return &stubTokenStore{revoked: make(map[string]time.Duration)}
}

func (s *stubTokenStore) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	if s.revokeErr != nil {
		return s.revokeErr
	}
	s.revoked[tokenID] = ttl
	return nil
}

func (s *stubTokenStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	if s.isRevokedErr != nil {
		return false, s.isRevokedErr
	}
	_, ok := s.revoked[tokenID]
	return ok, nil
}

// ---------------------------------------------------------------------------
// Fixture helpers
// ---------------------------------------------------------------------------

type fixture struct {
	accounts  *stubAccountRepo
	employees *stubEmployeeRepo
	clients   *stubClientRepo
	upgrades  *stubUpgradeRepo
	tx        *stubTx

	lifecycle *AccountService
	empSvc    *EmployeeService
	clientSvc *ClientService
}

func newFixture() *fixture {
	accounts := newStubAccountRepo()
	employees := newStubEmployeeRepo()
	clients := newStubClientRepo()
	upgrades := newStubUpgradeRepo()
	tx := newStubTx(accounts, employees, clients, upgrades)

	lifecycle := NewAccountService(accounts, employees, clients, testCatalog(), stubHasher{}, tx, testLog)
	return &fixture{
		accounts:  accounts,
		employees: employees,
		clients:   clients,
		upgrades:  upgrades,
		tx:        tx,
		lifecycle: lifecycle,
		empSvc:    NewEmployeeService(employees, accounts, lifecycle, tx, testLog),
		clientSvc: NewClientService(clients, employees, accounts, lifecycle, tx, "", testLog),
	}
}

func (f *fixture) mustCreateAccount(t interface {
	Helper()
	Fatalf(string, ...any)
}, email string, role domain.Role) *domain.Account {
	t.Helper()
	account, err := f.lifecycle.Create(context.Background(), ports.CreateAccountInput{
		Email:    email,
		Password: "Str0ng!pass",
		Role:     role,
	})
	if err != nil {
		t.Fatalf("create account %s: %v", email, err)
	}
	return account
}
